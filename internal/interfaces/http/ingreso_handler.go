package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hospitalsr/farmacia-api/internal/application/dto"
	"github.com/hospitalsr/farmacia-api/internal/application/ingreso"
)

// IngresoHandler maneja los ingresos de mercancía a bodega.
type IngresoHandler struct {
	uc *ingreso.UseCase
}

// NewIngresoHandler construye el handler de ingresos.
func NewIngresoHandler(uc *ingreso.UseCase) *IngresoHandler {
	return &IngresoHandler{uc: uc}
}

// Registrar godoc
// @Summary      Registrar ingreso a bodega
// @Description  Crea un lote por línea y registra las entradas de kardex en
//
//	una sola transacción; recalcula el costo promedio por insumo.
//
// @Tags         ingresos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistrarIngresoRequest  true  "documento, proveedor_ref, lineas"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ingresos [post]
func (h *IngresoHandler) Registrar(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegistrarIngresoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	lotes, err := h.uc.Registrar(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LoteResponse, 0, len(lotes))
	for _, l := range lotes {
		out = append(out, toLoteResponse(l))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"documento": in.Documento, "lotes": out})
}
