package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hospitalsr/farmacia-api/internal/application/cuadre"
	"github.com/hospitalsr/farmacia-api/internal/application/dto"
)

// CuadreHandler maneja las sesiones de cuadre (conteo físico y conciliación).
type CuadreHandler struct {
	uc *cuadre.UseCase
}

// NewCuadreHandler construye el handler de cuadres.
func NewCuadreHandler(uc *cuadre.UseCase) *CuadreHandler {
	return &CuadreHandler{uc: uc}
}

// Iniciar godoc
// @Summary      Iniciar sesión de cuadre
// @Description  Congela la cantidad teórica de cada insumo vigilado (saldo de
//
//	kardex o cuota fija según su modo) y abre la sesión de conteo.
//
// @Tags         cuadres
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IniciarCuadreRequest  true  "turnista, bodeguero, observaciones"
// @Success      201   {object}  dto.CuadreResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cuadres [post]
func (h *CuadreHandler) Iniciar(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.IniciarCuadreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	cu, err := h.uc.Iniciar(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCuadreResponse(cu))
}

// GetByID godoc
// @Summary      Consultar sesión de cuadre
// @Tags         cuadres
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cuadre"
// @Success      200  {object}  dto.CuadreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cuadres/{id} [get]
func (h *CuadreHandler) GetByID(c *fiber.Ctx) error {
	cu, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCuadreResponse(cu))
}

// List godoc
// @Summary      Listar sesiones de cuadre
// @Tags         cuadres
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de filas (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.CuadreResponse
// @Router       /api/cuadres [get]
func (h *CuadreHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CuadreResponse, 0, len(list))
	for _, cu := range list {
		out = append(out, toCuadreResponse(cu))
	}
	return c.JSON(fiber.Map{"total": len(out), "cuadres": out})
}

// RegistrarConteo godoc
// @Summary      Registrar conteo físico de una línea
// @Description  Guarda la cantidad física contada y deriva la diferencia
//
//	contra el teórico. Recontar una línea sobreescribe el conteo
//	anterior mientras la sesión no esté FINALIZADA.
//
// @Tags         cuadres
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string  true  "ID del cuadre"
// @Param        detalleId  path  string  true  "ID de la línea"
// @Param        body       body  dto.RegistrarConteoRequest  true  "cantidad_fisica"
// @Success      200   {object}  dto.CuadreResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cuadres/{id}/conteos/{detalleId} [put]
func (h *CuadreHandler) RegistrarConteo(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegistrarConteoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cu, err := h.uc.RegistrarConteo(c.Context(), userID, c.Params("id"), c.Params("detalleId"), in.CantidadFisica)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCuadreResponse(cu))
}

// Finalizar godoc
// @Summary      Finalizar sesión de cuadre
// @Description  Exige que todas las líneas estén contadas (422 si no) y
//
//	registra un ajuste de kardex por cada diferencia no nula, en
//	una sola transacción. La sesión queda inmutable.
//
// @Tags         cuadres
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cuadre"
// @Success      200  {object}  dto.CuadreResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/cuadres/{id}/finalizar [post]
func (h *CuadreHandler) Finalizar(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	cu, err := h.uc.Finalizar(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCuadreResponse(cu))
}

// EnrolarInsumo godoc
// @Summary      Enrolar insumo en la lista de vigilancia del cuadre
// @Tags         cuadres
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EnrolarInsumoCuadreRequest  true  "insumo_presentacion_id, modo, cuota_fija"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cuadres/insumos [post]
func (h *CuadreHandler) EnrolarInsumo(c *fiber.Ctx) error {
	var in dto.EnrolarInsumoCuadreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	ci, err := h.uc.EnrolarInsumo(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"insumo_presentacion_id": ci.InsumoPresentacionID,
		"modo":                   ci.Modo,
		"cuota_fija":             ci.CuotaFija,
	})
}

// ListInsumosVigilados godoc
// @Summary      Listar insumos vigilados por el cuadre
// @Tags         cuadres
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  map[string]interface{}
// @Router       /api/cuadres/insumos [get]
func (h *CuadreHandler) ListInsumosVigilados(c *fiber.Ctx) error {
	list, err := h.uc.ListInsumosVigilados(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]fiber.Map, 0, len(list))
	for _, ci := range list {
		out = append(out, fiber.Map{
			"insumo_presentacion_id": ci.InsumoPresentacionID,
			"modo":                   ci.Modo,
			"cuota_fija":             ci.CuotaFija,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "insumos": out})
}
