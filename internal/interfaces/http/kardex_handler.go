package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hospitalsr/farmacia-api/internal/application/dto"
	"github.com/hospitalsr/farmacia-api/internal/application/kardex"
)

// KardexHandler maneja las consultas de kardex y saldos.
type KardexHandler struct {
	consultas *kardex.Consultas
}

// NewKardexHandler construye el handler de consultas de kardex.
func NewKardexHandler(consultas *kardex.Consultas) *KardexHandler {
	return &KardexHandler{consultas: consultas}
}

// GetSaldo godoc
// @Summary      Saldo y costo promedio de un insumo
// @Description  Con ?corte=RFC3339 devuelve el saldo histórico reconstruido
//
//	reproduciendo los movimientos hasta esa fecha.
//
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        insumoId  path   string  true   "ID del insumo"
// @Param        corte     query  string  false  "Fecha de corte RFC3339 (saldo histórico)"
// @Success      200  {object}  dto.SaldoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/{insumoId}/saldo [get]
func (h *KardexHandler) GetSaldo(c *fiber.Ctx) error {
	insumoID := c.Params("insumoId")

	if corteStr := c.Query("corte"); corteStr != "" {
		corte, err := time.Parse(time.RFC3339, corteStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "corte debe ser RFC3339"})
		}
		cantidad, err := h.consultas.SaldoAlCorte(insumoID, corte)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"insumo_presentacion_id": insumoID, "corte": corte, "cantidad": cantidad})
	}

	saldo, err := h.consultas.Saldo(insumoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSaldoResponse(saldo))
}

// GetKardex godoc
// @Summary      Movimientos de kardex de un insumo
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        insumoId  path   string  true   "ID del insumo"
// @Param        desde     query  string  false  "Desde (RFC3339)"
// @Param        hasta     query  string  false  "Hasta (RFC3339)"
// @Param        limit     query  int     false  "Máximo de filas (default 20)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.MovimientoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/kardex/{insumoId} [get]
func (h *KardexHandler) GetKardex(c *fiber.Ctx) error {
	insumoID := c.Params("insumoId")

	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	var desde, hasta *time.Time
	if s := c.Query("desde"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde debe ser RFC3339"})
		}
		desde = &t
	}
	if s := c.Query("hasta"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hasta debe ser RFC3339"})
		}
		hasta = &t
	}

	movs, err := h.consultas.Kardex(insumoID, desde, hasta, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovimientoResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovimientoResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movimientos": out})
}

// VerificarSaldo godoc
// @Summary      Verificar consistencia saldo vs kardex
// @Description  Recalcula el saldo reproduciendo el log de movimientos y lo
//
//	compara con la caché materializada.
//
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        insumoId  path  string  true  "ID del insumo"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/{insumoId}/verificar [get]
func (h *KardexHandler) VerificarSaldo(c *fiber.Ctx) error {
	v, err := h.consultas.VerificarSaldo(c.Params("insumoId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"insumo_presentacion_id": v.InsumoPresentacionID,
		"saldo_cache":            v.SaldoCache,
		"saldo_replay":           v.SaldoReplay,
		"consistente":            v.Consistente,
	})
}
