package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hospitalsr/farmacia-api/internal/application/dto"
	"github.com/hospitalsr/farmacia-api/internal/application/requisicion"
)

// RequisicionHandler maneja el ciclo de vida de las requisiciones.
type RequisicionHandler struct {
	uc *requisicion.UseCase
}

// NewRequisicionHandler construye el handler de requisiciones.
func NewRequisicionHandler(uc *requisicion.UseCase) *RequisicionHandler {
	return &RequisicionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear requisición
// @Tags         requisiciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequisicionRequest  true  "servicio_id, prioridad, lineas"
// @Success      201   {object}  dto.RequisicionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requisiciones [post]
func (h *RequisicionHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateRequisicionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	r, err := h.uc.Crear(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRequisicionResponse(r))
}

// GetByID godoc
// @Summary      Consultar requisición
// @Tags         requisiciones
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.RequisicionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requisiciones/{id} [get]
func (h *RequisicionHandler) GetByID(c *fiber.Ctx) error {
	r, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRequisicionResponse(r))
}

// List godoc
// @Summary      Listar requisiciones
// @Tags         requisiciones
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Máximo de filas (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.RequisicionResponse
// @Router       /api/requisiciones [get]
func (h *RequisicionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.Query("estado"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RequisicionResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRequisicionResponse(r))
	}
	return c.JSON(fiber.Map{"total": len(out), "requisiciones": out})
}

// Aprobar godoc
// @Summary      Aprobar requisición
// @Description  Fija cantidades autorizadas por línea (0 <= autorizada <=
//
//	solicitada; ausente = lo solicitado) y pasa a APROBADA.
//
// @Tags         requisiciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la requisición"
// @Param        body  body  dto.AprobarRequisicionRequest  false  "autorizadas: detalle_id -> cantidad"
// @Success      200   {object}  dto.RequisicionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisiciones/{id}/aprobar [post]
func (h *RequisicionHandler) Aprobar(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AprobarRequisicionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	r, err := h.uc.Aprobar(c.Context(), userID, c.Params("id"), in.Autorizadas)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRequisicionResponse(r))
}

// Entregar godoc
// @Summary      Entregar requisición
// @Description  Descuenta stock por FEFO en una sola transacción (todo o
//
//	nada) y pasa a ENTREGADA. 409 si algún insumo no tiene stock
//	vigente suficiente.
//
// @Tags         requisiciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la requisición"
// @Param        body  body  dto.EntregarRequisicionRequest  false  "entregadas: detalle_id -> cantidad"
// @Success      200   {object}  dto.RequisicionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisiciones/{id}/entregar [post]
func (h *RequisicionHandler) Entregar(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.EntregarRequisicionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	r, err := h.uc.Entregar(c.Context(), userID, c.Params("id"), in.Entregadas)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRequisicionResponse(r))
}

// Rechazar godoc
// @Summary      Rechazar requisición
// @Tags         requisiciones
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.RequisicionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requisiciones/{id}/rechazar [post]
func (h *RequisicionHandler) Rechazar(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	r, err := h.uc.Rechazar(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRequisicionResponse(r))
}

// Anular godoc
// @Summary      Anular requisición
// @Tags         requisiciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la requisición"
// @Param        body  body  dto.AnularRequisicionRequest  true  "motivo"
// @Success      200   {object}  dto.RequisicionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisiciones/{id}/anular [post]
func (h *RequisicionHandler) Anular(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AnularRequisicionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "motivo es requerido"})
	}
	r, err := h.uc.Anular(c.Context(), userID, c.Params("id"), in.Motivo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRequisicionResponse(r))
}
