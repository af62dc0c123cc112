package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hospitalsr/farmacia-api/internal/application/consolidado"
	"github.com/hospitalsr/farmacia-api/internal/application/dto"
)

// ConsolidadoHandler maneja los consolidados de consumo por sala/turno.
type ConsolidadoHandler struct {
	uc *consolidado.UseCase
}

// NewConsolidadoHandler construye el handler de consolidados.
func NewConsolidadoHandler(uc *consolidado.UseCase) *ConsolidadoHandler {
	return &ConsolidadoHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar consolidado de consumo
// @Description  Registra en una sola transacción las salidas de kardex por
//
//	FEFO para el consumo agregado de la sala en el turno. Todo o
//	nada: 409 si algún insumo no tiene stock vigente suficiente.
//
// @Tags         consolidados
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateConsolidadoRequest  true  "servicio_id, fecha, turno, lineas"
// @Success      201   {object}  dto.ConsolidadoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/consolidados [post]
func (h *ConsolidadoHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateConsolidadoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	co, err := h.uc.Crear(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toConsolidadoResponse(co))
}

// GetByID godoc
// @Summary      Consultar consolidado
// @Tags         consolidados
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del consolidado"
// @Success      200  {object}  dto.ConsolidadoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/consolidados/{id} [get]
func (h *ConsolidadoHandler) GetByID(c *fiber.Ctx) error {
	co, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toConsolidadoResponse(co))
}

// List godoc
// @Summary      Listar consolidados
// @Tags         consolidados
// @Security     Bearer
// @Produce      json
// @Param        servicio_id  query  string  false  "Filtrar por servicio"
// @Param        limit        query  int     false  "Máximo de filas (default 20)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.ConsolidadoResponse
// @Router       /api/consolidados [get]
func (h *ConsolidadoHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.Query("servicio_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ConsolidadoResponse, 0, len(list))
	for _, co := range list {
		out = append(out, toConsolidadoResponse(co))
	}
	return c.JSON(fiber.Map{"total": len(out), "consolidados": out})
}

// Cerrar godoc
// @Summary      Cerrar consolidado
// @Tags         consolidados
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del consolidado"
// @Success      200  {object}  dto.ConsolidadoResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/consolidados/{id}/cerrar [post]
func (h *ConsolidadoHandler) Cerrar(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	co, err := h.uc.Cerrar(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toConsolidadoResponse(co))
}

// Anular godoc
// @Summary      Anular consolidado
// @Description  Marca el consolidado como ANULADO. No revierte las salidas ya
//
//	registradas; cualquier reversión va como ajuste manual.
//
// @Tags         consolidados
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del consolidado"
// @Param        body  body  dto.AnularConsolidadoRequest  true  "motivo"
// @Success      200   {object}  dto.ConsolidadoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/consolidados/{id}/anular [post]
func (h *ConsolidadoHandler) Anular(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AnularConsolidadoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "motivo es requerido"})
	}
	co, err := h.uc.Anular(c.Context(), userID, c.Params("id"), in.Motivo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toConsolidadoResponse(co))
}
