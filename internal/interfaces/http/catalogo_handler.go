package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hospitalsr/farmacia-api/internal/application/catalogo"
	"github.com/hospitalsr/farmacia-api/internal/application/dto"
)

// CatalogoHandler maneja el catálogo de insumos-presentación y servicios.
type CatalogoHandler struct {
	uc *catalogo.UseCase
}

// NewCatalogoHandler construye el handler del catálogo.
func NewCatalogoHandler(uc *catalogo.UseCase) *CatalogoHandler {
	return &CatalogoHandler{uc: uc}
}

// CreateInsumo godoc
// @Summary      Crear insumo-presentación
// @Tags         catalogo
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInsumoRequest  true  "nombre, presentacion, unidad_medida, precio_unitario"
// @Success      201   {object}  dto.InsumoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/insumos [post]
func (h *CatalogoHandler) CreateInsumo(c *fiber.Ctx) error {
	var in dto.CreateInsumoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	insumo, err := h.uc.CrearInsumo(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInsumoResponse(insumo))
}

// GetInsumo godoc
// @Summary      Consultar insumo-presentación
// @Tags         catalogo
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del insumo"
// @Success      200  {object}  dto.InsumoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/insumos/{id} [get]
func (h *CatalogoHandler) GetInsumo(c *fiber.Ctx) error {
	insumo, err := h.uc.GetInsumo(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInsumoResponse(insumo))
}

// ListInsumos godoc
// @Summary      Listar insumos-presentación
// @Tags         catalogo
// @Security     Bearer
// @Produce      json
// @Param        activos  query  bool  false  "Solo insumos activos"
// @Param        limit    query  int   false  "Máximo de filas (default 20)"
// @Param        offset   query  int   false  "Desplazamiento"
// @Success      200  {array}  dto.InsumoResponse
// @Router       /api/insumos [get]
func (h *CatalogoHandler) ListInsumos(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	soloActivos := c.QueryBool("activos", false)
	insumos, err := h.uc.ListInsumos(c.Context(), soloActivos, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.InsumoResponse, 0, len(insumos))
	for _, i := range insumos {
		out = append(out, toInsumoResponse(i))
	}
	return c.JSON(fiber.Map{"total": len(out), "insumos": out})
}

// ListLotes godoc
// @Summary      Listar lotes de un insumo
// @Tags         catalogo
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del insumo"
// @Success      200  {array}  dto.LoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/insumos/{id}/lotes [get]
func (h *CatalogoHandler) ListLotes(c *fiber.Ctx) error {
	lotes, err := h.uc.ListLotes(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LoteResponse, 0, len(lotes))
	for _, l := range lotes {
		out = append(out, toLoteResponse(l))
	}
	return c.JSON(fiber.Map{"total": len(out), "lotes": out})
}

// CreateServicio godoc
// @Summary      Crear servicio/sala
// @Tags         catalogo
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateServicioRequest  true  "nombre, camas"
// @Success      201   {object}  dto.ServicioResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/servicios [post]
func (h *CatalogoHandler) CreateServicio(c *fiber.Ctx) error {
	var in dto.CreateServicioRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	servicio, err := h.uc.CrearServicio(c.Context(), in.Nombre, in.Camas)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toServicioResponse(servicio))
}

// ListServicios godoc
// @Summary      Listar servicios/salas
// @Tags         catalogo
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ServicioResponse
// @Router       /api/servicios [get]
func (h *CatalogoHandler) ListServicios(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	servicios, err := h.uc.ListServicios(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ServicioResponse, 0, len(servicios))
	for _, s := range servicios {
		out = append(out, toServicioResponse(s))
	}
	return c.JSON(fiber.Map{"total": len(out), "servicios": out})
}
