package dto

// CreateServicioRequest body para POST /api/servicios.
type CreateServicioRequest struct {
	Nombre string `json:"nombre" validate:"required"`
	Camas  int    `json:"camas" validate:"required,min=1"`
}

// ServicioResponse representación HTTP de un servicio/sala.
type ServicioResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Camas  int    `json:"camas"`
	Activo bool   `json:"activo"`
}
