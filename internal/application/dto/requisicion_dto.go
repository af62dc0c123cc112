package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequisicionLineaRequest línea solicitada de una requisición.
type RequisicionLineaRequest struct {
	InsumoPresentacionID string          `json:"insumo_presentacion_id" validate:"required"`
	CantidadSolicitada   decimal.Decimal `json:"cantidad_solicitada"`
}

// CreateRequisicionRequest body para POST /api/requisiciones.
type CreateRequisicionRequest struct {
	ServicioID string                    `json:"servicio_id" validate:"required"`
	Prioridad  string                    `json:"prioridad" validate:"omitempty,oneof=NORMAL URGENTE"`
	Lineas     []RequisicionLineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// AprobarRequisicionRequest body para POST /api/requisiciones/:id/aprobar.
// Autorizadas mapea id de detalle -> cantidad autorizada; las líneas ausentes
// quedan autorizadas por lo solicitado.
type AprobarRequisicionRequest struct {
	Autorizadas map[string]decimal.Decimal `json:"autorizadas"`
}

// EntregarRequisicionRequest body para POST /api/requisiciones/:id/entregar.
// Entregadas mapea id de detalle -> cantidad entregada; las líneas ausentes
// se entregan por lo autorizado.
type EntregarRequisicionRequest struct {
	Entregadas map[string]decimal.Decimal `json:"entregadas"`
}

// AnularRequisicionRequest body para POST /api/requisiciones/:id/anular.
type AnularRequisicionRequest struct {
	Motivo string `json:"motivo" validate:"required"`
}

// RequisicionDetalleResponse línea de requisición en respuestas.
type RequisicionDetalleResponse struct {
	ID                   string          `json:"id"`
	InsumoPresentacionID string          `json:"insumo_presentacion_id"`
	CantidadSolicitada   decimal.Decimal `json:"cantidad_solicitada"`
	CantidadAutorizada   decimal.Decimal `json:"cantidad_autorizada"`
	CantidadEntregada    decimal.Decimal `json:"cantidad_entregada"`
	PrecioUnitario       decimal.Decimal `json:"precio_unitario"`
}

// RequisicionResponse cabecera + detalles de una requisición.
type RequisicionResponse struct {
	ID            string                       `json:"id"`
	ServicioID    string                       `json:"servicio_id"`
	Prioridad     string                       `json:"prioridad"`
	Estado        string                       `json:"estado"`
	MotivoAnula   string                       `json:"motivo_anula,omitempty"`
	SolicitadoPor string                       `json:"solicitado_por"`
	SolicitadoEn  time.Time                    `json:"solicitado_en"`
	AutorizadoPor string                       `json:"autorizado_por,omitempty"`
	AutorizadoEn  *time.Time                   `json:"autorizado_en,omitempty"`
	EntregadoPor  string                       `json:"entregado_por,omitempty"`
	EntregadoEn   *time.Time                   `json:"entregado_en,omitempty"`
	Detalles      []RequisicionDetalleResponse `json:"detalles"`
}
