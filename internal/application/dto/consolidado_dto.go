package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsolidadoLineaRequest consumo administrado a una cama/paciente.
type ConsolidadoLineaRequest struct {
	Cama                 int             `json:"cama"`
	PacienteRef          string          `json:"paciente_ref" validate:"required"`
	InsumoPresentacionID string          `json:"insumo_presentacion_id" validate:"required"`
	Cantidad             decimal.Decimal `json:"cantidad"`
}

// CreateConsolidadoRequest body para POST /api/consolidados. Las salidas de
// kardex se registran al crear, en una sola transacción.
type CreateConsolidadoRequest struct {
	ServicioID string                    `json:"servicio_id" validate:"required"`
	Fecha      time.Time                 `json:"fecha" validate:"required"`
	Turno      string                    `json:"turno" validate:"required,oneof=DIA NOCHE"`
	Lineas     []ConsolidadoLineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// AnularConsolidadoRequest body para POST /api/consolidados/:id/anular.
type AnularConsolidadoRequest struct {
	Motivo string `json:"motivo" validate:"required"`
}

// ConsolidadoDetalleResponse línea de consolidado en respuestas.
type ConsolidadoDetalleResponse struct {
	ID                   string          `json:"id"`
	Cama                 int             `json:"cama"`
	PacienteRef          string          `json:"paciente_ref"`
	InsumoPresentacionID string          `json:"insumo_presentacion_id"`
	Cantidad             decimal.Decimal `json:"cantidad"`
}

// ConsolidadoResponse cabecera + detalles de un consolidado.
type ConsolidadoResponse struct {
	ID          string                       `json:"id"`
	ServicioID  string                       `json:"servicio_id"`
	Fecha       time.Time                    `json:"fecha"`
	Turno       string                       `json:"turno"`
	Estado      string                       `json:"estado"`
	MotivoAnula string                       `json:"motivo_anula,omitempty"`
	CerradoPor  string                       `json:"cerrado_por,omitempty"`
	CerradoEn   *time.Time                   `json:"cerrado_en,omitempty"`
	Detalles    []ConsolidadoDetalleResponse `json:"detalles"`
}
