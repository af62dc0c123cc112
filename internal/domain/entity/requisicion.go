package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una requisición. ENTREGADA, RECHAZADA y ANULADA son terminales.
const (
	RequisicionPendiente = "PENDIENTE"
	RequisicionAprobada  = "APROBADA"
	RequisicionEntregada = "ENTREGADA"
	RequisicionRechazada = "RECHAZADA"
	RequisicionAnulada   = "ANULADA"
)

// Prioridades de requisición.
const (
	PrioridadNormal  = "NORMAL"
	PrioridadUrgente = "URGENTE"
)

// Requisicion es la solicitud formal de medicamentos de un servicio/sala,
// sujeta a autorización y entrega. Ciclo: PENDIENTE -> APROBADA -> ENTREGADA,
// con RECHAZADA desde PENDIENTE y ANULADA (con motivo) desde estados no
// entregados.
type Requisicion struct {
	ID            string
	ServicioID    string
	Prioridad     string
	Estado        string
	MotivoAnula   string
	SolicitadoPor string
	SolicitadoEn  time.Time
	AutorizadoPor string
	AutorizadoEn  *time.Time
	EntregadoPor  string
	EntregadoEn   *time.Time
	CreadoEn      time.Time
	ActualizadoEn time.Time
	Detalles      []*RequisicionDetalle
}

// RequisicionDetalle es una línea de requisición. Invariantes:
// 0 <= CantidadAutorizada <= CantidadSolicitada y
// 0 <= CantidadEntregada <= CantidadAutorizada.
// PrecioUnitario es el costo ponderado por asignación de lotes al entregar
// (una línea puede consumir varios lotes a costos distintos).
type RequisicionDetalle struct {
	ID                   string
	RequisicionID        string
	InsumoPresentacionID string
	CantidadSolicitada   decimal.Decimal
	CantidadAutorizada   decimal.Decimal
	CantidadEntregada    decimal.Decimal
	PrecioUnitario       decimal.Decimal
}
