package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un consolidado de consumo.
const (
	ConsolidadoActivo  = "ACTIVO"
	ConsolidadoCerrado = "CERRADO"
	ConsolidadoAnulado = "ANULADO"
)

// Turnos de un consolidado.
const (
	TurnoDia   = "DIA"
	TurnoNoche = "NOCHE"
)

// Consolidado agrupa por sala, fecha y turno los consumos por cama de un
// servicio. Las salidas de kardex se registran AL CREARLO (no es un documento
// de preparación). Anularlo solo marca el estado: no revierte las salidas ya
// registradas; la reversión, si se quiere, es un ajuste compensatorio manual.
type Consolidado struct {
	ID            string
	ServicioID    string
	Fecha         time.Time
	Turno         string
	Estado        string
	MotivoAnula   string
	CerradoPor    string
	CerradoEn     *time.Time
	CreadoPor     string
	CreadoEn      time.Time
	ActualizadoEn time.Time
	Detalles      []*ConsolidadoDetalle
}

// ConsolidadoDetalle es el consumo administrado a una cama/paciente.
// Cama va de 1 a la capacidad fija de la sala.
type ConsolidadoDetalle struct {
	ID                   string
	ConsolidadoID        string
	Cama                 int
	PacienteRef          string
	InsumoPresentacionID string
	Cantidad             decimal.Decimal
}
