package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	LoteDisponible = "DISPONIBLE"
	LoteAgotado    = "AGOTADO"
	LoteVencido    = "VENCIDO"
)

// Lote representa una partida físicamente distinta de un insumo, con su propia
// fecha de vencimiento y costo de adquisición. Se crea con un movimiento de
// entrada y solo lo mutan movimientos que lo referencian; nunca se elimina,
// se lleva a cero y se marca AGOTADO. Invariante: Cantidad >= 0 siempre.
type Lote struct {
	ID                   string
	InsumoPresentacionID string
	NumeroLote           string // número de lote del fabricante
	CostoUnitario        decimal.Decimal
	Cantidad             decimal.Decimal
	FechaVencimiento     time.Time
	Estado               string
	CreadoEn             time.Time
	ActualizadoEn        time.Time
}

// Vencido indica si el lote está vencido a la fecha dada (vence al final del día anterior).
func (l *Lote) Vencido(hoy time.Time) bool {
	return l.FechaVencimiento.Before(hoy)
}
