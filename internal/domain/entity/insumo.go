package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsumoPresentacion representa un medicamento en una combinación concreta de
// presentación y unidad de medida: la granularidad a la que se lleva stock,
// costo promedio y precio. Los cambios de precio nunca alteran movimientos
// pasados (cada movimiento guarda su propio costo).
type InsumoPresentacion struct {
	ID             string
	Nombre         string
	Presentacion   string // ej. "tableta", "ampolla", "frasco 120ml"
	UnidadMedida   string // ej. "mg", "ml", "unidad"
	PrecioUnitario decimal.Decimal // precio nominal de venta/cargo
	Activo         bool
	CreadoEn       time.Time
	ActualizadoEn  time.Time
}
