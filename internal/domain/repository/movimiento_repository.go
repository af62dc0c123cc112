package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
)

// MovimientoRepository es el contrato de persistencia del kardex (append-only).
// No hay Update ni Delete: las correcciones son movimientos opuestos nuevos.
type MovimientoRepository interface {
	// Create inserta el movimiento y asigna Secuencia (orden de inserción).
	Create(m *entity.Movimiento) error
	// ListByInsumo devuelve movimientos del insumo ordenados por (fecha,
	// secuencia) ascendente, acotados al rango si desde/hasta no son nil.
	ListByInsumo(insumoID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error)
	// SumByInsumo suma las cantidades con signo del insumo hasta el corte
	// (inclusive); corte nil = todos. Es la derivación del saldo por replay.
	SumByInsumo(insumoID string, corte *time.Time) (decimal.Decimal, error)
}
