package kardex

import (
	"context"

	"github.com/hospitalsr/farmacia-api/internal/domain/repository"
)

// RepoSet agrupa los repositorios atados a una misma transacción de BD.
type RepoSet struct {
	Insumos       repository.InsumoRepository
	Lotes         repository.LoteRepository
	Movimientos   repository.MovimientoRepository
	Saldos        repository.SaldoRepository
	Requisiciones repository.RequisicionRepository
	Consolidados  repository.ConsolidadoRepository
	Cuadres       repository.CuadreRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad todo-o-nada para las
// operaciones multi-línea del motor de inventario: o cada registro planificado
// se confirma, o el estado observable queda intacto.
type TxRunner interface {
	Run(ctx context.Context, fn func(r RepoSet) error) error
}
