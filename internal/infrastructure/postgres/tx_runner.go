package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hospitalsr/farmacia-api/internal/application/kardex"
	"github.com/hospitalsr/farmacia-api/internal/domain"
)

// Ensure TxRunner implements kardex.TxRunner.
var _ kardex.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con los
// repositorios atados a la tx. Commit si fn retorna nil, Rollback si no:
// todo-o-nada para las operaciones multi-línea del motor de inventario.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Fallos de bloqueo/serialización de PostgreSQL se mapean a
// ErrConflicto para que el caller reintente con los mismos insumos.
func (r *TxRunner) Run(ctx context.Context, fn func(repos kardex.RepoSet) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := kardex.RepoSet{
		Insumos:       NewInsumoRepository(tx),
		Lotes:         NewLoteRepository(tx),
		Movimientos:   NewMovimientoRepository(tx),
		Saldos:        NewSaldoRepository(tx),
		Requisiciones: NewRequisicionRepository(tx),
		Consolidados:  NewConsolidadoRepository(tx),
		Cuadres:       NewCuadreRepository(tx),
	}

	if err := fn(repos); err != nil {
		if isConcurrencyFailure(err) {
			return domain.ErrConflicto
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isConcurrencyFailure(err) {
			return domain.ErrConflicto
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isConcurrencyFailure detecta errores de contención de PostgreSQL:
// 40001 serialization_failure, 40P01 deadlock_detected, 55P03 lock_not_available.
func isConcurrencyFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
	}
	return false
}
