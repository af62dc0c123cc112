package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/domain/repository"
)

var _ repository.LoteRepository = (*LoteRepo)(nil)

// LoteRepo implementación de LoteRepository sobre PostgreSQL (usable con pool o tx).
type LoteRepo struct {
	q Querier
}

// NewLoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoteRepository(q Querier) *LoteRepo {
	return &LoteRepo{q: q}
}

const loteColumns = `id, insumo_presentacion_id, numero_lote, costo_unitario, cantidad, fecha_vencimiento, estado, creado_en, actualizado_en`

func scanLote(row pgx.Row) (*entity.Lote, error) {
	var l entity.Lote
	err := row.Scan(&l.ID, &l.InsumoPresentacionID, &l.NumeroLote, &l.CostoUnitario,
		&l.Cantidad, &l.FechaVencimiento, &l.Estado, &l.CreadoEn, &l.ActualizadoEn)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste un lote.
func (r *LoteRepo) Create(lote *entity.Lote) error {
	query := `
		INSERT INTO lotes (` + loteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		lote.ID, lote.InsumoPresentacionID, lote.NumeroLote, lote.CostoUnitario,
		lote.Cantidad, lote.FechaVencimiento, lote.Estado, lote.CreadoEn, lote.ActualizadoEn,
	)
	if err != nil {
		return fmt.Errorf("create lote: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID; nil si no existe.
func (r *LoteRepo) GetByID(id string) (*entity.Lote, error) {
	query := `SELECT ` + loteColumns + ` FROM lotes WHERE id = $1`
	l, err := scanLote(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return l, nil
}

// GetForUpdate obtiene un lote y bloquea la fila (SELECT FOR UPDATE).
func (r *LoteRepo) GetForUpdate(id string) (*entity.Lote, error) {
	query := `SELECT ` + loteColumns + ` FROM lotes WHERE id = $1 FOR UPDATE`
	l, err := scanLote(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote for update: %w", err)
	}
	return l, nil
}

// ListByInsumo lista todos los lotes de un insumo en orden FEFO.
func (r *LoteRepo) ListByInsumo(insumoID string) ([]*entity.Lote, error) {
	query := `
		SELECT ` + loteColumns + ` FROM lotes
		WHERE insumo_presentacion_id = $1
		ORDER BY fecha_vencimiento, creado_en`
	return r.listLotes(query, insumoID)
}

// ListDisponiblesForUpdate bloquea y devuelve los lotes DISPONIBLE con
// cantidad > 0 del insumo, ordenados por (fecha_vencimiento, creado_en): el
// orden FEFO con desempate por antigüedad del lote. El bloqueo impide que dos
// planes concurrentes consuman los mismos lotes.
func (r *LoteRepo) ListDisponiblesForUpdate(insumoID string) ([]*entity.Lote, error) {
	query := `
		SELECT ` + loteColumns + ` FROM lotes
		WHERE insumo_presentacion_id = $1 AND estado = $2 AND cantidad > 0
		ORDER BY fecha_vencimiento, creado_en
		FOR UPDATE`
	return r.listLotes(query, insumoID, entity.LoteDisponible)
}

func (r *LoteRepo) listLotes(query string, args ...any) ([]*entity.Lote, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lote
	for rows.Next() {
		l, err := scanLote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Update persiste cantidad y estado del lote.
func (r *LoteRepo) Update(lote *entity.Lote) error {
	query := `
		UPDATE lotes SET cantidad = $2, estado = $3, actualizado_en = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, lote.ID, lote.Cantidad, lote.Estado, lote.ActualizadoEn)
	if err != nil {
		return fmt.Errorf("update lote: %w", err)
	}
	return nil
}
