package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

// MovimientoRepo implementación del kardex sobre PostgreSQL (usable con pool o tx).
// La tabla movimientos es append-only: no hay UPDATE ni DELETE.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

// Create persiste un movimiento. La secuencia la asigna la DB (bigserial) y
// queda en m.Secuencia: es el desempate estable del orden de replay.
func (r *MovimientoRepo) Create(m *entity.Movimiento) error {
	query := `
		INSERT INTO movimientos (id, tipo, insumo_presentacion_id, lote_id, cantidad, costo_unitario, costo_total, fecha, doc_tipo, doc_id, creado_en, creado_por)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING secuencia`
	creadoPor := (*string)(nil)
	if m.CreadoPor != "" {
		creadoPor = &m.CreadoPor
	}
	err := r.q.QueryRow(context.Background(), query,
		m.ID, m.Tipo, m.InsumoPresentacionID, m.LoteID, m.Cantidad,
		m.CostoUnitario, m.CostoTotal, m.Fecha, m.DocTipo, m.DocID,
		m.CreadoEn, creadoPor,
	).Scan(&m.Secuencia)
	if err != nil {
		return fmt.Errorf("create movimiento: %w", err)
	}
	return nil
}

// ListByInsumo lista movimientos del insumo en orden (fecha, secuencia),
// acotados al rango si desde/hasta no son nil.
func (r *MovimientoRepo) ListByInsumo(insumoID string, desde, hasta *time.Time, limit, offset int) ([]*entity.Movimiento, error) {
	query := `
		SELECT id, secuencia, tipo, insumo_presentacion_id, lote_id, cantidad, costo_unitario, costo_total, fecha, doc_tipo, doc_id, creado_en, creado_por
		FROM movimientos WHERE insumo_presentacion_id = $1`
	args := []any{insumoID}
	pos := 2
	if desde != nil {
		query += fmt.Sprintf(" AND fecha >= $%d", pos)
		args = append(args, *desde)
		pos++
	}
	if hasta != nil {
		query += fmt.Sprintf(" AND fecha <= $%d", pos)
		args = append(args, *hasta)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha, secuencia LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movimiento
	for rows.Next() {
		var m entity.Movimiento
		var creadoPor *string
		if err := rows.Scan(&m.ID, &m.Secuencia, &m.Tipo, &m.InsumoPresentacionID, &m.LoteID,
			&m.Cantidad, &m.CostoUnitario, &m.CostoTotal, &m.Fecha, &m.DocTipo, &m.DocID,
			&m.CreadoEn, &creadoPor); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		if creadoPor != nil {
			m.CreadoPor = *creadoPor
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByInsumo suma las cantidades con signo del insumo hasta el corte
// (inclusive); corte nil = todos los movimientos. Deriva el saldo por replay.
func (r *MovimientoRepo) SumByInsumo(insumoID string, corte *time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(cantidad), 0) FROM movimientos WHERE insumo_presentacion_id = $1`
	args := []any{insumoID}
	if corte != nil {
		query += ` AND fecha <= $2`
		args = append(args, *corte)
	}
	var suma decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, args...).Scan(&suma)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("sum movimientos: %w", err)
	}
	return suma, nil
}
