package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/domain/repository"
)

var _ repository.SaldoRepository = (*SaldoRepo)(nil)

// SaldoRepo implementación de SaldoRepository sobre PostgreSQL (usable con pool o tx).
type SaldoRepo struct {
	q Querier
}

// NewSaldoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaldoRepository(q Querier) *SaldoRepo {
	return &SaldoRepo{q: q}
}

// Get obtiene el saldo materializado de un insumo; cero si aún no hay fila.
func (r *SaldoRepo) Get(insumoID string) (*entity.Saldo, error) {
	query := `
		SELECT insumo_presentacion_id, cantidad, costo_promedio, actualizado_en
		FROM saldos WHERE insumo_presentacion_id = $1`
	var s entity.Saldo
	err := r.q.QueryRow(context.Background(), query, insumoID).Scan(
		&s.InsumoPresentacionID, &s.Cantidad, &s.CostoPromedio, &s.ActualizadoEn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Saldo{InsumoPresentacionID: insumoID, Cantidad: decimal.Zero, CostoPromedio: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get saldo: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE): toda
// operación que muta stock del mismo insumo se serializa aquí. Si el insumo
// aún no tiene fila de saldo, la crea para tener qué bloquear.
func (r *SaldoRepo) GetForUpdate(insumoID string) (*entity.Saldo, error) {
	insert := `
		INSERT INTO saldos (insumo_presentacion_id, cantidad, costo_promedio, actualizado_en)
		VALUES ($1, 0, 0, now())
		ON CONFLICT (insumo_presentacion_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, insumoID); err != nil {
		return nil, fmt.Errorf("init saldo: %w", err)
	}
	query := `
		SELECT insumo_presentacion_id, cantidad, costo_promedio, actualizado_en
		FROM saldos WHERE insumo_presentacion_id = $1
		FOR UPDATE`
	var s entity.Saldo
	err := r.q.QueryRow(context.Background(), query, insumoID).Scan(
		&s.InsumoPresentacionID, &s.Cantidad, &s.CostoPromedio, &s.ActualizadoEn,
	)
	if err != nil {
		return nil, fmt.Errorf("get saldo for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el saldo del insumo.
func (r *SaldoRepo) Upsert(saldo *entity.Saldo) error {
	query := `
		INSERT INTO saldos (insumo_presentacion_id, cantidad, costo_promedio, actualizado_en)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (insumo_presentacion_id)
		DO UPDATE SET cantidad = EXCLUDED.cantidad, costo_promedio = EXCLUDED.costo_promedio, actualizado_en = now()`
	_, err := r.q.Exec(context.Background(), query, saldo.InsumoPresentacionID, saldo.Cantidad, saldo.CostoPromedio)
	if err != nil {
		return fmt.Errorf("upsert saldo: %w", err)
	}
	return nil
}
