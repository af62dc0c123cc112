package repository

import "github.com/hospitalsr/farmacia-api/internal/domain/entity"

// SaldoRepository es el contrato de la caché materializada de saldos.
type SaldoRepository interface {
	Get(insumoID string) (*entity.Saldo, error)
	// GetForUpdate bloquea la fila del saldo (SELECT FOR UPDATE): serializa
	// todas las operaciones que mutan el stock del mismo insumo.
	GetForUpdate(insumoID string) (*entity.Saldo, error)
	Upsert(saldo *entity.Saldo) error
}
