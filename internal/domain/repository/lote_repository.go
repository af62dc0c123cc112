package repository

import "github.com/hospitalsr/farmacia-api/internal/domain/entity"

// LoteRepository es el contrato de persistencia para lotes.
type LoteRepository interface {
	Create(lote *entity.Lote) error
	GetByID(id string) (*entity.Lote, error)
	GetForUpdate(id string) (*entity.Lote, error)
	ListByInsumo(insumoID string) ([]*entity.Lote, error)
	// ListDisponiblesForUpdate bloquea (SELECT FOR UPDATE) y devuelve los lotes
	// DISPONIBLE con cantidad > 0 del insumo, ordenados por fecha de
	// vencimiento y orden de creación (orden FEFO).
	ListDisponiblesForUpdate(insumoID string) ([]*entity.Lote, error)
	// Update persiste cantidad y estado del lote.
	Update(lote *entity.Lote) error
}
