package repository

import "github.com/hospitalsr/farmacia-api/internal/domain/entity"

// InsumoRepository es el contrato de persistencia para InsumoPresentacion.
type InsumoRepository interface {
	Create(insumo *entity.InsumoPresentacion) error
	GetByID(id string) (*entity.InsumoPresentacion, error)
	List(soloActivos bool, limit, offset int) ([]*entity.InsumoPresentacion, error)
	Update(insumo *entity.InsumoPresentacion) error
}
