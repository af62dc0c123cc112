package repository

import "github.com/hospitalsr/farmacia-api/internal/domain/entity"

// ServicioRepository es el contrato de persistencia de servicios/salas.
type ServicioRepository interface {
	Create(s *entity.Servicio) error
	GetByID(id string) (*entity.Servicio, error)
	List(limit, offset int) ([]*entity.Servicio, error)
}
