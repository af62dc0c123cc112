package repository

import "github.com/hospitalsr/farmacia-api/internal/domain/entity"

// ConsolidadoRepository es el contrato de persistencia de consolidados.
type ConsolidadoRepository interface {
	Create(c *entity.Consolidado) error
	GetByID(id string) (*entity.Consolidado, error)
	List(servicioID string, limit, offset int) ([]*entity.Consolidado, error)
	// UpdateEstado actualiza la cabecera solo si el estado actual coincide con
	// esperado; devuelve ErrTransicionInvalida si la fila ya cambió de estado.
	UpdateEstado(c *entity.Consolidado, esperado string) error
}
