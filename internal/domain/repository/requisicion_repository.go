package repository

import "github.com/hospitalsr/farmacia-api/internal/domain/entity"

// RequisicionRepository es el contrato de persistencia de requisiciones.
type RequisicionRepository interface {
	// Create persiste cabecera y detalles.
	Create(r *entity.Requisicion) error
	// GetByID devuelve la requisición con sus detalles en orden de línea.
	GetByID(id string) (*entity.Requisicion, error)
	List(estado string, limit, offset int) ([]*entity.Requisicion, error)
	// UpdateEstado actualiza la cabecera solo si el estado actual coincide con
	// esperado; devuelve ErrTransicionInvalida si la fila ya cambió de estado.
	UpdateEstado(r *entity.Requisicion, esperado string) error
	UpdateDetalle(d *entity.RequisicionDetalle) error
}
