package repository

import "github.com/hospitalsr/farmacia-api/internal/domain/entity"

// CuadreRepository es el contrato de persistencia de sesiones de cuadre y de
// la lista de insumos vigilados.
type CuadreRepository interface {
	Create(c *entity.Cuadre) error
	GetByID(id string) (*entity.Cuadre, error)
	List(limit, offset int) ([]*entity.Cuadre, error)
	// UpdateEstado actualiza la cabecera solo si el estado actual coincide con
	// esperado; devuelve ErrTransicionInvalida si la fila ya cambió de estado.
	UpdateEstado(c *entity.Cuadre, esperado string) error
	UpdateDetalle(d *entity.CuadreDetalle) error

	// Lista de vigilancia (insumos inscritos en el cuadre).
	ListInsumosVigilados() ([]*entity.CuadreInsumo, error)
	EnrolarInsumo(ci *entity.CuadreInsumo) error
}
