package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/domain/repository"
)

var _ repository.InsumoRepository = (*InsumoRepo)(nil)

// InsumoRepo implementación de InsumoRepository sobre PostgreSQL (usable con pool o tx).
type InsumoRepo struct {
	q Querier
}

// NewInsumoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInsumoRepository(q Querier) *InsumoRepo {
	return &InsumoRepo{q: q}
}

// Create persiste un insumo-presentación.
func (r *InsumoRepo) Create(insumo *entity.InsumoPresentacion) error {
	query := `
		INSERT INTO insumo_presentaciones (id, nombre, presentacion, unidad_medida, precio_unitario, activo, creado_en, actualizado_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		insumo.ID, insumo.Nombre, insumo.Presentacion, insumo.UnidadMedida,
		insumo.PrecioUnitario, insumo.Activo, insumo.CreadoEn, insumo.ActualizadoEn,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("create insumo: %w", err)
	}
	return nil
}

// GetByID obtiene un insumo por ID; nil si no existe.
func (r *InsumoRepo) GetByID(id string) (*entity.InsumoPresentacion, error) {
	query := `
		SELECT id, nombre, presentacion, unidad_medida, precio_unitario, activo, creado_en, actualizado_en
		FROM insumo_presentaciones WHERE id = $1`
	var i entity.InsumoPresentacion
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&i.ID, &i.Nombre, &i.Presentacion, &i.UnidadMedida, &i.PrecioUnitario,
		&i.Activo, &i.CreadoEn, &i.ActualizadoEn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get insumo: %w", err)
	}
	return &i, nil
}

// List lista insumos, opcionalmente solo activos.
func (r *InsumoRepo) List(soloActivos bool, limit, offset int) ([]*entity.InsumoPresentacion, error) {
	query := `
		SELECT id, nombre, presentacion, unidad_medida, precio_unitario, activo, creado_en, actualizado_en
		FROM insumo_presentaciones`
	if soloActivos {
		query += ` WHERE activo = true`
	}
	query += ` ORDER BY nombre, presentacion LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list insumos: %w", err)
	}
	defer rows.Close()
	var list []*entity.InsumoPresentacion
	for rows.Next() {
		var i entity.InsumoPresentacion
		if err := rows.Scan(&i.ID, &i.Nombre, &i.Presentacion, &i.UnidadMedida,
			&i.PrecioUnitario, &i.Activo, &i.CreadoEn, &i.ActualizadoEn); err != nil {
			return nil, fmt.Errorf("scan insumo: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// Update actualiza nombre, presentación, precio y estado activo.
func (r *InsumoRepo) Update(insumo *entity.InsumoPresentacion) error {
	query := `
		UPDATE insumo_presentaciones
		SET nombre = $2, presentacion = $3, unidad_medida = $4, precio_unitario = $5, activo = $6, actualizado_en = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		insumo.ID, insumo.Nombre, insumo.Presentacion, insumo.UnidadMedida,
		insumo.PrecioUnitario, insumo.Activo,
	)
	if err != nil {
		return fmt.Errorf("update insumo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoEncontrado
	}
	return nil
}
