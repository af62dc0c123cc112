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

var _ repository.ServicioRepository = (*ServicioRepo)(nil)

// ServicioRepo implementación de ServicioRepository sobre PostgreSQL.
type ServicioRepo struct {
	q Querier
}

// NewServicioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServicioRepository(q Querier) *ServicioRepo {
	return &ServicioRepo{q: q}
}

// Create persiste un servicio/sala.
func (r *ServicioRepo) Create(s *entity.Servicio) error {
	query := `
		INSERT INTO servicios (id, nombre, camas, activo, creado_en)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query, s.ID, s.Nombre, s.Camas, s.Activo, s.CreadoEn)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("create servicio: %w", err)
	}
	return nil
}

// GetByID obtiene un servicio por ID; nil si no existe.
func (r *ServicioRepo) GetByID(id string) (*entity.Servicio, error) {
	query := `SELECT id, nombre, camas, activo, creado_en FROM servicios WHERE id = $1`
	var s entity.Servicio
	err := r.q.QueryRow(context.Background(), query, id).Scan(&s.ID, &s.Nombre, &s.Camas, &s.Activo, &s.CreadoEn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get servicio: %w", err)
	}
	return &s, nil
}

// List lista los servicios/salas.
func (r *ServicioRepo) List(limit, offset int) ([]*entity.Servicio, error) {
	query := `SELECT id, nombre, camas, activo, creado_en FROM servicios ORDER BY nombre LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list servicios: %w", err)
	}
	defer rows.Close()
	var list []*entity.Servicio
	for rows.Next() {
		var s entity.Servicio
		if err := rows.Scan(&s.ID, &s.Nombre, &s.Camas, &s.Activo, &s.CreadoEn); err != nil {
			return nil, fmt.Errorf("scan servicio: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
