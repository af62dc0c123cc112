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

var _ repository.ConsolidadoRepository = (*ConsolidadoRepo)(nil)

// ConsolidadoRepo implementación de ConsolidadoRepository sobre PostgreSQL
// (usable con pool o tx).
type ConsolidadoRepo struct {
	q Querier
}

// NewConsolidadoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsolidadoRepository(q Querier) *ConsolidadoRepo {
	return &ConsolidadoRepo{q: q}
}

// Create persiste cabecera y detalles.
func (r *ConsolidadoRepo) Create(c *entity.Consolidado) error {
	query := `
		INSERT INTO consolidados (id, servicio_id, fecha, turno, estado, motivo_anula, cerrado_por, cerrado_en, creado_por, creado_en, actualizado_en)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.ServicioID, c.Fecha, c.Turno, c.Estado, c.MotivoAnula,
		c.CerradoPor, c.CerradoEn, c.CreadoPor, c.CreadoEn, c.ActualizadoEn,
	)
	if err != nil {
		return fmt.Errorf("create consolidado: %w", err)
	}
	for i, det := range c.Detalles {
		detQuery := `
			INSERT INTO consolidado_detalles (id, consolidado_id, linea, cama, paciente_ref, insumo_presentacion_id, cantidad)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err := r.q.Exec(context.Background(), detQuery,
			det.ID, det.ConsolidadoID, i+1, det.Cama, det.PacienteRef, det.InsumoPresentacionID, det.Cantidad,
		)
		if err != nil {
			return fmt.Errorf("create consolidado detalle: %w", err)
		}
	}
	return nil
}

const consolidadoColumns = `id, servicio_id, fecha, turno, estado, motivo_anula, cerrado_por, cerrado_en, creado_por, creado_en, actualizado_en`

func scanConsolidado(row pgx.Row) (*entity.Consolidado, error) {
	var c entity.Consolidado
	var cerradoPor *string
	err := row.Scan(&c.ID, &c.ServicioID, &c.Fecha, &c.Turno, &c.Estado, &c.MotivoAnula,
		&cerradoPor, &c.CerradoEn, &c.CreadoPor, &c.CreadoEn, &c.ActualizadoEn)
	if err != nil {
		return nil, err
	}
	if cerradoPor != nil {
		c.CerradoPor = *cerradoPor
	}
	return &c, nil
}

// GetByID devuelve el consolidado con sus detalles en orden de línea.
func (r *ConsolidadoRepo) GetByID(id string) (*entity.Consolidado, error) {
	query := `SELECT ` + consolidadoColumns + ` FROM consolidados WHERE id = $1`
	c, err := scanConsolidado(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consolidado: %w", err)
	}

	detQuery := `
		SELECT id, consolidado_id, cama, paciente_ref, insumo_presentacion_id, cantidad
		FROM consolidado_detalles WHERE consolidado_id = $1 ORDER BY linea`
	rows, err := r.q.Query(context.Background(), detQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get consolidado detalles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.ConsolidadoDetalle
		if err := rows.Scan(&d.ID, &d.ConsolidadoID, &d.Cama, &d.PacienteRef,
			&d.InsumoPresentacionID, &d.Cantidad); err != nil {
			return nil, fmt.Errorf("scan consolidado detalle: %w", err)
		}
		c.Detalles = append(c.Detalles, &d)
	}
	return c, rows.Err()
}

// List lista consolidados (solo cabeceras), opcionalmente por servicio.
func (r *ConsolidadoRepo) List(servicioID string, limit, offset int) ([]*entity.Consolidado, error) {
	query := `SELECT ` + consolidadoColumns + ` FROM consolidados`
	args := []any{}
	pos := 1
	if servicioID != "" {
		query += fmt.Sprintf(" WHERE servicio_id = $%d", pos)
		args = append(args, servicioID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha DESC, creado_en DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list consolidados: %w", err)
	}
	defer rows.Close()
	var list []*entity.Consolidado
	for rows.Next() {
		c, err := scanConsolidado(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consolidado: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// UpdateEstado actualiza la cabecera solo si el estado actual coincide con
// esperado; cero filas afectadas devuelve ErrTransicionInvalida.
func (r *ConsolidadoRepo) UpdateEstado(c *entity.Consolidado, esperado string) error {
	query := `
		UPDATE consolidados
		SET estado = $2, motivo_anula = $3, cerrado_por = NULLIF($4, ''), cerrado_en = $5, actualizado_en = $6
		WHERE id = $1 AND estado = $7`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.Estado, c.MotivoAnula, c.CerradoPor, c.CerradoEn, c.ActualizadoEn, esperado,
	)
	if err != nil {
		return fmt.Errorf("update consolidado: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransicionInvalida
	}
	return nil
}
