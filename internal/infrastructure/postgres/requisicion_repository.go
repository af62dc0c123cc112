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

var _ repository.RequisicionRepository = (*RequisicionRepo)(nil)

// RequisicionRepo implementación de RequisicionRepository sobre PostgreSQL
// (usable con pool o tx).
type RequisicionRepo struct {
	q Querier
}

// NewRequisicionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequisicionRepository(q Querier) *RequisicionRepo {
	return &RequisicionRepo{q: q}
}

// Create persiste cabecera y detalles.
func (r *RequisicionRepo) Create(req *entity.Requisicion) error {
	query := `
		INSERT INTO requisiciones (id, servicio_id, prioridad, estado, motivo_anula, solicitado_por, solicitado_en, creado_en, actualizado_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.ServicioID, req.Prioridad, req.Estado, req.MotivoAnula,
		req.SolicitadoPor, req.SolicitadoEn, req.CreadoEn, req.ActualizadoEn,
	)
	if err != nil {
		return fmt.Errorf("create requisicion: %w", err)
	}
	for i, det := range req.Detalles {
		detQuery := `
			INSERT INTO requisicion_detalles (id, requisicion_id, linea, insumo_presentacion_id, cantidad_solicitada, cantidad_autorizada, cantidad_entregada, precio_unitario)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := r.q.Exec(context.Background(), detQuery,
			det.ID, det.RequisicionID, i+1, det.InsumoPresentacionID,
			det.CantidadSolicitada, det.CantidadAutorizada, det.CantidadEntregada, det.PrecioUnitario,
		)
		if err != nil {
			return fmt.Errorf("create requisicion detalle: %w", err)
		}
	}
	return nil
}

const requisicionColumns = `id, servicio_id, prioridad, estado, motivo_anula, solicitado_por, solicitado_en, autorizado_por, autorizado_en, entregado_por, entregado_en, creado_en, actualizado_en`

func scanRequisicion(row pgx.Row) (*entity.Requisicion, error) {
	var req entity.Requisicion
	var autorizadoPor, entregadoPor *string
	err := row.Scan(&req.ID, &req.ServicioID, &req.Prioridad, &req.Estado, &req.MotivoAnula,
		&req.SolicitadoPor, &req.SolicitadoEn, &autorizadoPor, &req.AutorizadoEn,
		&entregadoPor, &req.EntregadoEn, &req.CreadoEn, &req.ActualizadoEn)
	if err != nil {
		return nil, err
	}
	if autorizadoPor != nil {
		req.AutorizadoPor = *autorizadoPor
	}
	if entregadoPor != nil {
		req.EntregadoPor = *entregadoPor
	}
	return &req, nil
}

// GetByID devuelve la requisición con sus detalles en orden de línea.
func (r *RequisicionRepo) GetByID(id string) (*entity.Requisicion, error) {
	query := `SELECT ` + requisicionColumns + ` FROM requisiciones WHERE id = $1`
	req, err := scanRequisicion(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get requisicion: %w", err)
	}

	detQuery := `
		SELECT id, requisicion_id, insumo_presentacion_id, cantidad_solicitada, cantidad_autorizada, cantidad_entregada, precio_unitario
		FROM requisicion_detalles WHERE requisicion_id = $1 ORDER BY linea`
	rows, err := r.q.Query(context.Background(), detQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get requisicion detalles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.RequisicionDetalle
		if err := rows.Scan(&d.ID, &d.RequisicionID, &d.InsumoPresentacionID,
			&d.CantidadSolicitada, &d.CantidadAutorizada, &d.CantidadEntregada, &d.PrecioUnitario); err != nil {
			return nil, fmt.Errorf("scan requisicion detalle: %w", err)
		}
		req.Detalles = append(req.Detalles, &d)
	}
	return req, rows.Err()
}

// List lista requisiciones (solo cabeceras), opcionalmente por estado.
func (r *RequisicionRepo) List(estado string, limit, offset int) ([]*entity.Requisicion, error) {
	query := `SELECT ` + requisicionColumns + ` FROM requisiciones`
	args := []any{}
	pos := 1
	if estado != "" {
		query += fmt.Sprintf(" WHERE estado = $%d", pos)
		args = append(args, estado)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY solicitado_en DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requisiciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Requisicion
	for rows.Next() {
		req, err := scanRequisicion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan requisicion: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// UpdateEstado actualiza la cabecera solo si el estado actual coincide con
// esperado; cero filas afectadas significa que otra operación ganó la
// transición y se devuelve ErrTransicionInvalida.
func (r *RequisicionRepo) UpdateEstado(req *entity.Requisicion, esperado string) error {
	query := `
		UPDATE requisiciones
		SET estado = $2, motivo_anula = $3, autorizado_por = NULLIF($4, ''), autorizado_en = $5,
		    entregado_por = NULLIF($6, ''), entregado_en = $7, actualizado_en = $8
		WHERE id = $1 AND estado = $9`
	tag, err := r.q.Exec(context.Background(), query,
		req.ID, req.Estado, req.MotivoAnula, req.AutorizadoPor, req.AutorizadoEn,
		req.EntregadoPor, req.EntregadoEn, req.ActualizadoEn, esperado,
	)
	if err != nil {
		return fmt.Errorf("update requisicion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransicionInvalida
	}
	return nil
}

// UpdateDetalle persiste cantidades autorizada/entregada y precio de una línea.
func (r *RequisicionRepo) UpdateDetalle(d *entity.RequisicionDetalle) error {
	query := `
		UPDATE requisicion_detalles
		SET cantidad_autorizada = $2, cantidad_entregada = $3, precio_unitario = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, d.ID, d.CantidadAutorizada, d.CantidadEntregada, d.PrecioUnitario)
	if err != nil {
		return fmt.Errorf("update requisicion detalle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoEncontrado
	}
	return nil
}
