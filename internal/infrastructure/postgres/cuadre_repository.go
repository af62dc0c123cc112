package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/domain/repository"
)

var _ repository.CuadreRepository = (*CuadreRepo)(nil)

// CuadreRepo implementación de CuadreRepository sobre PostgreSQL (usable con
// pool o tx). El estado de conteo de una línea se persiste como cantidad
// física nullable, pero el dominio lo modela como variante explícita Conteo.
type CuadreRepo struct {
	q Querier
}

// NewCuadreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCuadreRepository(q Querier) *CuadreRepo {
	return &CuadreRepo{q: q}
}

// Create persiste cabecera y detalles de una sesión.
func (r *CuadreRepo) Create(c *entity.Cuadre) error {
	query := `
		INSERT INTO cuadres (id, fecha, turnista, bodeguero, observaciones, estado, creado_en, actualizado_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Fecha, c.Turnista, c.Bodeguero, c.Observaciones, c.Estado, c.CreadoEn, c.ActualizadoEn,
	)
	if err != nil {
		return fmt.Errorf("create cuadre: %w", err)
	}
	for i, det := range c.Detalles {
		if err := r.insertDetalle(det, i+1); err != nil {
			return err
		}
	}
	return nil
}

func (r *CuadreRepo) insertDetalle(d *entity.CuadreDetalle, linea int) error {
	var fisica *decimal.Decimal
	var diferencia *decimal.Decimal
	if d.Conteo.Contado {
		fisica = &d.Conteo.Fisica
		diferencia = &d.Diferencia
	}
	query := `
		INSERT INTO cuadre_detalles (id, cuadre_id, linea, insumo_presentacion_id, teorico, cantidad_fisica, diferencia)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.CuadreID, linea, d.InsumoPresentacionID, d.Teorico, fisica, diferencia,
	)
	if err != nil {
		return fmt.Errorf("create cuadre detalle: %w", err)
	}
	return nil
}

const cuadreColumns = `id, fecha, turnista, bodeguero, observaciones, estado, creado_en, actualizado_en`

func scanCuadre(row pgx.Row) (*entity.Cuadre, error) {
	var c entity.Cuadre
	err := row.Scan(&c.ID, &c.Fecha, &c.Turnista, &c.Bodeguero, &c.Observaciones,
		&c.Estado, &c.CreadoEn, &c.ActualizadoEn)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID devuelve la sesión con sus detalles en orden de línea.
func (r *CuadreRepo) GetByID(id string) (*entity.Cuadre, error) {
	query := `SELECT ` + cuadreColumns + ` FROM cuadres WHERE id = $1`
	c, err := scanCuadre(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cuadre: %w", err)
	}

	detQuery := `
		SELECT id, cuadre_id, insumo_presentacion_id, teorico, cantidad_fisica, diferencia
		FROM cuadre_detalles WHERE cuadre_id = $1 ORDER BY linea`
	rows, err := r.q.Query(context.Background(), detQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get cuadre detalles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.CuadreDetalle
		var fisica, diferencia *decimal.Decimal
		if err := rows.Scan(&d.ID, &d.CuadreID, &d.InsumoPresentacionID, &d.Teorico, &fisica, &diferencia); err != nil {
			return nil, fmt.Errorf("scan cuadre detalle: %w", err)
		}
		if fisica != nil {
			d.Conteo = entity.Conteo{Contado: true, Fisica: *fisica}
			if diferencia != nil {
				d.Diferencia = *diferencia
			}
		}
		c.Detalles = append(c.Detalles, &d)
	}
	return c, rows.Err()
}

// List lista sesiones de cuadre (solo cabeceras), más recientes primero.
func (r *CuadreRepo) List(limit, offset int) ([]*entity.Cuadre, error) {
	query := `SELECT ` + cuadreColumns + ` FROM cuadres ORDER BY fecha DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cuadres: %w", err)
	}
	defer rows.Close()
	var list []*entity.Cuadre
	for rows.Next() {
		c, err := scanCuadre(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cuadre: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// UpdateEstado actualiza la cabecera solo si el estado actual coincide con
// esperado; cero filas afectadas devuelve ErrTransicionInvalida.
func (r *CuadreRepo) UpdateEstado(c *entity.Cuadre, esperado string) error {
	query := `
		UPDATE cuadres SET estado = $2, observaciones = $3, actualizado_en = $4
		WHERE id = $1 AND estado = $5`
	tag, err := r.q.Exec(context.Background(), query, c.ID, c.Estado, c.Observaciones, c.ActualizadoEn, esperado)
	if err != nil {
		return fmt.Errorf("update cuadre: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransicionInvalida
	}
	return nil
}

// UpdateDetalle persiste el conteo físico y la diferencia de una línea.
func (r *CuadreRepo) UpdateDetalle(d *entity.CuadreDetalle) error {
	var fisica, diferencia *decimal.Decimal
	if d.Conteo.Contado {
		fisica = &d.Conteo.Fisica
		diferencia = &d.Diferencia
	}
	query := `
		UPDATE cuadre_detalles SET cantidad_fisica = $2, diferencia = $3
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, d.ID, fisica, diferencia)
	if err != nil {
		return fmt.Errorf("update cuadre detalle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoEncontrado
	}
	return nil
}

// ListInsumosVigilados devuelve la lista de vigilancia del cuadre.
func (r *CuadreRepo) ListInsumosVigilados() ([]*entity.CuadreInsumo, error) {
	query := `
		SELECT insumo_presentacion_id, modo, cuota_fija, creado_en
		FROM cuadre_insumos ORDER BY creado_en`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list insumos vigilados: %w", err)
	}
	defer rows.Close()
	var list []*entity.CuadreInsumo
	for rows.Next() {
		var ci entity.CuadreInsumo
		if err := rows.Scan(&ci.InsumoPresentacionID, &ci.Modo, &ci.CuotaFija, &ci.CreadoEn); err != nil {
			return nil, fmt.Errorf("scan insumo vigilado: %w", err)
		}
		list = append(list, &ci)
	}
	return list, rows.Err()
}

// EnrolarInsumo inscribe o actualiza un insumo en la lista de vigilancia.
func (r *CuadreRepo) EnrolarInsumo(ci *entity.CuadreInsumo) error {
	query := `
		INSERT INTO cuadre_insumos (insumo_presentacion_id, modo, cuota_fija, creado_en)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (insumo_presentacion_id)
		DO UPDATE SET modo = EXCLUDED.modo, cuota_fija = EXCLUDED.cuota_fija`
	_, err := r.q.Exec(context.Background(), query, ci.InsumoPresentacionID, ci.Modo, ci.CuotaFija, ci.CreadoEn)
	if err != nil {
		return fmt.Errorf("enrolar insumo cuadre: %w", err)
	}
	return nil
}
