package requisicion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hospitalsr/farmacia-api/internal/application/dto"
	"github.com/hospitalsr/farmacia-api/internal/application/kardex"
	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/domain/inventario"
	"github.com/hospitalsr/farmacia-api/internal/domain/repository"
)

// UseCase maneja el ciclo de vida de una requisición:
// PENDIENTE -> APROBADA -> ENTREGADA, con RECHAZADA y ANULADA como salidas.
// Solo la entrega toca el kardex, vía la primitiva compartida de consumo.
type UseCase struct {
	txRunner      kardex.TxRunner
	motor         *kardex.Motor
	requisiciones repository.RequisicionRepository
	servicios     repository.ServicioRepository
	insumos       repository.InsumoRepository
}

// NewUseCase construye el caso de uso de requisiciones.
func NewUseCase(
	txRunner kardex.TxRunner,
	motor *kardex.Motor,
	requisiciones repository.RequisicionRepository,
	servicios repository.ServicioRepository,
	insumos repository.InsumoRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		motor:         motor,
		requisiciones: requisiciones,
		servicios:     servicios,
		insumos:       insumos,
	}
}

// Crear registra una requisición PENDIENTE. No registra movimientos.
func (uc *UseCase) Crear(ctx context.Context, userID string, in dto.CreateRequisicionRequest) (*entity.Requisicion, error) {
	if in.ServicioID == "" || len(in.Lineas) == 0 {
		return nil, domain.ErrEntradaInvalida
	}
	servicio, err := uc.servicios.GetByID(in.ServicioID)
	if err != nil || servicio == nil {
		return nil, domain.ErrNoEncontrado
	}
	prioridad := in.Prioridad
	if prioridad == "" {
		prioridad = entity.PrioridadNormal
	}

	now := time.Now()
	req := &entity.Requisicion{
		ID:            uuid.New().String(),
		ServicioID:    in.ServicioID,
		Prioridad:     prioridad,
		Estado:        entity.RequisicionPendiente,
		SolicitadoPor: userID,
		SolicitadoEn:  now,
		CreadoEn:      now,
		ActualizadoEn: now,
	}
	for _, linea := range in.Lineas {
		if !linea.CantidadSolicitada.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("insumo %s: cantidad solicitada debe ser positiva: %w", linea.InsumoPresentacionID, domain.ErrEntradaInvalida)
		}
		insumo, err := uc.insumos.GetByID(linea.InsumoPresentacionID)
		if err != nil || insumo == nil {
			return nil, domain.ErrNoEncontrado
		}
		req.Detalles = append(req.Detalles, &entity.RequisicionDetalle{
			ID:                   uuid.New().String(),
			RequisicionID:        req.ID,
			InsumoPresentacionID: linea.InsumoPresentacionID,
			CantidadSolicitada:   linea.CantidadSolicitada,
		})
	}
	if err := uc.requisiciones.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Aprobar fija las cantidades autorizadas por línea (0 <= autorizado <=
// solicitado; por defecto autorizado = solicitado), estampa autorizador y
// fecha, y pasa la requisición a APROBADA. Solo desde PENDIENTE.
func (uc *UseCase) Aprobar(ctx context.Context, userID, id string, autorizadas map[string]decimal.Decimal) (*entity.Requisicion, error) {
	req, err := uc.requisiciones.GetByID(id)
	if err != nil || req == nil {
		return nil, domain.ErrNoEncontrado
	}
	if req.Estado != entity.RequisicionPendiente {
		return nil, domain.ErrTransicionInvalida
	}

	for _, det := range req.Detalles {
		autorizado, ok := autorizadas[det.ID]
		if !ok {
			autorizado = det.CantidadSolicitada
		}
		if autorizado.LessThan(decimal.Zero) || autorizado.GreaterThan(det.CantidadSolicitada) {
			return nil, fmt.Errorf("línea %s: autorizado %s fuera de rango [0, %s]: %w",
				det.ID, autorizado, det.CantidadSolicitada, domain.ErrEntradaInvalida)
		}
		det.CantidadAutorizada = autorizado
	}

	now := time.Now()
	req.Estado = entity.RequisicionAprobada
	req.AutorizadoPor = userID
	req.AutorizadoEn = &now
	req.ActualizadoEn = now

	err = uc.txRunner.Run(ctx, func(r kardex.RepoSet) error {
		if err := r.Requisiciones.UpdateEstado(req, entity.RequisicionPendiente); err != nil {
			return err
		}
		for _, det := range req.Detalles {
			if err := r.Requisiciones.UpdateDetalle(det); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Entregar fija las cantidades entregadas por línea (0 <= entregado <=
// autorizado; por defecto entregado = autorizado) y, en una sola transacción,
// consume lotes FEFO y registra las salidas de kardex de todas las líneas:
// si el plan de cualquier línea falla, la entrega completa falla y no queda
// ningún movimiento registrado. El precio de cada línea es el costo ponderado
// por asignación de lotes. Solo desde APROBADA.
func (uc *UseCase) Entregar(ctx context.Context, userID, id string, entregadas map[string]decimal.Decimal) (*entity.Requisicion, error) {
	req, err := uc.requisiciones.GetByID(id)
	if err != nil || req == nil {
		return nil, domain.ErrNoEncontrado
	}
	if req.Estado != entity.RequisicionAprobada {
		return nil, domain.ErrTransicionInvalida
	}

	for _, det := range req.Detalles {
		entregado, ok := entregadas[det.ID]
		if !ok {
			entregado = det.CantidadAutorizada
		}
		if entregado.LessThan(decimal.Zero) || entregado.GreaterThan(det.CantidadAutorizada) {
			return nil, fmt.Errorf("línea %s: entregado %s fuera de rango [0, %s]: %w",
				det.ID, entregado, det.CantidadAutorizada, domain.ErrEntradaInvalida)
		}
		det.CantidadEntregada = entregado
	}

	now := time.Now()
	doc := kardex.DocRef{Tipo: entity.DocRequisicion, ID: req.ID}

	err = uc.txRunner.Run(ctx, func(r kardex.RepoSet) error {
		for _, det := range req.Detalles {
			if !det.CantidadEntregada.GreaterThan(decimal.Zero) {
				det.PrecioUnitario = decimal.Zero
			} else {
				plan, err := uc.motor.ConsumirEnTx(r, det.InsumoPresentacionID, det.CantidadEntregada, now, doc, userID)
				if err != nil {
					return fmt.Errorf("línea %s: %w", det.ID, err)
				}
				det.PrecioUnitario = inventario.PrecioPonderado(plan)
			}
			if err := r.Requisiciones.UpdateDetalle(det); err != nil {
				return err
			}
		}
		req.Estado = entity.RequisicionEntregada
		req.EntregadoPor = userID
		req.EntregadoEn = &now
		req.ActualizadoEn = now
		return r.Requisiciones.UpdateEstado(req, entity.RequisicionAprobada)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Rechazar pasa una requisición PENDIENTE a RECHAZADA. No registra movimientos.
func (uc *UseCase) Rechazar(ctx context.Context, userID, id string) (*entity.Requisicion, error) {
	req, err := uc.requisiciones.GetByID(id)
	if err != nil || req == nil {
		return nil, domain.ErrNoEncontrado
	}
	if req.Estado != entity.RequisicionPendiente {
		return nil, domain.ErrTransicionInvalida
	}
	anterior := req.Estado
	req.Estado = entity.RequisicionRechazada
	req.ActualizadoEn = time.Now()
	if err := uc.requisiciones.UpdateEstado(req, anterior); err != nil {
		return nil, err
	}
	return req, nil
}

// Anular marca ANULADA una requisición PENDIENTE o APROBADA, con motivo
// obligatorio. Estados terminales fallan con ErrTransicionInvalida.
// No registra movimientos.
func (uc *UseCase) Anular(ctx context.Context, userID, id, motivo string) (*entity.Requisicion, error) {
	if motivo == "" {
		return nil, domain.ErrEntradaInvalida
	}
	req, err := uc.requisiciones.GetByID(id)
	if err != nil || req == nil {
		return nil, domain.ErrNoEncontrado
	}
	if req.Estado != entity.RequisicionPendiente && req.Estado != entity.RequisicionAprobada {
		return nil, domain.ErrTransicionInvalida
	}
	anterior := req.Estado
	req.Estado = entity.RequisicionAnulada
	req.MotivoAnula = motivo
	req.ActualizadoEn = time.Now()
	if err := uc.requisiciones.UpdateEstado(req, anterior); err != nil {
		return nil, err
	}
	return req, nil
}

// GetByID devuelve una requisición con sus detalles.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Requisicion, error) {
	req, err := uc.requisiciones.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNoEncontrado
	}
	return req, nil
}

// List lista requisiciones, opcionalmente filtradas por estado.
func (uc *UseCase) List(ctx context.Context, estado string, limit, offset int) ([]*entity.Requisicion, error) {
	return uc.requisiciones.List(estado, limit, offset)
}
