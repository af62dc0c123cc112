package consolidado

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
	"github.com/hospitalsr/farmacia-api/internal/domain/repository"
)

// UseCase maneja los consolidados de consumo por sala/turno. Crear un
// consolidado ES el momento del descargo: agrega las cantidades por insumo y
// registra las salidas de kardex en la misma transacción que persiste el
// documento. Cerrar y anular son cambios de estado sin movimientos.
type UseCase struct {
	txRunner     kardex.TxRunner
	motor        *kardex.Motor
	consolidados repository.ConsolidadoRepository
	servicios    repository.ServicioRepository
	insumos      repository.InsumoRepository
	camasPorSala int
}

// NewUseCase construye el caso de uso. camasPorSala es la capacidad fija de
// camas contra la que se valida el número de cama de cada línea.
func NewUseCase(
	txRunner kardex.TxRunner,
	motor *kardex.Motor,
	consolidados repository.ConsolidadoRepository,
	servicios repository.ServicioRepository,
	insumos repository.InsumoRepository,
	camasPorSala int,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		motor:        motor,
		consolidados: consolidados,
		servicios:    servicios,
		insumos:      insumos,
		camasPorSala: camasPorSala,
	}
}

// Crear valida las líneas (cantidad positiva, cama en rango, referencias
// resolubles), agrega el consumo por insumo y en una sola transacción registra
// las salidas FEFO y persiste el consolidado ACTIVO. Si el plan de cualquier
// insumo falla, no se persiste ni registra nada.
func (uc *UseCase) Crear(ctx context.Context, userID string, in dto.CreateConsolidadoRequest) (*entity.Consolidado, error) {
	if in.ServicioID == "" || len(in.Lineas) == 0 || in.Fecha.IsZero() {
		return nil, domain.ErrEntradaInvalida
	}
	if in.Turno != entity.TurnoDia && in.Turno != entity.TurnoNoche {
		return nil, domain.ErrEntradaInvalida
	}
	servicio, err := uc.servicios.GetByID(in.ServicioID)
	if err != nil || servicio == nil {
		return nil, domain.ErrNoEncontrado
	}
	camas := servicio.Camas
	if camas <= 0 {
		camas = uc.camasPorSala
	}

	now := time.Now()
	cons := &entity.Consolidado{
		ID:            uuid.New().String(),
		ServicioID:    in.ServicioID,
		Fecha:         in.Fecha,
		Turno:         in.Turno,
		Estado:        entity.ConsolidadoActivo,
		CreadoPor:     userID,
		CreadoEn:      now,
		ActualizadoEn: now,
	}
	// Consumo agregado por insumo a través de todas las camas.
	porInsumo := make(map[string]decimal.Decimal)
	var ordenInsumos []string
	for _, linea := range in.Lineas {
		if !linea.Cantidad.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("cama %d: cantidad debe ser positiva: %w", linea.Cama, domain.ErrEntradaInvalida)
		}
		if linea.Cama < 1 || linea.Cama > camas {
			return nil, fmt.Errorf("cama %d fuera de rango [1, %d]: %w", linea.Cama, camas, domain.ErrEntradaInvalida)
		}
		insumo, err := uc.insumos.GetByID(linea.InsumoPresentacionID)
		if err != nil || insumo == nil {
			return nil, domain.ErrNoEncontrado
		}
		if _, visto := porInsumo[linea.InsumoPresentacionID]; !visto {
			ordenInsumos = append(ordenInsumos, linea.InsumoPresentacionID)
		}
		porInsumo[linea.InsumoPresentacionID] = porInsumo[linea.InsumoPresentacionID].Add(linea.Cantidad)
		cons.Detalles = append(cons.Detalles, &entity.ConsolidadoDetalle{
			ID:                   uuid.New().String(),
			ConsolidadoID:        cons.ID,
			Cama:                 linea.Cama,
			PacienteRef:          linea.PacienteRef,
			InsumoPresentacionID: linea.InsumoPresentacionID,
			Cantidad:             linea.Cantidad,
		})
	}

	doc := kardex.DocRef{Tipo: entity.DocConsolidado, ID: cons.ID}
	err = uc.txRunner.Run(ctx, func(r kardex.RepoSet) error {
		for _, insumoID := range ordenInsumos {
			if _, err := uc.motor.ConsumirEnTx(r, insumoID, porInsumo[insumoID], now, doc, userID); err != nil {
				return fmt.Errorf("insumo %s: %w", insumoID, err)
			}
		}
		return r.Consolidados.Create(cons)
	})
	if err != nil {
		return nil, err
	}
	return cons, nil
}

// Cerrar pasa un consolidado ACTIVO a CERRADO (terminal, inmutable). No hay
// registros adicionales: las salidas ya ocurrieron al crear.
func (uc *UseCase) Cerrar(ctx context.Context, userID, id string) (*entity.Consolidado, error) {
	cons, err := uc.consolidados.GetByID(id)
	if err != nil || cons == nil {
		return nil, domain.ErrNoEncontrado
	}
	if cons.Estado != entity.ConsolidadoActivo {
		return nil, domain.ErrTransicionInvalida
	}
	now := time.Now()
	cons.Estado = entity.ConsolidadoCerrado
	cons.CerradoPor = userID
	cons.CerradoEn = &now
	cons.ActualizadoEn = now
	if err := uc.consolidados.UpdateEstado(cons, entity.ConsolidadoActivo); err != nil {
		return nil, err
	}
	return cons, nil
}

// Anular marca ANULADO un consolidado ACTIVO con motivo obligatorio. NO
// revierte las salidas ya registradas: la reversión, si se quiere, la emite un
// operador como ajuste compensatorio explícito.
func (uc *UseCase) Anular(ctx context.Context, userID, id, motivo string) (*entity.Consolidado, error) {
	if motivo == "" {
		return nil, domain.ErrEntradaInvalida
	}
	cons, err := uc.consolidados.GetByID(id)
	if err != nil || cons == nil {
		return nil, domain.ErrNoEncontrado
	}
	if cons.Estado != entity.ConsolidadoActivo {
		return nil, domain.ErrTransicionInvalida
	}
	cons.Estado = entity.ConsolidadoAnulado
	cons.MotivoAnula = motivo
	cons.ActualizadoEn = time.Now()
	if err := uc.consolidados.UpdateEstado(cons, entity.ConsolidadoActivo); err != nil {
		return nil, err
	}
	return cons, nil
}

// GetByID devuelve un consolidado con sus detalles.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Consolidado, error) {
	cons, err := uc.consolidados.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cons == nil {
		return nil, domain.ErrNoEncontrado
	}
	return cons, nil
}

// List lista consolidados, opcionalmente por servicio.
func (uc *UseCase) List(ctx context.Context, servicioID string, limit, offset int) ([]*entity.Consolidado, error) {
	return uc.consolidados.List(servicioID, limit, offset)
}
