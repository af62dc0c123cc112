package cuadre

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hospitalsr/farmacia-api/internal/application/dto"
	"github.com/hospitalsr/farmacia-api/internal/application/kardex"
	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/domain/repository"
)

// UseCase maneja las sesiones de cuadre: iniciar toma la foto del teórico de
// cada insumo vigilado, el conteo va llenando las líneas y finalizar registra
// los ajustes correctivos de forma atómica. Lineal: INICIADO -> CONTEO ->
// FINALIZADO, sin vuelta atrás.
type UseCase struct {
	txRunner kardex.TxRunner
	motor    *kardex.Motor
	cuadres  repository.CuadreRepository
	saldos   repository.SaldoRepository
	insumos  repository.InsumoRepository
}

// NewUseCase construye el caso de uso de cuadre.
func NewUseCase(
	txRunner kardex.TxRunner,
	motor *kardex.Motor,
	cuadres repository.CuadreRepository,
	saldos repository.SaldoRepository,
	insumos repository.InsumoRepository,
) *UseCase {
	return &UseCase{txRunner: txRunner, motor: motor, cuadres: cuadres, saldos: saldos, insumos: insumos}
}

// Iniciar abre una sesión con una línea por insumo vigilado. El teórico de
// cada línea es el saldo actual de kardex o la cuota fija configurada, según
// el modo del insumo (los ítems de stock 24h se reponen a cuota fija, no se
// comparan contra consumo real). Turnista y bodeguero son obligatorios.
func (uc *UseCase) Iniciar(ctx context.Context, userID string, in dto.IniciarCuadreRequest) (*entity.Cuadre, error) {
	if in.Turnista == "" || in.Bodeguero == "" {
		return nil, domain.ErrEntradaInvalida
	}
	vigilados, err := uc.cuadres.ListInsumosVigilados()
	if err != nil {
		return nil, err
	}
	if len(vigilados) == 0 {
		return nil, domain.ErrEntradaInvalida
	}

	now := time.Now()
	sesion := &entity.Cuadre{
		ID:            uuid.New().String(),
		Fecha:         now,
		Turnista:      in.Turnista,
		Bodeguero:     in.Bodeguero,
		Observaciones: in.Observaciones,
		Estado:        entity.CuadreIniciado,
		CreadoEn:      now,
		ActualizadoEn: now,
	}
	for _, vig := range vigilados {
		teorico := vig.CuotaFija
		if vig.Modo == entity.ModoKardex {
			saldo, err := uc.saldos.Get(vig.InsumoPresentacionID)
			if err != nil {
				return nil, err
			}
			teorico = saldo.Cantidad
		}
		sesion.Detalles = append(sesion.Detalles, &entity.CuadreDetalle{
			ID:                   uuid.New().String(),
			CuadreID:             sesion.ID,
			InsumoPresentacionID: vig.InsumoPresentacionID,
			Teorico:              teorico,
			Conteo:               entity.Conteo{},
		})
	}
	if err := uc.cuadres.Create(sesion); err != nil {
		return nil, err
	}
	return sesion, nil
}

// RegistrarConteo fija la cantidad física de una línea (>= 0) y deriva la
// diferencia física - teórico. Permitido en INICIADO y CONTEO; el primer
// conteo pasa la sesión a CONTEO. Una sesión FINALIZADO es inmutable.
func (uc *UseCase) RegistrarConteo(ctx context.Context, userID, cuadreID, detalleID string, fisica decimal.Decimal) (*entity.Cuadre, error) {
	if fisica.LessThan(decimal.Zero) {
		return nil, domain.ErrEntradaInvalida
	}
	sesion, err := uc.cuadres.GetByID(cuadreID)
	if err != nil || sesion == nil {
		return nil, domain.ErrNoEncontrado
	}
	if sesion.Estado != entity.CuadreIniciado && sesion.Estado != entity.CuadreConteo {
		return nil, domain.ErrTransicionInvalida
	}
	var detalle *entity.CuadreDetalle
	for _, d := range sesion.Detalles {
		if d.ID == detalleID {
			detalle = d
			break
		}
	}
	if detalle == nil {
		return nil, domain.ErrNoEncontrado
	}

	detalle.Conteo = entity.Conteo{Contado: true, Fisica: fisica}
	detalle.Diferencia = fisica.Sub(detalle.Teorico)
	if err := uc.cuadres.UpdateDetalle(detalle); err != nil {
		return nil, err
	}
	if sesion.Estado == entity.CuadreIniciado {
		anterior := sesion.Estado
		sesion.Estado = entity.CuadreConteo
		sesion.ActualizadoEn = time.Now()
		if err := uc.cuadres.UpdateEstado(sesion, anterior); err != nil {
			return nil, err
		}
	}
	return sesion, nil
}

// Finalizar cierra la sesión: exige todas las líneas contadas (si falta
// alguna, ErrConteoIncompleto y cero ajustes registrados) y en una sola
// transacción registra un AJUSTE por cada diferencia distinta de cero
// (diferencia positiva sube el saldo, negativa lo baja), sin lote: son
// correcciones contra el saldo del insumo. O se registran todos los ajustes y
// la sesión queda FINALIZADO, o ninguno y la sesión sigue en CONTEO.
func (uc *UseCase) Finalizar(ctx context.Context, userID, cuadreID string) (*entity.Cuadre, error) {
	sesion, err := uc.cuadres.GetByID(cuadreID)
	if err != nil || sesion == nil {
		return nil, domain.ErrNoEncontrado
	}
	if sesion.Estado != entity.CuadreIniciado && sesion.Estado != entity.CuadreConteo {
		return nil, domain.ErrTransicionInvalida
	}
	for _, d := range sesion.Detalles {
		if !d.Conteo.Contado {
			return nil, domain.ErrConteoIncompleto
		}
	}

	now := time.Now()
	doc := kardex.DocRef{Tipo: entity.DocCuadre, ID: sesion.ID}
	anterior := sesion.Estado

	err = uc.txRunner.Run(ctx, func(r kardex.RepoSet) error {
		for _, d := range sesion.Detalles {
			if d.Diferencia.IsZero() {
				continue
			}
			if err := uc.motor.RegistrarAjusteEnTx(r, d.InsumoPresentacionID, d.Diferencia, now, doc, userID); err != nil {
				return err
			}
		}
		sesion.Estado = entity.CuadreFinalizado
		sesion.ActualizadoEn = now
		return r.Cuadres.UpdateEstado(sesion, anterior)
	})
	if err != nil {
		sesion.Estado = anterior
		return nil, err
	}
	return sesion, nil
}

// GetByID devuelve una sesión con sus detalles.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Cuadre, error) {
	sesion, err := uc.cuadres.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sesion == nil {
		return nil, domain.ErrNoEncontrado
	}
	return sesion, nil
}

// List lista sesiones de cuadre.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.Cuadre, error) {
	return uc.cuadres.List(limit, offset)
}

// EnrolarInsumo inscribe un insumo en la lista de vigilancia con su modo de
// teórico; CUOTA_FIJA exige cuota positiva.
func (uc *UseCase) EnrolarInsumo(ctx context.Context, in dto.EnrolarInsumoCuadreRequest) (*entity.CuadreInsumo, error) {
	if in.Modo != entity.ModoKardex && in.Modo != entity.ModoCuotaFija {
		return nil, domain.ErrEntradaInvalida
	}
	if in.Modo == entity.ModoCuotaFija && !in.CuotaFija.GreaterThan(decimal.Zero) {
		return nil, domain.ErrEntradaInvalida
	}
	insumo, err := uc.insumos.GetByID(in.InsumoPresentacionID)
	if err != nil || insumo == nil {
		return nil, domain.ErrNoEncontrado
	}
	ci := &entity.CuadreInsumo{
		InsumoPresentacionID: in.InsumoPresentacionID,
		Modo:                 in.Modo,
		CuotaFija:            in.CuotaFija,
		CreadoEn:             time.Now(),
	}
	if err := uc.cuadres.EnrolarInsumo(ci); err != nil {
		return nil, err
	}
	return ci, nil
}

// ListInsumosVigilados devuelve la lista de vigilancia.
func (uc *UseCase) ListInsumosVigilados(ctx context.Context) ([]*entity.CuadreInsumo, error) {
	return uc.cuadres.ListInsumosVigilados()
}
