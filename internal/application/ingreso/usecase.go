package ingreso

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

// UseCase registra ingresos a bodega: cada línea crea un lote nuevo y su
// movimiento ENTRADA, en una sola transacción.
type UseCase struct {
	txRunner kardex.TxRunner
	motor    *kardex.Motor
	insumos  repository.InsumoRepository
}

// NewUseCase construye el caso de uso de ingresos.
func NewUseCase(txRunner kardex.TxRunner, motor *kardex.Motor, insumos repository.InsumoRepository) *UseCase {
	return &UseCase{txRunner: txRunner, motor: motor, insumos: insumos}
}

// Registrar valida las líneas y referencias fuera de la transacción y después
// crea lotes y entradas de kardex de forma atómica: si una línea falla, no se
// persiste nada del ingreso.
func (uc *UseCase) Registrar(ctx context.Context, userID string, in dto.RegistrarIngresoRequest) ([]*entity.Lote, error) {
	if len(in.Lineas) == 0 || in.Documento == "" {
		return nil, domain.ErrEntradaInvalida
	}
	for _, linea := range in.Lineas {
		if !linea.Cantidad.GreaterThan(decimal.Zero) || linea.CostoUnitario.LessThan(decimal.Zero) {
			return nil, domain.ErrEntradaInvalida
		}
		if linea.NumeroLote == "" || linea.FechaVencimiento.IsZero() {
			return nil, domain.ErrEntradaInvalida
		}
		insumo, err := uc.insumos.GetByID(linea.InsumoPresentacionID)
		if err != nil || insumo == nil {
			return nil, domain.ErrNoEncontrado
		}
	}

	now := time.Now()
	doc := kardex.DocRef{Tipo: entity.DocIngreso, ID: in.Documento}

	lotes := make([]*entity.Lote, 0, len(in.Lineas))
	err := uc.txRunner.Run(ctx, func(r kardex.RepoSet) error {
		for _, linea := range in.Lineas {
			lote := &entity.Lote{
				ID:                   uuid.New().String(),
				InsumoPresentacionID: linea.InsumoPresentacionID,
				NumeroLote:           linea.NumeroLote,
				CostoUnitario:        linea.CostoUnitario,
				Cantidad:             decimal.Zero, // la entrada de kardex suma la cantidad
				FechaVencimiento:     linea.FechaVencimiento,
				Estado:               entity.LoteDisponible,
				CreadoEn:             now,
				ActualizadoEn:        now,
			}
			if err := r.Lotes.Create(lote); err != nil {
				return err
			}
			if err := uc.motor.RegistrarEntradaEnTx(r, lote, linea.Cantidad, linea.CostoUnitario, now, doc, userID); err != nil {
				return err
			}
			lotes = append(lotes, lote)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lotes, nil
}
