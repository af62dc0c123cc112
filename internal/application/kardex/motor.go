package kardex

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/domain/inventario"
)

// DocRef identifica el documento que origina un movimiento de kardex
// (ingreso, requisición, consolidado o cuadre).
type DocRef struct {
	Tipo string
	ID   string
}

// Motor es el motor de kardex: registra entradas, salidas y ajustes de forma
// atómica con la mutación de lote y saldo. Todos los métodos *EnTx esperan
// repositorios atados a la transacción del caller (RepoSet de TxRunner.Run);
// la serialización por insumo la da el bloqueo de la fila de saldo
// (SELECT FOR UPDATE) que toma cada operación antes de leer lotes.
type Motor struct{}

// NewMotor construye el motor de kardex.
func NewMotor() *Motor {
	return &Motor{}
}

// RegistrarEntradaEnTx suma cantidad al lote, re-promedia el costo del insumo
// y registra el movimiento ENTRADA. El costo promedio solo cambia en entradas.
func (m *Motor) RegistrarEntradaEnTx(r RepoSet, lote *entity.Lote, cantidad, costoUnitario decimal.Decimal, fecha time.Time, doc DocRef, userID string) error {
	if !cantidad.GreaterThan(decimal.Zero) || costoUnitario.LessThan(decimal.Zero) {
		return domain.ErrEntradaInvalida
	}
	saldo, err := r.Saldos.GetForUpdate(lote.InsumoPresentacionID)
	if err != nil {
		return err
	}

	saldo.CostoPromedio = inventario.CostoPromedio(saldo.Cantidad, saldo.CostoPromedio, cantidad, costoUnitario)
	saldo.Cantidad = saldo.Cantidad.Add(cantidad)
	saldo.ActualizadoEn = fecha
	if err := r.Saldos.Upsert(saldo); err != nil {
		return err
	}

	lote.Cantidad = lote.Cantidad.Add(cantidad)
	if lote.Estado == entity.LoteAgotado {
		lote.Estado = entity.LoteDisponible
	}
	lote.ActualizadoEn = fecha
	if err := r.Lotes.Update(lote); err != nil {
		return err
	}

	loteID := lote.ID
	return r.Movimientos.Create(&entity.Movimiento{
		ID:                   uuid.New().String(),
		Tipo:                 entity.MovimientoEntrada,
		InsumoPresentacionID: lote.InsumoPresentacionID,
		LoteID:               &loteID,
		Cantidad:             cantidad,
		CostoUnitario:        costoUnitario,
		CostoTotal:           cantidad.Mul(costoUnitario),
		Fecha:                fecha,
		DocTipo:              doc.Tipo,
		DocID:                doc.ID,
		CreadoEn:             fecha,
		CreadoPor:            userID,
	})
}

// RegistrarSalidaEnTx descuenta cantidad del lote al costo de adquisición del
// lote y registra el movimiento SALIDA. Falla con ErrStockInsuficiente si la
// cantidad supera lo disponible en el lote: ningún lote queda negativo jamás.
// Un lote que llega a cero pasa a AGOTADO. Las salidas no alteran el costo
// promedio del insumo.
func (m *Motor) RegistrarSalidaEnTx(r RepoSet, lote *entity.Lote, cantidad decimal.Decimal, fecha time.Time, doc DocRef, userID string) error {
	if !cantidad.GreaterThan(decimal.Zero) {
		return domain.ErrEntradaInvalida
	}
	if lote.Cantidad.LessThan(cantidad) {
		return domain.ErrStockInsuficiente
	}
	saldo, err := r.Saldos.GetForUpdate(lote.InsumoPresentacionID)
	if err != nil {
		return err
	}

	saldo.Cantidad = saldo.Cantidad.Sub(cantidad)
	saldo.ActualizadoEn = fecha
	if err := r.Saldos.Upsert(saldo); err != nil {
		return err
	}

	lote.Cantidad = lote.Cantidad.Sub(cantidad)
	if lote.Cantidad.IsZero() {
		lote.Estado = entity.LoteAgotado
	}
	lote.ActualizadoEn = fecha
	if err := r.Lotes.Update(lote); err != nil {
		return err
	}

	loteID := lote.ID
	return r.Movimientos.Create(&entity.Movimiento{
		ID:                   uuid.New().String(),
		Tipo:                 entity.MovimientoSalida,
		InsumoPresentacionID: lote.InsumoPresentacionID,
		LoteID:               &loteID,
		Cantidad:             cantidad.Neg(),
		CostoUnitario:        lote.CostoUnitario,
		CostoTotal:           cantidad.Neg().Mul(lote.CostoUnitario),
		Fecha:                fecha,
		DocTipo:              doc.Tipo,
		DocID:                doc.ID,
		CreadoEn:             fecha,
		CreadoPor:            userID,
	})
}

// RegistrarAjusteEnTx registra una corrección con signo contra el saldo del
// insumo, sin lote: es el único tipo de movimiento que puede llevar el saldo a
// un valor distinto del que produce la aritmética pura de entradas/salidas.
// Lo usa exclusivamente la finalización del cuadre.
func (m *Motor) RegistrarAjusteEnTx(r RepoSet, insumoID string, delta decimal.Decimal, fecha time.Time, doc DocRef, userID string) error {
	if delta.IsZero() {
		return domain.ErrEntradaInvalida
	}
	saldo, err := r.Saldos.GetForUpdate(insumoID)
	if err != nil {
		return err
	}
	nuevo := saldo.Cantidad.Add(delta)
	if nuevo.LessThan(decimal.Zero) {
		return domain.ErrStockInsuficiente
	}
	saldo.Cantidad = nuevo
	saldo.ActualizadoEn = fecha
	if err := r.Saldos.Upsert(saldo); err != nil {
		return err
	}

	return r.Movimientos.Create(&entity.Movimiento{
		ID:                   uuid.New().String(),
		Tipo:                 entity.MovimientoAjuste,
		InsumoPresentacionID: insumoID,
		LoteID:               nil,
		Cantidad:             delta,
		CostoUnitario:        saldo.CostoPromedio,
		CostoTotal:           delta.Mul(saldo.CostoPromedio),
		Fecha:                fecha,
		DocTipo:              doc.Tipo,
		DocID:                doc.ID,
		CreadoEn:             fecha,
		CreadoPor:            userID,
	})
}

// ConsumirEnTx es la primitiva compartida de consumo multi-lote: bloquea el
// saldo del insumo, marca VENCIDO los lotes ya vencidos (sin descontarlos: la
// baja por vencimiento es un proceso aparte), arma el plan FEFO y registra una
// SALIDA por cada asignación. La entrega de requisiciones y la creación de
// consolidados pasan por aquí para no divergir en dos rutas de código.
// Devuelve el plan ejecutado para que el caller registre precios ponderados.
func (m *Motor) ConsumirEnTx(r RepoSet, insumoID string, cantidad decimal.Decimal, fecha time.Time, doc DocRef, userID string) ([]inventario.Asignacion, error) {
	if !cantidad.GreaterThan(decimal.Zero) {
		return nil, domain.ErrEntradaInvalida
	}
	// El bloqueo del saldo serializa consumos concurrentes del mismo insumo:
	// dos planes contra los mismos lotes no pueden intercalarse.
	if _, err := r.Saldos.GetForUpdate(insumoID); err != nil {
		return nil, err
	}
	lotes, err := r.Lotes.ListDisponiblesForUpdate(insumoID)
	if err != nil {
		return nil, err
	}

	for _, l := range lotes {
		if l.Estado == entity.LoteDisponible && l.Vencido(fecha) {
			l.Estado = entity.LoteVencido
			l.ActualizadoEn = fecha
			if err := r.Lotes.Update(l); err != nil {
				return nil, err
			}
		}
	}

	plan, err := inventario.PlanFEFO(lotes, fecha, cantidad)
	if err != nil {
		return nil, err
	}
	for _, a := range plan {
		if err := m.RegistrarSalidaEnTx(r, a.Lote, a.Cantidad, fecha, doc, userID); err != nil {
			return nil, err
		}
	}
	return plan, nil
}
