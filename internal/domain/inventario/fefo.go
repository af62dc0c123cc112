package inventario

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
)

// Asignacion es la porción de un lote que consume un plan FEFO.
type Asignacion struct {
	Lote     *entity.Lote
	Cantidad decimal.Decimal
}

// PlanFEFO arma el plan de consumo de lotes para una cantidad requerida bajo
// la política primero-en-vencer-primero-en-salir. Elegibles: lotes DISPONIBLE
// con cantidad > 0 y no vencidos a la fecha dada. Orden: fecha de vencimiento
// ascendente, desempate por orden de creación (lote más antiguo primero).
// Consume greedy del primer lote elegible hasta agotarlo y sigue con el
// siguiente. Si el total elegible no alcanza, falla con ErrStockInsuficiente
// sin asignación parcial: es una función pura, no muta ningún lote.
func PlanFEFO(lotes []*entity.Lote, hoy time.Time, requerido decimal.Decimal) ([]Asignacion, error) {
	if !requerido.GreaterThan(decimal.Zero) {
		return nil, domain.ErrEntradaInvalida
	}

	elegibles := make([]*entity.Lote, 0, len(lotes))
	for _, l := range lotes {
		if l.Estado != entity.LoteDisponible || !l.Cantidad.GreaterThan(decimal.Zero) {
			continue
		}
		if l.Vencido(hoy) {
			continue
		}
		elegibles = append(elegibles, l)
	}
	sort.SliceStable(elegibles, func(i, j int) bool {
		if !elegibles[i].FechaVencimiento.Equal(elegibles[j].FechaVencimiento) {
			return elegibles[i].FechaVencimiento.Before(elegibles[j].FechaVencimiento)
		}
		return elegibles[i].CreadoEn.Before(elegibles[j].CreadoEn)
	})

	var plan []Asignacion
	restante := requerido
	for _, l := range elegibles {
		if !restante.GreaterThan(decimal.Zero) {
			break
		}
		toma := decimal.Min(l.Cantidad, restante)
		plan = append(plan, Asignacion{Lote: l, Cantidad: toma})
		restante = restante.Sub(toma)
	}
	if restante.GreaterThan(decimal.Zero) {
		return nil, domain.ErrStockInsuficiente
	}
	return plan, nil
}

// PrecioPonderado devuelve el costo unitario ponderado por asignación de un
// plan: sum(cantidad_i * costo_i) / sum(cantidad_i). Es el precio que queda
// registrado en la línea entregada cuando cruza varios lotes.
func PrecioPonderado(plan []Asignacion) decimal.Decimal {
	var total, costo decimal.Decimal
	for _, a := range plan {
		total = total.Add(a.Cantidad)
		costo = costo.Add(a.Cantidad.Mul(a.Lote.CostoUnitario))
	}
	if !total.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return costo.Div(total)
}
