package inventario_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/domain/inventario"
)

var hoy = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func lote(id string, cantidad, costo string, vence time.Time, creado time.Time, estado string) *entity.Lote {
	return &entity.Lote{
		ID:               id,
		NumeroLote:       "NL-" + id,
		Cantidad:         decimal.RequireFromString(cantidad),
		CostoUnitario:    decimal.RequireFromString(costo),
		FechaVencimiento: vence,
		Estado:           estado,
		CreadoEn:         creado,
	}
}

func TestPlanFEFO_ConsumePrimeroElQueVencePrimero(t *testing.T) {
	// L1 vence antes que L2: con 5 en L1 y 10 en L2, pedir 7 debe dar
	// [(L1,5), (L2,2)].
	l1 := lote("L1", "5", "2.00", hoy.AddDate(0, 1, 0), hoy.AddDate(0, 0, -10), entity.LoteDisponible)
	l2 := lote("L2", "10", "4.00", hoy.AddDate(0, 6, 0), hoy.AddDate(0, 0, -5), entity.LoteDisponible)

	plan, err := inventario.PlanFEFO([]*entity.Lote{l2, l1}, hoy, decimal.RequireFromString("7"))
	require.NoError(t, err)
	require.Len(t, plan, 2, "deben consumirse dos lotes")

	assert.Equal(t, "L1", plan[0].Lote.ID, "el lote que vence primero sale primero")
	assert.True(t, plan[0].Cantidad.Equal(decimal.RequireFromString("5")), "L1 debe agotarse")
	assert.Equal(t, "L2", plan[1].Lote.ID)
	assert.True(t, plan[1].Cantidad.Equal(decimal.RequireFromString("2")), "L2 cubre el resto")
}

func TestPlanFEFO_EmpateVencimiento_DesempataPorCreacion(t *testing.T) {
	vence := hoy.AddDate(0, 3, 0)
	viejo := lote("VIEJO", "3", "1.00", vence, hoy.AddDate(0, 0, -30), entity.LoteDisponible)
	nuevo := lote("NUEVO", "3", "1.00", vence, hoy.AddDate(0, 0, -1), entity.LoteDisponible)

	plan, err := inventario.PlanFEFO([]*entity.Lote{nuevo, viejo}, hoy, decimal.RequireFromString("4"))
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "VIEJO", plan[0].Lote.ID, "a igual vencimiento sale primero el lote más antiguo")
}

func TestPlanFEFO_IgnoraVencidosYNoDisponibles(t *testing.T) {
	vencido := lote("VEN", "100", "1.00", hoy.AddDate(0, 0, -1), hoy.AddDate(0, -2, 0), entity.LoteDisponible)
	agotado := lote("AGO", "0", "1.00", hoy.AddDate(0, 2, 0), hoy.AddDate(0, -1, 0), entity.LoteAgotado)
	vigente := lote("VIG", "4", "2.50", hoy.AddDate(0, 2, 0), hoy.AddDate(0, -1, 0), entity.LoteDisponible)

	plan, err := inventario.PlanFEFO([]*entity.Lote{vencido, agotado, vigente}, hoy, decimal.RequireFromString("4"))
	require.NoError(t, err)
	require.Len(t, plan, 1, "solo el lote vigente es elegible")
	assert.Equal(t, "VIG", plan[0].Lote.ID)
}

func TestPlanFEFO_StockInsuficiente_TodoONada(t *testing.T) {
	// Hay 80 vencidos y 5 vigentes: pedir 10 debe fallar aunque el stock
	// total supere lo pedido. Sin asignación parcial.
	vencido := lote("VEN", "80", "1.00", hoy.AddDate(0, 0, -1), hoy.AddDate(0, -2, 0), entity.LoteDisponible)
	vigente := lote("VIG", "5", "2.00", hoy.AddDate(0, 2, 0), hoy.AddDate(0, -1, 0), entity.LoteDisponible)

	plan, err := inventario.PlanFEFO([]*entity.Lote{vencido, vigente}, hoy, decimal.RequireFromString("10"))
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)
	assert.Nil(t, plan, "no debe haber plan parcial")
}

func TestPlanFEFO_CantidadNoPositiva(t *testing.T) {
	vigente := lote("VIG", "5", "2.00", hoy.AddDate(0, 2, 0), hoy.AddDate(0, -1, 0), entity.LoteDisponible)

	_, err := inventario.PlanFEFO([]*entity.Lote{vigente}, hoy, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)

	_, err = inventario.PlanFEFO([]*entity.Lote{vigente}, hoy, decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestPlanFEFO_NoMutaLotes(t *testing.T) {
	l1 := lote("L1", "5", "2.00", hoy.AddDate(0, 1, 0), hoy.AddDate(0, 0, -10), entity.LoteDisponible)

	_, err := inventario.PlanFEFO([]*entity.Lote{l1}, hoy, decimal.RequireFromString("3"))
	require.NoError(t, err)
	assert.True(t, l1.Cantidad.Equal(decimal.RequireFromString("5")), "planear no descuenta del lote")
}

func TestPrecioPonderado_CruzaVariosLotes(t *testing.T) {
	// 5 unidades a 2.00 y 2 unidades a 4.00 -> (10 + 8) / 7
	l1 := lote("L1", "5", "2.00", hoy.AddDate(0, 1, 0), hoy, entity.LoteDisponible)
	l2 := lote("L2", "10", "4.00", hoy.AddDate(0, 6, 0), hoy, entity.LoteDisponible)
	plan := []inventario.Asignacion{
		{Lote: l1, Cantidad: decimal.RequireFromString("5")},
		{Lote: l2, Cantidad: decimal.RequireFromString("2")},
	}

	precio := inventario.PrecioPonderado(plan)
	esperado := decimal.RequireFromString("18").Div(decimal.RequireFromString("7"))
	assert.True(t, precio.Equal(esperado), "precio ponderado = sum(cant*costo)/sum(cant), obtuvo %s", precio)
}

func TestPrecioPonderado_PlanVacio(t *testing.T) {
	assert.True(t, inventario.PrecioPonderado(nil).IsZero())
}
