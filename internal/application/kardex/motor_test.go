package kardex_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalsr/farmacia-api/internal/application/kardex"
	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/testutil"
)

var (
	hoy    = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	docDoc = kardex.DocRef{Tipo: entity.DocIngreso, ID: "FAC-001"}
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedLote(t *testing.T, store *testutil.Store, motor *kardex.Motor, id, insumoID, cantidad, costo string, vence time.Time) *entity.Lote {
	t.Helper()
	lote := &entity.Lote{
		ID:                   id,
		InsumoPresentacionID: insumoID,
		NumeroLote:           "NL-" + id,
		CostoUnitario:        d(costo),
		Cantidad:             decimal.Zero,
		FechaVencimiento:     vence,
		Estado:               entity.LoteDisponible,
		CreadoEn:             hoy.Add(-24 * time.Hour),
	}
	repos := store.RepoSet()
	require.NoError(t, repos.Lotes.Create(lote))
	require.NoError(t, motor.RegistrarEntradaEnTx(repos, lote, d(cantidad), d(costo), hoy, docDoc, "user-1"))
	return lote
}

func TestMotor_Entrada_RepromediaCosto(t *testing.T) {
	store := testutil.NewStore()
	motor := kardex.NewMotor()

	// 10 a 2.00 y luego 10 a 4.00 -> promedio 3.00, saldo 20
	seedLote(t, store, motor, "L1", "ins-1", "10", "2.00", hoy.AddDate(0, 6, 0))
	seedLote(t, store, motor, "L2", "ins-1", "10", "4.00", hoy.AddDate(0, 8, 0))

	saldo, err := store.RepoSet().Saldos.Get("ins-1")
	require.NoError(t, err)
	assert.True(t, saldo.Cantidad.Equal(d("20")), "saldo debe ser 20, obtuvo %s", saldo.Cantidad)
	assert.True(t, saldo.CostoPromedio.Equal(d("3.00")), "promedio debe ser 3.00, obtuvo %s", saldo.CostoPromedio)
}

func TestMotor_Salida_NoCambiaPromedio_YAgotaLote(t *testing.T) {
	store := testutil.NewStore()
	motor := kardex.NewMotor()
	repos := store.RepoSet()

	lote := seedLote(t, store, motor, "L1", "ins-1", "10", "2.00", hoy.AddDate(0, 6, 0))

	require.NoError(t, motor.RegistrarSalidaEnTx(repos, lote, d("10"), hoy, docDoc, "user-1"))

	saldo, err := repos.Saldos.Get("ins-1")
	require.NoError(t, err)
	assert.True(t, saldo.Cantidad.IsZero(), "saldo debe quedar en cero")
	assert.True(t, saldo.CostoPromedio.Equal(d("2.00")), "la salida no toca el promedio")

	guardado, err := repos.Lotes.GetByID("L1")
	require.NoError(t, err)
	assert.Equal(t, entity.LoteAgotado, guardado.Estado, "lote en cero pasa a AGOTADO")
}

func TestMotor_Salida_MasQueElLote_Falla(t *testing.T) {
	store := testutil.NewStore()
	motor := kardex.NewMotor()
	repos := store.RepoSet()

	lote := seedLote(t, store, motor, "L1", "ins-1", "5", "2.00", hoy.AddDate(0, 6, 0))

	err := motor.RegistrarSalidaEnTx(repos, lote, d("6"), hoy, docDoc, "user-1")
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente, "un lote jamás queda negativo")
}

func TestMotor_Ajuste_NoPermiteSaldoNegativo(t *testing.T) {
	store := testutil.NewStore()
	motor := kardex.NewMotor()
	repos := store.RepoSet()

	seedLote(t, store, motor, "L1", "ins-1", "5", "2.00", hoy.AddDate(0, 6, 0))

	err := motor.RegistrarAjusteEnTx(repos, "ins-1", d("-6"), hoy, docDoc, "user-1")
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)

	require.NoError(t, motor.RegistrarAjusteEnTx(repos, "ins-1", d("-2"), hoy, docDoc, "user-1"))
	saldo, err := repos.Saldos.Get("ins-1")
	require.NoError(t, err)
	assert.True(t, saldo.Cantidad.Equal(d("3")))
}

func TestMotor_Ajuste_DeltaCeroInvalido(t *testing.T) {
	store := testutil.NewStore()
	motor := kardex.NewMotor()

	err := motor.RegistrarAjusteEnTx(store.RepoSet(), "ins-1", decimal.Zero, hoy, docDoc, "user-1")
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestMotor_Consumir_FEFOCruzaLotes(t *testing.T) {
	store := testutil.NewStore()
	motor := kardex.NewMotor()
	repos := store.RepoSet()

	// L1 vence antes: pedir 7 debe tomar 5 de L1 y 2 de L2.
	seedLote(t, store, motor, "L1", "ins-1", "5", "2.00", hoy.AddDate(0, 1, 0))
	seedLote(t, store, motor, "L2", "ins-1", "10", "4.00", hoy.AddDate(0, 6, 0))

	plan, err := motor.ConsumirEnTx(repos, "ins-1", d("7"), hoy, docDoc, "user-1")
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "L1", plan[0].Lote.ID)
	assert.True(t, plan[0].Cantidad.Equal(d("5")))
	assert.True(t, plan[1].Cantidad.Equal(d("2")))

	l1, _ := repos.Lotes.GetByID("L1")
	l2, _ := repos.Lotes.GetByID("L2")
	assert.Equal(t, entity.LoteAgotado, l1.Estado)
	assert.True(t, l2.Cantidad.Equal(d("8")))

	saldo, err := repos.Saldos.Get("ins-1")
	require.NoError(t, err)
	assert.True(t, saldo.Cantidad.Equal(d("8")), "15 - 7 = 8")
}

func TestMotor_Consumir_MarcaVencidosSinDescontarlos(t *testing.T) {
	store := testutil.NewStore()
	motor := kardex.NewMotor()
	repos := store.RepoSet()

	// El lote vencido no es elegible: su cantidad queda intacta y el lote
	// pasa a VENCIDO al tocarlo un consumo.
	seedLote(t, store, motor, "VEN", "ins-1", "80", "1.00", hoy.AddDate(0, 0, -1))
	seedLote(t, store, motor, "VIG", "ins-1", "5", "2.00", hoy.AddDate(0, 2, 0))

	plan, err := motor.ConsumirEnTx(repos, "ins-1", d("3"), hoy, docDoc, "user-1")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "VIG", plan[0].Lote.ID)

	vencido, _ := repos.Lotes.GetByID("VEN")
	assert.Equal(t, entity.LoteVencido, vencido.Estado)
	assert.True(t, vencido.Cantidad.Equal(d("80")), "la baja por vencimiento no descuenta el lote")
}

func TestMotor_Consumir_SoloVencidos_StockInsuficiente(t *testing.T) {
	store := testutil.NewStore()
	motor := kardex.NewMotor()
	repos := store.RepoSet()

	seedLote(t, store, motor, "VEN", "ins-1", "80", "1.00", hoy.AddDate(0, 0, -1))
	seedLote(t, store, motor, "VIG", "ins-1", "5", "2.00", hoy.AddDate(0, 2, 0))

	_, err := motor.ConsumirEnTx(repos, "ins-1", d("10"), hoy, docDoc, "user-1")
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente,
		"el stock vencido no cuenta aunque el total supere lo pedido")
}

func TestConsultas_VerificarSaldo_ReplayConsistente(t *testing.T) {
	store := testutil.NewStore()
	motor := kardex.NewMotor()
	repos := store.RepoSet()
	runner := testutil.NewTxRunner(store)

	seedLote(t, store, motor, "L1", "ins-1", "10", "2.00", hoy.AddDate(0, 6, 0))
	_ = runner.Run(context.Background(), func(r kardex.RepoSet) error {
		_, err := motor.ConsumirEnTx(r, "ins-1", d("4"), hoy, docDoc, "user-1")
		return err
	})
	require.NoError(t, motor.RegistrarAjusteEnTx(repos, "ins-1", d("-1"), hoy, docDoc, "user-1"))

	consultas := kardex.NewConsultas(repos.Insumos, repos.Movimientos, repos.Saldos)
	v, err := consultas.VerificarSaldo("ins-1")
	require.NoError(t, err)
	assert.True(t, v.Consistente, "cache %s vs replay %s", v.SaldoCache, v.SaldoReplay)
	assert.True(t, v.SaldoReplay.Equal(d("5")), "10 - 4 - 1 = 5")
}

func TestConsultas_SaldoAlCorte(t *testing.T) {
	store := testutil.NewStore()
	motor := kardex.NewMotor()
	repos := store.RepoSet()

	lote := &entity.Lote{
		ID:                   "L1",
		InsumoPresentacionID: "ins-1",
		NumeroLote:           "NL-L1",
		CostoUnitario:        d("2.00"),
		FechaVencimiento:     hoy.AddDate(0, 6, 0),
		Estado:               entity.LoteDisponible,
		CreadoEn:             hoy.AddDate(0, 0, -3),
	}
	require.NoError(t, repos.Lotes.Create(lote))
	// Entrada de 10 ayer, salida de 4 hoy.
	ayer := hoy.AddDate(0, 0, -1)
	require.NoError(t, motor.RegistrarEntradaEnTx(repos, lote, d("10"), d("2.00"), ayer, docDoc, "user-1"))
	require.NoError(t, motor.RegistrarSalidaEnTx(repos, lote, d("4"), hoy, docDoc, "user-1"))

	consultas := kardex.NewConsultas(repos.Insumos, repos.Movimientos, repos.Saldos)

	corte := ayer.Add(time.Hour)
	cantidad, err := consultas.SaldoAlCorte("ins-1", corte)
	require.NoError(t, err)
	assert.True(t, cantidad.Equal(d("10")), "al corte de ayer la salida de hoy no existe")

	cantidad, err = consultas.SaldoAlCorte("ins-1", hoy.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, cantidad.Equal(d("6")))
}
