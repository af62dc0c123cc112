package ingreso_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalsr/farmacia-api/internal/application/dto"
	"github.com/hospitalsr/farmacia-api/internal/application/ingreso"
	"github.com/hospitalsr/farmacia-api/internal/application/kardex"
	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/testutil"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*testutil.Store, *ingreso.UseCase) {
	t.Helper()
	store := testutil.NewStore()
	repos := store.RepoSet()
	require.NoError(t, repos.Insumos.Create(&entity.InsumoPresentacion{
		ID:           "ins-1",
		Nombre:       "Amoxicilina",
		Presentacion: "tableta",
		UnidadMedida: "500mg",
		Activo:       true,
	}))
	uc := ingreso.NewUseCase(testutil.NewTxRunner(store), kardex.NewMotor(), repos.Insumos)
	return store, uc
}

func TestRegistrar_CreaLotesYSaldo(t *testing.T) {
	store, uc := setup(t)
	vence := time.Now().AddDate(1, 0, 0)

	lotes, err := uc.Registrar(context.Background(), "user-1", dto.RegistrarIngresoRequest{
		Documento: "FAC-001",
		Lineas: []dto.IngresoLineaRequest{
			{InsumoPresentacionID: "ins-1", NumeroLote: "A1", Cantidad: d("10"), CostoUnitario: d("2.00"), FechaVencimiento: vence},
			{InsumoPresentacionID: "ins-1", NumeroLote: "A2", Cantidad: d("10"), CostoUnitario: d("4.00"), FechaVencimiento: vence},
		},
	})
	require.NoError(t, err)
	require.Len(t, lotes, 2)
	assert.True(t, lotes[0].Cantidad.Equal(d("10")), "el lote queda con la cantidad ingresada")
	assert.Equal(t, entity.LoteDisponible, lotes[0].Estado)

	saldo, err := store.RepoSet().Saldos.Get("ins-1")
	require.NoError(t, err)
	assert.True(t, saldo.Cantidad.Equal(d("20")))
	assert.True(t, saldo.CostoPromedio.Equal(d("3.00")), "10@2.00 + 10@4.00 promedia 3.00")

	movs, err := store.RepoSet().Movimientos.ListByInsumo("ins-1", nil, nil, 50, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2, "una ENTRADA por línea")
	assert.Equal(t, entity.MovimientoEntrada, movs[0].Tipo)
	assert.Equal(t, entity.DocIngreso, movs[0].DocTipo)
	assert.Equal(t, "FAC-001", movs[0].DocID)
}

func TestRegistrar_ValidaLineas(t *testing.T) {
	_, uc := setup(t)
	vence := time.Now().AddDate(1, 0, 0)

	casos := []struct {
		nombre string
		in     dto.RegistrarIngresoRequest
		want   error
	}{
		{
			"sin documento",
			dto.RegistrarIngresoRequest{Lineas: []dto.IngresoLineaRequest{
				{InsumoPresentacionID: "ins-1", NumeroLote: "A1", Cantidad: d("1"), FechaVencimiento: vence},
			}},
			domain.ErrEntradaInvalida,
		},
		{
			"sin líneas",
			dto.RegistrarIngresoRequest{Documento: "FAC-001"},
			domain.ErrEntradaInvalida,
		},
		{
			"cantidad no positiva",
			dto.RegistrarIngresoRequest{Documento: "FAC-001", Lineas: []dto.IngresoLineaRequest{
				{InsumoPresentacionID: "ins-1", NumeroLote: "A1", Cantidad: d("0"), FechaVencimiento: vence},
			}},
			domain.ErrEntradaInvalida,
		},
		{
			"costo negativo",
			dto.RegistrarIngresoRequest{Documento: "FAC-001", Lineas: []dto.IngresoLineaRequest{
				{InsumoPresentacionID: "ins-1", NumeroLote: "A1", Cantidad: d("1"), CostoUnitario: d("-1"), FechaVencimiento: vence},
			}},
			domain.ErrEntradaInvalida,
		},
		{
			"insumo inexistente",
			dto.RegistrarIngresoRequest{Documento: "FAC-001", Lineas: []dto.IngresoLineaRequest{
				{InsumoPresentacionID: "no-existe", NumeroLote: "A1", Cantidad: d("1"), FechaVencimiento: vence},
			}},
			domain.ErrNoEncontrado,
		},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := uc.Registrar(context.Background(), "user-1", tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegistrar_LineaInvalida_NoPersisteNada(t *testing.T) {
	store, uc := setup(t)
	vence := time.Now().AddDate(1, 0, 0)

	_, err := uc.Registrar(context.Background(), "user-1", dto.RegistrarIngresoRequest{
		Documento: "FAC-002",
		Lineas: []dto.IngresoLineaRequest{
			{InsumoPresentacionID: "ins-1", NumeroLote: "B1", Cantidad: d("5"), CostoUnitario: d("1.00"), FechaVencimiento: vence},
			{InsumoPresentacionID: "no-existe", NumeroLote: "B2", Cantidad: d("5"), CostoUnitario: d("1.00"), FechaVencimiento: vence},
		},
	})
	require.Error(t, err)

	_, err = store.RepoSet().Saldos.Get("ins-1")
	assert.ErrorIs(t, err, domain.ErrNoEncontrado, "la línea buena no debe haberse registrado")

	lotes, err := store.RepoSet().Lotes.ListByInsumo("ins-1")
	require.NoError(t, err)
	assert.Empty(t, lotes, "ningún lote debe quedar creado")
}
