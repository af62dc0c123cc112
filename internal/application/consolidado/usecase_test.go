package consolidado_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalsr/farmacia-api/internal/application/consolidado"
	"github.com/hospitalsr/farmacia-api/internal/application/dto"
	"github.com/hospitalsr/farmacia-api/internal/application/kardex"
	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/testutil"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	store *testutil.Store
	motor *kardex.Motor
	uc    *consolidado.UseCase
}

func setup(t *testing.T) *env {
	t.Helper()
	store := testutil.NewStore()
	repos := store.RepoSet()
	motor := kardex.NewMotor()

	require.NoError(t, repos.Insumos.Create(&entity.InsumoPresentacion{
		ID: "ins-1", Nombre: "Dipirona", Presentacion: "ampolla", UnidadMedida: "1g", Activo: true,
	}))
	require.NoError(t, store.Servicios().Create(&entity.Servicio{
		ID: "srv-1", Nombre: "Urgencias", Camas: 10, Activo: true,
	}))

	uc := consolidado.NewUseCase(testutil.NewTxRunner(store), motor, repos.Consolidados, store.Servicios(), repos.Insumos, 30)
	return &env{store: store, motor: motor, uc: uc}
}

func (e *env) seedStock(t *testing.T, loteID, insumoID, cantidad, costo string, vence time.Time) {
	t.Helper()
	repos := e.store.RepoSet()
	lote := &entity.Lote{
		ID:                   loteID,
		InsumoPresentacionID: insumoID,
		NumeroLote:           "NL-" + loteID,
		CostoUnitario:        d(costo),
		FechaVencimiento:     vence,
		Estado:               entity.LoteDisponible,
		CreadoEn:             time.Now().Add(-time.Hour),
	}
	require.NoError(t, repos.Lotes.Create(lote))
	doc := kardex.DocRef{Tipo: entity.DocIngreso, ID: "FAC-SEED"}
	require.NoError(t, e.motor.RegistrarEntradaEnTx(repos, lote, d(cantidad), d(costo), time.Now(), doc, "seed"))
}

func baseRequest(lineas ...dto.ConsolidadoLineaRequest) dto.CreateConsolidadoRequest {
	return dto.CreateConsolidadoRequest{
		ServicioID: "srv-1",
		Fecha:      time.Now(),
		Turno:      entity.TurnoDia,
		Lineas:     lineas,
	}
}

func TestCrear_AgregaPorInsumoYDescuentaFEFO(t *testing.T) {
	e := setup(t)
	vence := time.Now().AddDate(0, 6, 0)
	e.seedStock(t, "L1", "ins-1", "20", "2.00", vence)

	// Dos camas consumen el mismo insumo: la salida de kardex es una sola
	// por el agregado (3 + 4 = 7), el detalle conserva el desglose por cama.
	cons, err := e.uc.Crear(context.Background(), "enf-1", baseRequest(
		dto.ConsolidadoLineaRequest{Cama: 1, PacienteRef: "HC-001", InsumoPresentacionID: "ins-1", Cantidad: d("3")},
		dto.ConsolidadoLineaRequest{Cama: 2, PacienteRef: "HC-002", InsumoPresentacionID: "ins-1", Cantidad: d("4")},
	))
	require.NoError(t, err)
	assert.Equal(t, entity.ConsolidadoActivo, cons.Estado)
	require.Len(t, cons.Detalles, 2, "el detalle por cama se conserva")

	saldo, err := e.store.RepoSet().Saldos.Get("ins-1")
	require.NoError(t, err)
	assert.True(t, saldo.Cantidad.Equal(d("13")), "20 - 7 = 13")

	movs, _ := e.store.RepoSet().Movimientos.ListByInsumo("ins-1", nil, nil, 50, 0)
	salidas := 0
	for _, m := range movs {
		if m.Tipo == entity.MovimientoSalida {
			salidas++
			assert.Equal(t, entity.DocConsolidado, m.DocTipo)
			assert.Equal(t, cons.ID, m.DocID)
			assert.True(t, m.Cantidad.Equal(d("-7")), "la salida es por el agregado")
		}
	}
	assert.Equal(t, 1, salidas)
}

func TestCrear_ValidaTurnoYCama(t *testing.T) {
	e := setup(t)
	vence := time.Now().AddDate(0, 6, 0)
	e.seedStock(t, "L1", "ins-1", "20", "2.00", vence)

	in := baseRequest(dto.ConsolidadoLineaRequest{Cama: 1, PacienteRef: "HC-001", InsumoPresentacionID: "ins-1", Cantidad: d("1")})
	in.Turno = "TARDE"
	_, err := e.uc.Crear(context.Background(), "enf-1", in)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida, "turno debe ser DIA o NOCHE")

	// srv-1 tiene 10 camas: cama 11 fuera de rango.
	_, err = e.uc.Crear(context.Background(), "enf-1", baseRequest(
		dto.ConsolidadoLineaRequest{Cama: 11, PacienteRef: "HC-001", InsumoPresentacionID: "ins-1", Cantidad: d("1")},
	))
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)

	_, err = e.uc.Crear(context.Background(), "enf-1", baseRequest(
		dto.ConsolidadoLineaRequest{Cama: 0, PacienteRef: "HC-001", InsumoPresentacionID: "ins-1", Cantidad: d("1")},
	))
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestCrear_StockInsuficiente_NoPersisteNada(t *testing.T) {
	e := setup(t)
	vence := time.Now().AddDate(0, 6, 0)
	e.seedStock(t, "L1", "ins-1", "5", "2.00", vence)

	_, err := e.uc.Crear(context.Background(), "enf-1", baseRequest(
		dto.ConsolidadoLineaRequest{Cama: 1, PacienteRef: "HC-001", InsumoPresentacionID: "ins-1", Cantidad: d("6")},
	))
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)

	saldo, _ := e.store.RepoSet().Saldos.Get("ins-1")
	assert.True(t, saldo.Cantidad.Equal(d("5")), "el saldo no debe moverse")

	list, err := e.store.RepoSet().Consolidados.List("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list, "el consolidado no debe quedar creado")
}

func TestCerrar_SoloDesdeActivo(t *testing.T) {
	e := setup(t)
	vence := time.Now().AddDate(0, 6, 0)
	e.seedStock(t, "L1", "ins-1", "20", "2.00", vence)

	cons, err := e.uc.Crear(context.Background(), "enf-1", baseRequest(
		dto.ConsolidadoLineaRequest{Cama: 1, PacienteRef: "HC-001", InsumoPresentacionID: "ins-1", Cantidad: d("2")},
	))
	require.NoError(t, err)

	cerrado, err := e.uc.Cerrar(context.Background(), "bod-1", cons.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ConsolidadoCerrado, cerrado.Estado)
	assert.Equal(t, "bod-1", cerrado.CerradoPor)
	require.NotNil(t, cerrado.CerradoEn)

	_, err = e.uc.Cerrar(context.Background(), "bod-1", cons.ID)
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida, "cerrar dos veces debe fallar")
}

func TestAnular_MarcaSinRevertirSalidas(t *testing.T) {
	e := setup(t)
	vence := time.Now().AddDate(0, 6, 0)
	e.seedStock(t, "L1", "ins-1", "20", "2.00", vence)

	cons, err := e.uc.Crear(context.Background(), "enf-1", baseRequest(
		dto.ConsolidadoLineaRequest{Cama: 1, PacienteRef: "HC-001", InsumoPresentacionID: "ins-1", Cantidad: d("7")},
	))
	require.NoError(t, err)

	anulado, err := e.uc.Anular(context.Background(), "bod-1", cons.ID, "registro equivocado")
	require.NoError(t, err)
	assert.Equal(t, entity.ConsolidadoAnulado, anulado.Estado)
	assert.Equal(t, "registro equivocado", anulado.MotivoAnula)

	// Anular solo marca: las salidas ya registradas quedan.
	saldo, _ := e.store.RepoSet().Saldos.Get("ins-1")
	assert.True(t, saldo.Cantidad.Equal(d("13")), "anular no devuelve stock")

	// Idempotencia defensiva: anular de nuevo falla por transición.
	_, err = e.uc.Anular(context.Background(), "bod-1", cons.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrTransicionInvalida)
}

func TestAnular_RequiereMotivo(t *testing.T) {
	e := setup(t)
	vence := time.Now().AddDate(0, 6, 0)
	e.seedStock(t, "L1", "ins-1", "20", "2.00", vence)

	cons, err := e.uc.Crear(context.Background(), "enf-1", baseRequest(
		dto.ConsolidadoLineaRequest{Cama: 1, PacienteRef: "HC-001", InsumoPresentacionID: "ins-1", Cantidad: d("1")},
	))
	require.NoError(t, err)

	_, err = e.uc.Anular(context.Background(), "bod-1", cons.ID, "")
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}
