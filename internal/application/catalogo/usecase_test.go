package catalogo_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalsr/farmacia-api/internal/application/catalogo"
	"github.com/hospitalsr/farmacia-api/internal/application/dto"
	"github.com/hospitalsr/farmacia-api/internal/domain"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
	"github.com/hospitalsr/farmacia-api/internal/testutil"
)

func setup(t *testing.T) (*testutil.Store, *catalogo.UseCase) {
	t.Helper()
	store := testutil.NewStore()
	repos := store.RepoSet()
	uc := catalogo.NewUseCase(repos.Insumos, repos.Lotes, store.Servicios())
	return store, uc
}

func TestCrearInsumo(t *testing.T) {
	_, uc := setup(t)

	insumo, err := uc.CrearInsumo(context.Background(), dto.CreateInsumoRequest{
		Nombre:         "Dipirona",
		Presentacion:   "ampolla",
		UnidadMedida:   "1g/2ml",
		PrecioUnitario: decimal.RequireFromString("3.50"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, insumo.ID)
	assert.True(t, insumo.Activo, "los insumos nacen activos")

	guardado, err := uc.GetInsumo(context.Background(), insumo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dipirona", guardado.Nombre)

	_, err = uc.CrearInsumo(context.Background(), dto.CreateInsumoRequest{Nombre: "sin presentación"})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestGetInsumo_NoExiste(t *testing.T) {
	_, uc := setup(t)
	_, err := uc.GetInsumo(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}

func TestListInsumos_SoloActivos(t *testing.T) {
	store, uc := setup(t)
	repos := store.RepoSet()
	require.NoError(t, repos.Insumos.Create(&entity.InsumoPresentacion{ID: "a", Nombre: "A", Presentacion: "p", UnidadMedida: "u", Activo: true}))
	require.NoError(t, repos.Insumos.Create(&entity.InsumoPresentacion{ID: "b", Nombre: "B", Presentacion: "p", UnidadMedida: "u", Activo: false}))

	todos, err := uc.ListInsumos(context.Background(), false, 50, 0)
	require.NoError(t, err)
	assert.Len(t, todos, 2)

	activos, err := uc.ListInsumos(context.Background(), true, 50, 0)
	require.NoError(t, err)
	require.Len(t, activos, 1)
	assert.Equal(t, "a", activos[0].ID)
}

func TestListLotes(t *testing.T) {
	store, uc := setup(t)
	repos := store.RepoSet()
	require.NoError(t, repos.Insumos.Create(&entity.InsumoPresentacion{ID: "ins-1", Nombre: "A", Presentacion: "p", UnidadMedida: "u", Activo: true}))
	require.NoError(t, repos.Lotes.Create(&entity.Lote{
		ID: "L1", InsumoPresentacionID: "ins-1", NumeroLote: "NL-1",
		Cantidad:         decimal.RequireFromString("10"),
		CostoUnitario:    decimal.RequireFromString("2"),
		FechaVencimiento: time.Now().AddDate(1, 0, 0),
		Estado:           entity.LoteDisponible,
	}))

	lotes, err := uc.ListLotes(context.Background(), "ins-1")
	require.NoError(t, err)
	require.Len(t, lotes, 1)
	assert.Equal(t, "NL-1", lotes[0].NumeroLote)

	_, err = uc.ListLotes(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}

func TestCrearServicio(t *testing.T) {
	_, uc := setup(t)

	servicio, err := uc.CrearServicio(context.Background(), "Urgencias", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, servicio.Camas)
	assert.True(t, servicio.Activo)

	_, err = uc.CrearServicio(context.Background(), "", 20)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida, "nombre obligatorio")

	_, err = uc.CrearServicio(context.Background(), "Pediatría", 0)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida, "camas debe ser positivo")

	lista, err := uc.ListServicios(context.Background(), 50, 0)
	require.NoError(t, err)
	assert.Len(t, lista, 1)
}
