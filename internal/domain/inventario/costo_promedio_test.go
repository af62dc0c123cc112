package inventario_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hospitalsr/farmacia-api/internal/domain/inventario"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostoPromedio_EntradaRepromedia(t *testing.T) {
	// 10 unidades a 2.00 + entrada de 10 a 4.00 -> promedio 3.00
	nuevo := inventario.CostoPromedio(d("10"), d("2.00"), d("10"), d("4.00"))
	assert.True(t, nuevo.Equal(d("3.00")), "promedio ponderado esperado 3.00, obtuvo %s", nuevo)
}

func TestCostoPromedio_PrimeraEntrada(t *testing.T) {
	// Sin stock previo el promedio es el costo de la entrada.
	nuevo := inventario.CostoPromedio(decimal.Zero, decimal.Zero, d("25"), d("1.50"))
	assert.True(t, nuevo.Equal(d("1.50")))
}

func TestCostoPromedio_EntradaMismoCosto_NoCambia(t *testing.T) {
	nuevo := inventario.CostoPromedio(d("40"), d("0.80"), d("60"), d("0.80"))
	assert.True(t, nuevo.Equal(d("0.80")), "entradas al mismo costo no mueven el promedio")
}

func TestCostoPromedio_SinStockNiEntrada_Cero(t *testing.T) {
	nuevo := inventario.CostoPromedio(decimal.Zero, d("5.00"), decimal.Zero, d("3.00"))
	assert.True(t, nuevo.IsZero(), "sin cantidades el promedio colapsa a cero")
}

func TestCostoPromedio_CantidadesFraccionarias(t *testing.T) {
	// 2.5 a 1.20 + 7.5 a 2.00 -> (3 + 15) / 10 = 1.80
	nuevo := inventario.CostoPromedio(d("2.5"), d("1.20"), d("7.5"), d("2.00"))
	assert.True(t, nuevo.Equal(d("1.80")), "esperado 1.80, obtuvo %s", nuevo)
}
