package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de cuadre. Lineal: INICIADO -> CONTEO -> FINALIZADO.
const (
	CuadreIniciado   = "INICIADO"
	CuadreConteo     = "CONTEO"
	CuadreFinalizado = "FINALIZADO"
)

// Modos de cantidad teórica por insumo vigilado.
const (
	ModoKardex    = "KARDEX"     // teórico = saldo actual del kardex
	ModoCuotaFija = "CUOTA_FIJA" // teórico = cuota fija configurada (stock 24h)
)

// Cuadre es una sesión de conteo físico que concilia el saldo en libros contra
// el conteo real de los insumos vigilados y registra ajustes correctivos al
// finalizar. Una vez FINALIZADO es inmutable.
type Cuadre struct {
	ID            string
	Fecha         time.Time
	Turnista      string
	Bodeguero     string
	Observaciones string
	Estado        string
	CreadoEn      time.Time
	ActualizadoEn time.Time
	Detalles      []*CuadreDetalle
}

// Conteo es el estado explícito de conteo de una línea: sin contar o contado
// con la cantidad física. Evita el centinela "cantidad nula" y hace total la
// verificación de completitud al finalizar.
type Conteo struct {
	Contado bool
	Fisica  decimal.Decimal
}

// CuadreDetalle es una línea de la sesión: una por insumo vigilado.
// Teorico se toma al iniciar la sesión (saldo de kardex o cuota fija según el
// modo del insumo). Diferencia = Fisica - Teorico, derivada al contar.
type CuadreDetalle struct {
	ID                   string
	CuadreID             string
	InsumoPresentacionID string
	Teorico              decimal.Decimal
	Conteo               Conteo
	Diferencia           decimal.Decimal
}

// CuadreInsumo es la inscripción de un insumo en la lista de vigilancia del
// cuadre, con su modo de teórico y la cuota fija si aplica.
type CuadreInsumo struct {
	InsumoPresentacionID string
	Modo                 string
	CuotaFija            decimal.Decimal
	CreadoEn             time.Time
}
