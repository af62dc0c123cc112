package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IniciarCuadreRequest body para POST /api/cuadres.
type IniciarCuadreRequest struct {
	Turnista      string `json:"turnista" validate:"required"`
	Bodeguero     string `json:"bodeguero" validate:"required"`
	Observaciones string `json:"observaciones"`
}

// RegistrarConteoRequest body para PUT /api/cuadres/:id/conteos/:detalleId.
type RegistrarConteoRequest struct {
	CantidadFisica decimal.Decimal `json:"cantidad_fisica"`
}

// EnrolarInsumoCuadreRequest body para POST /api/cuadres/insumos.
type EnrolarInsumoCuadreRequest struct {
	InsumoPresentacionID string          `json:"insumo_presentacion_id" validate:"required"`
	Modo                 string          `json:"modo" validate:"required,oneof=KARDEX CUOTA_FIJA"`
	CuotaFija            decimal.Decimal `json:"cuota_fija"`
}

// CuadreDetalleResponse línea de cuadre en respuestas. CantidadFisica viaja
// nula mientras la línea no se haya contado.
type CuadreDetalleResponse struct {
	ID                   string           `json:"id"`
	InsumoPresentacionID string           `json:"insumo_presentacion_id"`
	Teorico              decimal.Decimal  `json:"teorico"`
	CantidadFisica       *decimal.Decimal `json:"cantidad_fisica,omitempty"`
	Diferencia           *decimal.Decimal `json:"diferencia,omitempty"`
}

// CuadreResponse cabecera + detalles de una sesión de cuadre.
type CuadreResponse struct {
	ID            string                  `json:"id"`
	Fecha         time.Time               `json:"fecha"`
	Turnista      string                  `json:"turnista"`
	Bodeguero     string                  `json:"bodeguero"`
	Observaciones string                  `json:"observaciones,omitempty"`
	Estado        string                  `json:"estado"`
	Detalles      []CuadreDetalleResponse `json:"detalles"`
}
