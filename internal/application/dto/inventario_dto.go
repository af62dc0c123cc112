package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInsumoRequest body para POST /api/insumos.
type CreateInsumoRequest struct {
	Nombre         string          `json:"nombre" validate:"required"`
	Presentacion   string          `json:"presentacion" validate:"required"`
	UnidadMedida   string          `json:"unidad_medida" validate:"required"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

// InsumoResponse representación HTTP de un insumo-presentación.
type InsumoResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	Presentacion   string          `json:"presentacion"`
	UnidadMedida   string          `json:"unidad_medida"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Activo         bool            `json:"activo"`
}

// IngresoLineaRequest línea de un ingreso a bodega: crea un lote nuevo.
type IngresoLineaRequest struct {
	InsumoPresentacionID string          `json:"insumo_presentacion_id" validate:"required"`
	NumeroLote           string          `json:"numero_lote" validate:"required"`
	Cantidad             decimal.Decimal `json:"cantidad"`
	CostoUnitario        decimal.Decimal `json:"costo_unitario"`
	FechaVencimiento     time.Time       `json:"fecha_vencimiento" validate:"required"`
}

// RegistrarIngresoRequest body para POST /api/ingresos.
type RegistrarIngresoRequest struct {
	ProveedorRef string                `json:"proveedor_ref"`
	Documento    string                `json:"documento" validate:"required"`
	Lineas       []IngresoLineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// LoteResponse representación HTTP de un lote.
type LoteResponse struct {
	ID               string          `json:"id"`
	NumeroLote       string          `json:"numero_lote"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	CostoUnitario    decimal.Decimal `json:"costo_unitario"`
	FechaVencimiento time.Time       `json:"fecha_vencimiento"`
	Estado           string          `json:"estado"`
}

// SaldoResponse saldo materializado de un insumo.
type SaldoResponse struct {
	InsumoPresentacionID string          `json:"insumo_presentacion_id"`
	Cantidad             decimal.Decimal `json:"cantidad"`
	CostoPromedio        decimal.Decimal `json:"costo_promedio"`
}

// MovimientoResponse un renglón del kardex.
type MovimientoResponse struct {
	ID            string          `json:"id"`
	Secuencia     int64           `json:"secuencia"`
	Tipo          string          `json:"tipo"`
	LoteID        *string         `json:"lote_id,omitempty"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	CostoTotal    decimal.Decimal `json:"costo_total"`
	Fecha         time.Time       `json:"fecha"`
	DocTipo       string          `json:"doc_tipo"`
	DocID         string          `json:"doc_id"`
}
