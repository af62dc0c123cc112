package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de kardex.
const (
	MovimientoEntrada = "ENTRADA"
	MovimientoSalida  = "SALIDA"
	MovimientoAjuste  = "AJUSTE" // corrección de cuadre, sin lote
)

// Tipos de documento de origen de un movimiento.
const (
	DocIngreso     = "INGRESO"
	DocRequisicion = "REQUISICION"
	DocConsolidado = "CONSOLIDADO"
	DocCuadre      = "CUADRE"
)

// Movimiento es un registro inmutable del kardex. El saldo y el costo promedio
// de un insumo siempre son derivables reproduciendo sus movimientos ordenados
// por (Fecha, Secuencia); la tabla de saldos es una caché materializada, nunca
// la fuente de verdad. Las correcciones son movimientos opuestos nuevos, jamás
// ediciones.
type Movimiento struct {
	ID                   string
	Secuencia            int64 // orden de inserción asignado por la DB, desempate estable
	Tipo                 string
	InsumoPresentacionID string
	LoteID               *string // nil para AJUSTE (correcciones sin lote)
	Cantidad             decimal.Decimal // con signo: ENTRADA +, SALIDA -, AJUSTE ±
	CostoUnitario        decimal.Decimal
	CostoTotal           decimal.Decimal
	Fecha                time.Time
	DocTipo              string
	DocID                string
	CreadoEn             time.Time
	CreadoPor            string
}

// Saldo es la caché materializada del balance y costo promedio ponderado de un
// insumo. Reconstruible desde movimientos para auditoría.
type Saldo struct {
	InsumoPresentacionID string
	Cantidad             decimal.Decimal
	CostoPromedio        decimal.Decimal
	ActualizadoEn        time.Time
}
