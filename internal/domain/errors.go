package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNoEncontrado       = errors.New("recurso no encontrado")
	ErrEntradaInvalida    = errors.New("entrada inválida")
	ErrDuplicado          = errors.New("recurso duplicado")
	ErrNoAutorizado       = errors.New("no autorizado")
	ErrAccesoDenegado     = errors.New("acceso denegado")
	ErrStockInsuficiente  = errors.New("stock insuficiente")
	ErrTransicionInvalida = errors.New("transición de estado inválida")
	ErrConteoIncompleto   = errors.New("cuadre con líneas sin contar")
	ErrConflicto          = errors.New("conflicto de concurrencia, reintentar la operación")
)
