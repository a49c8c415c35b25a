package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrInvalidState la operación no aplica al estado actual del registro (ej. recibir un traslado ya recibido).
	ErrInvalidState = errors.New("estado inválido para la operación")
	// ErrOverReturn la devolución supera la cantidad pendiente de la factura para el producto.
	ErrOverReturn = errors.New("la devolución excede la cantidad facturada")
	ErrDuplicate  = errors.New("el registro ya existe")
)
