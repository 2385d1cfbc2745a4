package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrConcurrency: deadlock o espera de bloqueo agotada. Reintentar la operación completa es seguro.
	ErrConcurrency = errors.New("conflicto de concurrencia, reintente")
	// ErrPersistence: el almacenamiento no está disponible o falló de forma inesperada.
	ErrPersistence = errors.New("falla de persistencia")
)

// ValidationError describe un dato de entrada mal formado. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError detalla qué par material/bodega se habría ido a negativo.
type InsufficientStockError struct {
	ItemID      string
	WarehouseID string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s para %s en %s: %s - %s < 0",
		ErrInsufficientStock, e.ItemID, e.WarehouseID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// IsRetryable indica si el llamador puede repetir la operación completa.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrency)
}
