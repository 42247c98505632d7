package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Messages returned to storefront clients.
const (
	MsgOrderCreated     = "Orden creada exitosamente"
	MsgOrderFailed      = "Error al procesar la orden"
	MsgProductsFailed   = "Error al obtener productos"
	MsgProductNotFound  = "Producto no encontrado"
	MsgOrderNotFound    = "Orden no encontrada"
	MsgMailDisabled     = "Falta RESEND_API_KEY en el .env"
	MsgInvalidJSON      = "Cuerpo de la solicitud inválido"
	MsgInvalidOrderID   = "Identificador de orden inválido"
	MsgNameRequired     = "El nombre es requerido"
	MsgPhoneRequired    = "Teléfono válido es requerido"
	MsgEmailInvalid     = "Correo electrónico inválido"
	MsgItemsRequired    = "La orden debe contener al menos un producto"
	MsgTotalMismatch    = "El total no coincide con los productos"
	MsgInvalidTotal     = "El total debe ser mayor o igual a cero"
	MsgInvalidQuantity  = "La cantidad debe ser mayor que cero"
	MsgInvalidPrice     = "El precio debe ser mayor o igual a cero"
	MsgProductIDMissing = "El producto es requerido"
	MsgInternal         = "Error interno del servidor"
)

// Sentinel errors for lookups.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// ValidationError reports bad or missing input. Nothing has been persisted
// when it is returned and the caller can correct the input and retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// PersistenceError reports a failed order transaction. The transaction has
// been rolled back, so resubmitting the same order is safe.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotificationError reports a failed best-effort notification. It is only
// ever logged.
type NotificationError struct {
	Channel string
	Err     error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification %s: %v", e.Channel, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
