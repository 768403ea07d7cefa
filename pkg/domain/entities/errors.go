package entities

import "errors"

var (
	ErrInvalidQuantity        = errors.New("INVALID_QUANTITY")
	ErrInvalidPackSize        = errors.New("INVALID_PACK_SIZE")
	ErrUnitMismatch           = errors.New("UNIT_MISMATCH")
	ErrUnknownLabel           = errors.New("UNKNOWN_LABEL")
	ErrInvalidStateTransition = errors.New("INVALID_STATE_TRANSITION")
	ErrNegativeReceipt        = errors.New("NEGATIVE_RECEIPT")
	ErrInvalidInput           = errors.New("INVALID_INPUT")

	// ErrNotFound is returned by repositories for missing records
	ErrNotFound = errors.New("not found")
	// ErrOrderNotDraft is returned when freezing lines of a sent or cancelled order
	ErrOrderNotDraft = errors.New("only draft orders can have lines frozen")
	// ErrConflict is returned when a concurrent writer took a unique key first
	ErrConflict = errors.New("conflict")
)
