package card

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates missing or malformed card fields.
	ErrInvalidInput = errors.New("invalid card input")
	// ErrCardNotFound indicates the card does not exist.
	ErrCardNotFound = errors.New("card not found")
	// ErrActiveCardExists indicates the equipment already has an active
	// preventive card.
	ErrActiveCardExists = errors.New("equipment already has an active preventive card")
	// ErrInvalidTransition indicates a status change the card cannot make.
	ErrInvalidTransition = errors.New("invalid card status transition")
)

// ActiveCardError is returned when the one-active-card guard refuses a card.
// Existing is nil when the refusal came from storage rather than the read.
type ActiveCardError struct {
	EquipmentCode string
	Existing      *MaintenanceCard
}

func (e *ActiveCardError) Error() string {
	if e.Existing != nil {
		return fmt.Sprintf("equipment %s already has active preventive card %s", e.EquipmentCode, e.Existing.ID)
	}
	return fmt.Sprintf("equipment %s already has an active preventive card", e.EquipmentCode)
}

func (e *ActiveCardError) Unwrap() error {
	return ErrActiveCardExists
}
