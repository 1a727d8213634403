package card

import (
	"strings"

	"github.com/ganot/fleetmaint/internal/domain/schedule"
)

// ValidateCreateInput validates fields required to create a card.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.EquipmentCode) == "" {
		return ErrInvalidInput
	}
	switch req.MaintenanceType {
	case schedule.Preventive, schedule.Corrective:
	default:
		return ErrInvalidInput
	}
	return nil
}

// ValidateTransition validates a requested status change.
func ValidateTransition(from, to CardStatus) error {
	switch from {
	case StatusOpen:
		if to == StatusInProgress || to == StatusConcluded {
			return nil
		}
	case StatusInProgress:
		if to == StatusConcluded {
			return nil
		}
	}
	return ErrInvalidTransition
}
