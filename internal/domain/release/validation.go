package release

import "strings"

// ValidateRecordInput validates fields required to record a release.
func ValidateRecordInput(req RecordRequest) error {
	if strings.TrimSpace(req.EquipmentCode) == "" {
		return ErrInvalidInput
	}
	if req.CompletionType != CompletionTotal && req.CompletionType != CompletionPartial {
		return ErrInvalidInput
	}
	if req.LinkedWeekScheduleID == "" && (req.LinkedWeekNumber < 1 || req.LinkedYear == 0) {
		return ErrInvalidInput
	}
	for _, wo := range req.WorkOrdersCompleted {
		if strings.TrimSpace(wo.Number) == "" {
			return ErrInvalidInput
		}
	}
	for _, a := range req.ActivitiesNotCompleted {
		if strings.TrimSpace(a.WorkOrderNumber) == "" {
			return ErrInvalidInput
		}
	}
	return nil
}
