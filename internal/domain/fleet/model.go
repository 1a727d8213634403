package fleet

import (
	"strings"
	"time"
)

// FleetOrder is the ordered list of fleets used to sort a weekly schedule. Each
// saved change bumps Version.
type FleetOrder struct {
	Fleets    []string  `json:"fleets"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Index returns the position of fleet in the order, case-insensitively. Unknown
// fleets sort after every known one.
func (o FleetOrder) Index(fleet string) int {
	name := strings.TrimSpace(fleet)
	for i, f := range o.Fleets {
		if strings.EqualFold(f, name) {
			return i
		}
	}
	return len(o.Fleets)
}

// Contains reports whether fleet is part of the order.
func (o FleetOrder) Contains(fleet string) bool {
	return o.Index(fleet) < len(o.Fleets)
}

// Clone returns a deep copy so callers can never mutate a shared order.
func (o FleetOrder) Clone() FleetOrder {
	fleets := make([]string, len(o.Fleets))
	copy(fleets, o.Fleets)
	return FleetOrder{Fleets: fleets, Version: o.Version, UpdatedAt: o.UpdatedAt}
}
