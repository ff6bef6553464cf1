package domain

import "time"

type FlatType string

const (
	FlatTypeTwoRoom   FlatType = "TWO_ROOM"
	FlatTypeThreeRoom FlatType = "THREE_ROOM"
)

// FlatTypeInventory tracks unit counts for one flat type within a project.
// Invariant: 0 <= AvailableUnits <= TotalUnits.
type FlatTypeInventory struct {
	FlatType       FlatType `json:"flat_type"`
	TotalUnits     int32    `json:"total_units"`
	AvailableUnits int32    `json:"available_units"`
}

type Project struct {
	ID                    int32               `json:"id"`
	Name                  string              `json:"name"`
	Neighborhood          string              `json:"neighborhood"`
	OpenDate              time.Time           `json:"open_date"`
	CloseDate             time.Time           `json:"close_date"`
	ManagerNRIC           string              `json:"manager_nric"`
	OfficerSlotCapacity   int32               `json:"officer_slot_capacity"`
	AvailableOfficerSlots int32               `json:"available_officer_slots"`
	OfficerNRICs          []string            `json:"officer_nrics"`
	Inventory             []FlatTypeInventory `json:"inventory"`
	Visible               bool                `json:"visible"`
	CreatedOn             string              `json:"created_on"`
}

// Offers reports whether the project carries the given flat type at all.
func (p *Project) Offers(ft FlatType) bool {
	for i := range p.Inventory {
		if p.Inventory[i].FlatType == ft {
			return true
		}
	}
	return false
}

// AvailableUnits returns the available count for the flat type, zero when
// the project does not offer it.
func (p *Project) AvailableUnits(ft FlatType) int32 {
	for i := range p.Inventory {
		if p.Inventory[i].FlatType == ft {
			return p.Inventory[i].AvailableUnits
		}
	}
	return 0
}

// TotalUnits returns the total count for the flat type, zero when the
// project does not offer it.
func (p *Project) TotalUnits(ft FlatType) int32 {
	for i := range p.Inventory {
		if p.Inventory[i].FlatType == ft {
			return p.Inventory[i].TotalUnits
		}
	}
	return 0
}

// IsOpenAt reports whether the application window covers the given instant.
// Both endpoints are inclusive: the close date counts as the last day.
func (p *Project) IsOpenAt(t time.Time) bool {
	return !t.Before(p.OpenDate) && !t.After(p.CloseDate)
}

// WindowOverlaps applies the allocation-window overlap test used by the
// officer registration conflict rules.
func (p *Project) WindowOverlaps(other *Project) bool {
	return !(p.CloseDate.Before(other.OpenDate) || p.OpenDate.After(other.CloseDate))
}
