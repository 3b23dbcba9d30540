package domain

import "time"

// CommissionContract is the terms document shown to organizers of paid events
type CommissionContract struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommissionRange maps a ticket-count interval to a fee percentage.
// A nil MaxTickets means the range is open-ended.
type CommissionRange struct {
	ID         string    `json:"id"`
	MinTickets int       `json:"min_tickets"`
	MaxTickets *int      `json:"max_tickets"`
	Percentage float64   `json:"percentage"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks the bounds of a range in isolation
func (r *CommissionRange) Validate() error {
	if r.MinTickets < 1 || (r.MaxTickets != nil && *r.MaxTickets < r.MinTickets) {
		return ErrInvalidRangeBounds
	}
	if r.Percentage < 0 || r.Percentage > 100 {
		return ErrInvalidPercentage
	}
	return nil
}

// upper returns the inclusive upper bound, treating open ranges as unbounded
func (r *CommissionRange) upper() int {
	if r.MaxTickets == nil {
		return int(^uint(0) >> 1)
	}
	return *r.MaxTickets
}

// Overlaps reports whether two ranges share at least one ticket count
func (r *CommissionRange) Overlaps(other *CommissionRange) bool {
	return r.MinTickets <= other.upper() && other.MinTickets <= r.upper()
}

// RangeAction is the kind of change recorded in range history
type RangeAction string

const (
	RangeActionCreated     RangeAction = "created"
	RangeActionUpdated     RangeAction = "updated"
	RangeActionDeactivated RangeAction = "deactivated"
)

// CommissionRangeHistory is an audit row written alongside every range change
type CommissionRangeHistory struct {
	ID        string           `json:"id"`
	RangeID   string           `json:"range_id"`
	Action    RangeAction      `json:"action"`
	Snapshot  *CommissionRange `json:"snapshot"`
	ChangedBy string           `json:"changed_by"`
	ChangedAt time.Time        `json:"changed_at"`
}

// FindOverlap returns the first active range that shares ticket counts with
// candidate, ignoring candidate's own row
func FindOverlap(candidate *CommissionRange, active []*CommissionRange) *CommissionRange {
	for _, r := range active {
		if r.ID == candidate.ID || !r.IsActive {
			continue
		}
		if r.Overlaps(candidate) {
			return r
		}
	}
	return nil
}
