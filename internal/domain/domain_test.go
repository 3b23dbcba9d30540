package domain

import (
	"errors"
	"fmt"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestCommissionRange_Validate(t *testing.T) {
	tests := []struct {
		name    string
		r       CommissionRange
		wantErr error
	}{
		{"valid closed", CommissionRange{MinTickets: 1, MaxTickets: intPtr(100), Percentage: 10}, nil},
		{"valid open", CommissionRange{MinTickets: 101, Percentage: 8}, nil},
		{"single value", CommissionRange{MinTickets: 5, MaxTickets: intPtr(5), Percentage: 0}, nil},
		{"zero min", CommissionRange{MinTickets: 0, Percentage: 5}, ErrInvalidRangeBounds},
		{"max below min", CommissionRange{MinTickets: 10, MaxTickets: intPtr(9), Percentage: 5}, ErrInvalidRangeBounds},
		{"negative pct", CommissionRange{MinTickets: 1, Percentage: -1}, ErrInvalidPercentage},
		{"pct over 100", CommissionRange{MinTickets: 1, Percentage: 100.5}, ErrInvalidPercentage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.r.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCommissionRange_Overlaps(t *testing.T) {
	low := &CommissionRange{MinTickets: 1, MaxTickets: intPtr(100)}
	mid := &CommissionRange{MinTickets: 101, MaxTickets: intPtr(500)}
	open := &CommissionRange{MinTickets: 400}
	edge := &CommissionRange{MinTickets: 100, MaxTickets: intPtr(100)}

	tests := []struct {
		a, b *CommissionRange
		want bool
	}{
		{low, mid, false},
		{mid, open, true},
		{low, open, false},
		{low, edge, true},
		{open, &CommissionRange{MinTickets: 1000}, true},
	}

	for i, tt := range tests {
		if got := tt.a.Overlaps(tt.b); got != tt.want {
			t.Errorf("case %d: Overlaps() = %v, want %v", i, got, tt.want)
		}
		if got := tt.b.Overlaps(tt.a); got != tt.want {
			t.Errorf("case %d: Overlaps() not symmetric", i)
		}
	}
}

func TestParseEventStatus(t *testing.T) {
	for _, s := range []string{"pending", "approved", "rejected"} {
		if _, err := ParseEventStatus(s); err != nil {
			t.Errorf("ParseEventStatus(%q) error = %v", s, err)
		}
	}
	if _, err := ParseEventStatus("published"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestErrorClassifiers(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", ErrEventNotFound)

	if !IsNotFoundError(wrapped) {
		t.Error("wrapped ErrEventNotFound should be a not found error")
	}
	if !IsForbiddenError(ErrNotEventOwner) {
		t.Error("ErrNotEventOwner should be forbidden")
	}
	if !IsValidationError(ErrRangeOverlap) {
		t.Error("ErrRangeOverlap should be a validation error")
	}
	if IsNotFoundError(ErrPermissionDenied) {
		t.Error("ErrPermissionDenied is not a not found error")
	}
}

func TestActor_IsAdmin(t *testing.T) {
	if !(Actor{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin actor not detected")
	}
	if (Actor{Role: RoleManager}).IsAdmin() {
		t.Error("manager reported as admin")
	}
	var p *Profile
	if p.IsAdmin() {
		t.Error("nil profile reported as admin")
	}
}

func TestFindOverlap(t *testing.T) {
	active := []*CommissionRange{
		{ID: "r1", MinTickets: 1, MaxTickets: intPtr(100), IsActive: true},
		{ID: "r2", MinTickets: 101, MaxTickets: intPtr(500), IsActive: true},
		{ID: "r3", MinTickets: 501, IsActive: false},
	}

	tests := []struct {
		name      string
		candidate *CommissionRange
		wantID    string
	}{
		{"gap free", &CommissionRange{MinTickets: 501}, ""},
		{"collides with first", &CommissionRange{MinTickets: 50, MaxTickets: intPtr(60)}, "r1"},
		{"touches upper bound", &CommissionRange{MinTickets: 500, MaxTickets: intPtr(600)}, "r2"},
		{"own row ignored", &CommissionRange{ID: "r1", MinTickets: 1, MaxTickets: intPtr(90)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindOverlap(tt.candidate, active)
			if tt.wantID == "" {
				if got != nil {
					t.Errorf("FindOverlap() = %s, want nil", got.ID)
				}
				return
			}
			if got == nil || got.ID != tt.wantID {
				t.Errorf("FindOverlap() = %v, want %s", got, tt.wantID)
			}
		})
	}
}
