package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestFetchActiveContract(t *testing.T) {
	now := time.Now()
	older := &domain.CommissionContract{ID: "c1", UpdatedAt: now.Add(-time.Hour)}
	newer := &domain.CommissionContract{ID: "c2", UpdatedAt: now}

	tests := []struct {
		name      string
		contracts []*domain.CommissionContract
		setActive []string
		wantID    string
	}{
		{"single active row", []*domain.CommissionContract{older, newer}, []string{"c1"}, "c1"},
		{"no active row falls back to latest", []*domain.CommissionContract{older, newer}, nil, "c2"},
		{"several active rows fall back to latest", []*domain.CommissionContract{older, newer}, []string{"c1", "c2"}, "c2"},
		{"no rows at all", nil, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, c := range tt.contracts {
				c.IsActive = false
				for _, id := range tt.setActive {
					if c.ID == id {
						c.IsActive = true
					}
				}
			}
			svc := NewContractService(&MockContractRepository{contracts: tt.contracts}, &MockCommissionRangeRepository{}, nil, 0)

			got, err := svc.FetchActiveContract(context.Background())
			if err != nil {
				t.Fatalf("FetchActiveContract() error = %v", err)
			}
			if tt.wantID == "" {
				if got != nil {
					t.Errorf("FetchActiveContract() = %s, want nil", got.ID)
				}
				return
			}
			if got == nil || got.ID != tt.wantID {
				t.Errorf("FetchActiveContract() = %v, want %s", got, tt.wantID)
			}
		})
	}
}

func TestFetchActiveContract_Errors(t *testing.T) {
	denied := fmt.Errorf("%w: permission denied for table event_contracts", domain.ErrPermissionDenied)
	svc := NewContractService(&MockContractRepository{listErr: denied}, &MockCommissionRangeRepository{}, nil, 0)

	_, err := svc.FetchActiveContract(context.Background())
	assert.ErrorIs(t, err, ErrContractPermissionDenied)

	svc = NewContractService(&MockContractRepository{listErr: errors.New("timeout")}, &MockCommissionRangeRepository{}, nil, 0)
	_, err = svc.FetchActiveContract(context.Background())
	var ge *GatewayError
	assert.ErrorAs(t, err, &ge)
}

func TestFetchActiveContract_SharedLookupIgnoresCallerCancel(t *testing.T) {
	svc := NewContractService(&MockContractRepository{contracts: []*domain.CommissionContract{activeContract()}}, &MockCommissionRangeRepository{}, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := svc.FetchActiveContract(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, activeContract().ID, got.ID)

	got, err = svc.FetchActiveContract(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got, "a cancelled caller must not poison later lookups")
}

func TestFetchActiveCommissionRanges(t *testing.T) {
	repo := &MockCommissionRangeRepository{ranges: []*domain.CommissionRange{
		{ID: "r1", MinTickets: 1, MaxTickets: intPtr(100), Percentage: 10, IsActive: true},
		{ID: "r2", MinTickets: 101, Percentage: 8, IsActive: false},
	}}
	svc := NewContractService(&MockContractRepository{}, repo, nil, 0)

	ranges := svc.FetchActiveCommissionRanges(context.Background())
	require.Len(t, ranges, 1)
	assert.Equal(t, "r1", ranges[0].ID)

	repo.listErr = errors.New("permission denied")
	ranges = svc.FetchActiveCommissionRanges(context.Background())
	assert.NotNil(t, ranges)
	assert.Empty(t, ranges)
}

func TestRenderContract(t *testing.T) {
	contract := activeContract()
	ranges := []*domain.CommissionRange{
		{MinTickets: 1, MaxTickets: intPtr(100), Percentage: 10},
		{MinTickets: 101, Percentage: 7.5},
	}

	html := RenderContract(contract, ranges)
	assert.True(t, strings.HasPrefix(html, "<p>Fees</p><table"))
	assert.Contains(t, html, "<td>1 to 100</td><td>10.00%</td>")
	assert.Contains(t, html, "<td>101 or more</td><td>7.50%</td>")
	assert.NotContains(t, html, CommissionRangesPlaceholder)

	empty := RenderContract(contract, nil)
	assert.Equal(t, "<p>Fees</p>No commission ranges configured.", empty)

	assert.Empty(t, RenderContract(nil, ranges))
}

func TestContractAdministration(t *testing.T) {
	repo := &MockContractRepository{}
	svc := NewContractService(repo, &MockCommissionRangeRepository{}, nil, 0)
	ctx := context.Background()

	first, err := svc.CreateContract(ctx, "  Terms v1 ", "<p>v1</p>")
	require.NoError(t, err)
	assert.Equal(t, "Terms v1", first.Title)
	assert.False(t, first.IsActive)

	second, err := svc.CreateContract(ctx, "Terms v2", "<p>v2</p>")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	_, err = svc.ActivateContract(ctx, first.ID)
	require.NoError(t, err)
	active, err := svc.ActivateContract(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, active.IsActive)
	assert.False(t, first.IsActive, "activating one contract deactivates the others")

	_, err = svc.GetContract(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrContractNotFound)
	_, err = svc.ActivateContract(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrContractNotFound)

	updated, err := svc.UpdateContract(ctx, second.ID, "Terms v2.1", "<p>v2.1</p>")
	require.NoError(t, err)
	assert.Equal(t, "Terms v2.1", updated.Title)
}

func TestCommissionService(t *testing.T) {
	repo := &MockCommissionRangeRepository{}
	svc := NewCommissionService(repo, nil)
	admin := domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	ctx := context.Background()

	_, err := svc.CreateRange(ctx, admin, &domain.CommissionRange{MinTickets: 10, MaxTickets: intPtr(5), Percentage: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidRangeBounds)
	_, err = svc.CreateRange(ctx, admin, &domain.CommissionRange{MinTickets: 1, Percentage: 120})
	assert.ErrorIs(t, err, domain.ErrInvalidPercentage)
	assert.Zero(t, repo.createCalls, "invalid ranges never reach the repository")

	r, err := svc.CreateRange(ctx, admin, &domain.CommissionRange{MinTickets: 1, MaxTickets: intPtr(100), Percentage: 10})
	require.NoError(t, err)
	assert.True(t, r.IsActive)

	_, err = svc.CreateRange(ctx, admin, &domain.CommissionRange{MinTickets: 50, Percentage: 8})
	assert.ErrorIs(t, err, domain.ErrRangeOverlap)

	_, err = svc.DeactivateRange(ctx, admin, r.ID)
	require.NoError(t, err)

	history, err := svc.ListHistory(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RangeActionDeactivated, history[1].Action)
	assert.Equal(t, "admin-1", history[1].ChangedBy)

	_, err = svc.UpdateRange(ctx, admin, &domain.CommissionRange{ID: "missing", MinTickets: 1, Percentage: 1})
	assert.ErrorIs(t, err, domain.ErrRangeNotFound)

	_, err = svc.ListHistory(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRangeNotFound)
}
