package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/notify"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type eventFixture struct {
	svc       EventService
	store     *MockEventStore
	contracts *MockContractRepository
	lists     *MockListCache
	publisher *MockCatalogPublisher
	locker    *LocalSubmissionLocker
}

func newEventFixture(contracts ...*domain.CommissionContract) *eventFixture {
	companyID := "company-1"
	f := &eventFixture{
		store:     NewMockEventStore(),
		contracts: &MockContractRepository{contracts: contracts},
		lists:     &MockListCache{},
		publisher: &MockCatalogPublisher{},
		locker:    NewLocalSubmissionLocker(),
	}
	profiles := &MockProfileRepository{profiles: map[string]*domain.Profile{
		"manager-1": {ID: "manager-1", Role: domain.RoleManager, CompanyID: &companyID},
	}}
	contractSvc := NewContractService(f.contracts, &MockCommissionRangeRepository{}, nil, 0)
	f.svc = NewEventService(f.store, f.lists, profiles, contractSvc, f.locker, f.publisher, nil, nil)
	return f
}

var manager = domain.Actor{UserID: "manager-1", Role: domain.RoleManager}

const lockTTLForTest = time.Minute

func TestSaveEvent_RejectsBeforePersistence(t *testing.T) {
	unaccepted := validForm(true)
	unaccepted.ContractAccepted = false

	noBatches := validForm(true)
	noBatches.Batches = nil
	noBatches.NumberOfBatches = 0

	incomplete := validForm(true)
	incomplete.Batches = append(incomplete.Batches, wizard.TemplateBatch(1))
	incomplete.NumberOfBatches = 2

	freeUnaccepted := validForm(false)
	freeUnaccepted.ContractAccepted = false

	tests := []struct {
		name     string
		form     *wizard.Form
		contract bool
		wantErr  error
		wantStep wizard.Step
	}{
		{"paid with unaccepted contract", unaccepted, true, ErrContractNotAccepted, wizard.StepContract},
		{"paid without active contract", validForm(true), false, ErrNoActiveContract, wizard.StepPricing},
		{"paid with zero batches", noBatches, true, ErrNoBatches, wizard.StepPricing},
		{"paid with incomplete batch", incomplete, true, ErrIncompleteBatch, wizard.StepPricing},
		{"free with unaccepted contract", freeUnaccepted, true, ErrContractNotAccepted, wizard.StepContract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *eventFixture
			if tt.contract {
				f = newEventFixture(activeContract())
			} else {
				f = newEventFixture()
			}

			_, err := f.svc.SaveEvent(context.Background(), manager, tt.form, "")

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SaveEvent() error = %v, want %v", err, tt.wantErr)
			}
			rv, ok := AsRuleViolation(err)
			if !ok {
				t.Fatalf("SaveEvent() error %T is not a RuleViolation", err)
			}
			if rv.Step != tt.wantStep {
				t.Errorf("step = %s, want %s", rv.Step, tt.wantStep)
			}
			if f.store.saveCalls != 0 {
				t.Errorf("Save called %d times, want 0", f.store.saveCalls)
			}
		})
	}
}

func TestSaveEvent_FieldErrors(t *testing.T) {
	f := newEventFixture(activeContract())
	form := validForm(false)
	form.Title = "ab"
	form.ImageURL2 = "not a url"

	_, err := f.svc.SaveEvent(context.Background(), manager, form, "")

	fe, ok := wizard.AsFieldErrors(err)
	require.True(t, ok, "expected FieldErrors, got %v", err)
	assert.Equal(t, "title", fe.First().Field)
	assert.Equal(t, wizard.StepDetails, fe.First().Step)
	assert.Zero(t, f.store.saveCalls)
}

func TestSaveEvent_FreeWithoutContract(t *testing.T) {
	f := newEventFixture()
	form := validForm(false)
	form.ContractAccepted = false

	res, err := f.svc.SaveEvent(context.Background(), manager, form, "")

	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Nil(t, res.Event.ContractID)
	assert.False(t, f.store.replaced, "free events do not touch batches")
	assert.Empty(t, res.Batches)
}

func TestSaveEvent_IgnoresClientContractWithoutActiveContract(t *testing.T) {
	f := newEventFixture()
	form := validForm(false)
	form.ContractAccepted = false
	form.ContractID = "3f1c2b9e-8d7a-4c5b-9e6f-1a2b3c4d5e6f"

	res, err := f.svc.SaveEvent(context.Background(), manager, form, "")

	require.NoError(t, err)
	assert.Nil(t, res.Event.ContractID)
	stored, err := f.store.GetByID(context.Background(), res.Event.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.ContractID)
}

func TestSaveEvent_ReplacesClientContractWithActive(t *testing.T) {
	contract := activeContract()
	f := newEventFixture(contract)
	form := validForm(true)
	form.ContractID = "3f1c2b9e-8d7a-4c5b-9e6f-1a2b3c4d5e6f"

	res, err := f.svc.SaveEvent(context.Background(), manager, form, "")

	require.NoError(t, err)
	require.NotNil(t, res.Event.ContractID)
	assert.Equal(t, contract.ID, *res.Event.ContractID)
}

func TestSaveEvent_OverflowIsFieldError(t *testing.T) {
	f := newEventFixture(activeContract())
	form := validForm(true)
	form.Capacity = "99999999999999999999"

	_, err := f.svc.SaveEvent(context.Background(), manager, form, "")

	fe, ok := wizard.AsFieldErrors(err)
	require.True(t, ok, "expected FieldErrors, got %v", err)
	assert.Equal(t, "capacity", fe.First().Field)
	assert.Zero(t, f.store.saveCalls)
}

func TestSaveEvent_RejectionMarksSpan(t *testing.T) {
	f := newEventFixture(activeContract())
	form := validForm(true)
	form.Batches[0].Quantity = "2147483648"

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, _ := tp.Tracer("test").Start(context.Background(), "request")

	_, err := f.svc.SaveEvent(ctx, manager, form, "")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestSaveEvent_CreatePaid(t *testing.T) {
	contract := activeContract()
	f := newEventFixture(contract)
	collector := notify.NewCollector()
	ctx := notify.WithNotifier(context.Background(), collector)

	res, err := f.svc.SaveEvent(ctx, manager, validForm(true), "")
	require.NoError(t, err)

	e := res.Event
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "manager-1", e.ManagerID)
	require.NotNil(t, e.CompanyID)
	assert.Equal(t, "company-1", *e.CompanyID)
	assert.Equal(t, domain.EventStatusPending, e.Status)
	assert.Equal(t, "2026-12-05", e.DateString())
	assert.Equal(t, 500, e.Capacity)
	require.NotNil(t, e.TicketPrice)
	assert.Equal(t, "50.00", e.TicketPrice.String())
	require.NotNil(t, e.ContractID)
	assert.Equal(t, contract.ID, *e.ContractID)

	require.Len(t, res.Batches, 1)
	assert.Equal(t, domain.Quantity(100), res.Batches[0].Quantity)
	assert.True(t, f.store.replaced)
	assert.Equal(t, ManagerEventsPath, res.Redirect)

	assert.Equal(t, []string{"manager-1"}, f.lists.managers)
	assert.Equal(t, 1, f.lists.catalog)
	assert.Equal(t, []string{e.ID}, f.publisher.saved)

	notices := collector.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, notify.LevelLoading, notices[0].Level)
	assert.Equal(t, notify.LevelSuccess, notices[1].Level)
}

func TestSaveEvent_UpdateOwnership(t *testing.T) {
	f := newEventFixture(activeContract())
	res, err := f.svc.SaveEvent(context.Background(), manager, validForm(true), "")
	require.NoError(t, err)
	id := res.Event.ID

	other := domain.Actor{UserID: "manager-2", Role: domain.RoleManager}
	_, err = f.svc.SaveEvent(context.Background(), other, validForm(true), id)
	assert.ErrorIs(t, err, domain.ErrNotEventOwner)
	assert.Equal(t, 1, f.store.saveCalls)

	admin := domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	updated, err := f.svc.SaveEvent(context.Background(), admin, validForm(true), id)
	require.NoError(t, err)
	assert.False(t, updated.Created)
	assert.Equal(t, "manager-1", updated.Event.ManagerID, "admin edits keep the original owner")

	_, err = f.svc.SaveEvent(context.Background(), manager, validForm(true), "missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestSaveEvent_SubmissionInProgress(t *testing.T) {
	f := newEventFixture(activeContract())
	_, ok, _ := f.locker.Acquire(context.Background(), submissionKey("manager-1", ""), lockTTLForTest)
	require.True(t, ok)

	_, err := f.svc.SaveEvent(context.Background(), manager, validForm(true), "")

	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	assert.Zero(t, f.store.saveCalls)
}

func TestSaveEvent_LockReleased(t *testing.T) {
	f := newEventFixture(activeContract())
	form := validForm(true)
	form.ContractAccepted = false

	_, err := f.svc.SaveEvent(context.Background(), manager, form, "")
	require.Error(t, err)

	_, ok, _ := f.locker.Acquire(context.Background(), submissionKey("manager-1", ""), lockTTLForTest)
	assert.True(t, ok, "lock should be released after a rejected submission")
}

func TestSaveEvent_GatewayError(t *testing.T) {
	f := newEventFixture(activeContract())
	f.store.saveErr = errors.New("connection refused")
	collector := notify.NewCollector()
	ctx := notify.WithNotifier(context.Background(), collector)

	_, err := f.svc.SaveEvent(ctx, manager, validForm(true), "")

	var ge *GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "save event", ge.Op)
	assert.Empty(t, f.lists.managers, "caches stay untouched after a failed save")

	notices := collector.Notices()
	assert.Equal(t, notify.LevelError, notices[len(notices)-1].Level)
	assert.Contains(t, notices[len(notices)-1].Message, "connection refused")
}

func TestSaveEvent_RoundTrip(t *testing.T) {
	f := newEventFixture(activeContract())
	first, err := f.svc.SaveEvent(context.Background(), manager, validForm(true), "")
	require.NoError(t, err)

	stored, err := f.svc.GetManagedEvent(context.Background(), manager, first.Event.ID)
	require.NoError(t, err)

	form := wizard.FromEvent(stored.Event, stored.Batches)
	assert.Equal(t, "50,00", form.TicketPrice)

	second, err := f.svc.SaveEvent(context.Background(), manager, form, first.Event.ID)
	require.NoError(t, err)

	a, b := first.Event, second.Event
	assert.Equal(t, a.Title, b.Title)
	assert.Equal(t, a.DateString(), b.DateString())
	assert.Equal(t, *a.TicketPrice, *b.TicketPrice)
	assert.Equal(t, a.Capacity, b.Capacity)
	assert.Equal(t, a.MinAge, b.MinAge)
	require.Len(t, second.Batches, 1)
	assert.Equal(t, first.Batches[0].Price, second.Batches[0].Price)
	assert.Equal(t, first.Batches[0].StartDate, second.Batches[0].StartDate)
}

func TestCheckSubmission(t *testing.T) {
	f := newEventFixture(activeContract())

	assert.NoError(t, f.svc.CheckSubmission(context.Background(), validForm(true)))

	form := validForm(true)
	form.Batches = nil
	assert.ErrorIs(t, f.svc.CheckSubmission(context.Background(), form), ErrNoBatches)
	assert.Zero(t, f.store.saveCalls)
}

func TestGetPublicEvent_HidesUnapproved(t *testing.T) {
	f := newEventFixture()
	f.store.events["e1"] = &domain.Event{ID: "e1", Status: domain.EventStatusPending}
	f.store.events["e2"] = &domain.Event{ID: "e2", Status: domain.EventStatusApproved}

	_, err := f.svc.GetPublicEvent(context.Background(), "e1")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	got, err := f.svc.GetPublicEvent(context.Background(), "e2")
	require.NoError(t, err)
	assert.NotNil(t, got.Batches)
}

func TestUpdateStatus(t *testing.T) {
	f := newEventFixture()
	f.store.events["e1"] = &domain.Event{ID: "e1", ManagerID: "manager-1", Status: domain.EventStatusPending}
	admin := domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}

	_, err := f.svc.UpdateStatus(context.Background(), manager, "e1", domain.EventStatusApproved)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = f.svc.UpdateStatus(context.Background(), admin, "e1", "published")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	e, err := f.svc.UpdateStatus(context.Background(), admin, "e1", domain.EventStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusApproved, e.Status)
	assert.Equal(t, []string{"e1"}, f.publisher.changed)
	assert.Equal(t, 1, f.lists.catalog)

	_, err = f.svc.UpdateStatus(context.Background(), admin, "missing", domain.EventStatusApproved)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestListManagerEvents_DefaultsLimit(t *testing.T) {
	f := newEventFixture()
	f.store.events["e1"] = &domain.Event{ID: "e1", ManagerID: "manager-1"}
	f.store.events["e2"] = &domain.Event{ID: "e2", ManagerID: "manager-2"}

	events, total, err := f.svc.ListManagerEvents(context.Background(), manager, "", 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "e1", events[0].ID)
}
