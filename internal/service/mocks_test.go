package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/wizard"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/kafka"
)

// MockEventStore is a mock implementation of EventStore
type MockEventStore struct {
	mu        sync.Mutex
	events    map[string]*domain.Event
	batches   map[string][]*domain.TicketBatch
	saveCalls int
	replaced  bool
	saveErr   error
	getErr    error
	nextID    int
}

func NewMockEventStore() *MockEventStore {
	return &MockEventStore{
		events:  make(map[string]*domain.Event),
		batches: make(map[string][]*domain.TicketBatch),
	}
}

func (m *MockEventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *MockEventStore) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Event
	for _, e := range m.events {
		if filter.ManagerID != "" && e.ManagerID != filter.ManagerID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *MockEventStore) ListBatches(ctx context.Context, eventID string) ([]*domain.TicketBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches[eventID], nil
}

func (m *MockEventStore) Save(ctx context.Context, e *domain.Event, batches []*domain.TicketBatch, replace bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	if e.ID == "" {
		m.nextID++
		e.ID = fmt.Sprintf("evt-%d", m.nextID)
		e.CreatedAt = time.Now()
	}
	e.UpdatedAt = time.Now()
	cp := *e
	m.events[e.ID] = &cp
	m.replaced = replace
	if replace {
		for i, b := range batches {
			b.ID = fmt.Sprintf("%s-b%d", e.ID, i)
			b.EventID = e.ID
		}
		m.batches[e.ID] = batches
	}
	return nil
}

func (m *MockEventStore) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	e.Status = status
	cp := *e
	return &cp, nil
}

// MockContractRepository is a mock implementation of ContractRepository
type MockContractRepository struct {
	contracts []*domain.CommissionContract
	listErr   error
}

func (m *MockContractRepository) ListActive(ctx context.Context) ([]*domain.CommissionContract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.CommissionContract
	for _, c := range m.contracts {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockContractRepository) GetLatestUpdated(ctx context.Context) (*domain.CommissionContract, error) {
	var latest *domain.CommissionContract
	for _, c := range m.contracts {
		if latest == nil || c.UpdatedAt.After(latest.UpdatedAt) {
			latest = c
		}
	}
	return latest, nil
}

func (m *MockContractRepository) GetByID(ctx context.Context, id string) (*domain.CommissionContract, error) {
	for _, c := range m.contracts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockContractRepository) List(ctx context.Context) ([]*domain.CommissionContract, error) {
	return m.contracts, nil
}

func (m *MockContractRepository) Create(ctx context.Context, c *domain.CommissionContract) error {
	c.ID = fmt.Sprintf("contract-%d", len(m.contracts)+1)
	c.Version = len(m.contracts) + 1
	m.contracts = append(m.contracts, c)
	return nil
}

func (m *MockContractRepository) Update(ctx context.Context, c *domain.CommissionContract) error {
	return nil
}

func (m *MockContractRepository) Activate(ctx context.Context, id string) (*domain.CommissionContract, error) {
	var found *domain.CommissionContract
	for _, c := range m.contracts {
		c.IsActive = c.ID == id
		if c.IsActive {
			found = c
		}
	}
	return found, nil
}

// MockCommissionRangeRepository is a mock implementation of CommissionRangeRepository
type MockCommissionRangeRepository struct {
	ranges      []*domain.CommissionRange
	history     []*domain.CommissionRangeHistory
	listErr     error
	createCalls int
}

func (m *MockCommissionRangeRepository) ListActive(ctx context.Context) ([]*domain.CommissionRange, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.CommissionRange
	for _, r := range m.ranges {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockCommissionRangeRepository) List(ctx context.Context) ([]*domain.CommissionRange, error) {
	return m.ranges, nil
}

func (m *MockCommissionRangeRepository) GetByID(ctx context.Context, id string) (*domain.CommissionRange, error) {
	for _, r := range m.ranges {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *MockCommissionRangeRepository) Create(ctx context.Context, r *domain.CommissionRange, changedBy string) error {
	m.createCalls++
	if other := domain.FindOverlap(r, m.ranges); other != nil {
		return domain.ErrRangeOverlap
	}
	r.ID = fmt.Sprintf("range-%d", len(m.ranges)+1)
	m.ranges = append(m.ranges, r)
	m.history = append(m.history, &domain.CommissionRangeHistory{RangeID: r.ID, Action: domain.RangeActionCreated, ChangedBy: changedBy})
	return nil
}

func (m *MockCommissionRangeRepository) Update(ctx context.Context, r *domain.CommissionRange, changedBy string) error {
	for i, existing := range m.ranges {
		if existing.ID == r.ID {
			m.ranges[i] = r
			m.history = append(m.history, &domain.CommissionRangeHistory{RangeID: r.ID, Action: domain.RangeActionUpdated, ChangedBy: changedBy})
			return nil
		}
	}
	return domain.ErrRangeNotFound
}

func (m *MockCommissionRangeRepository) Deactivate(ctx context.Context, id, changedBy string) (*domain.CommissionRange, error) {
	for _, r := range m.ranges {
		if r.ID == id {
			r.IsActive = false
			m.history = append(m.history, &domain.CommissionRangeHistory{RangeID: id, Action: domain.RangeActionDeactivated, ChangedBy: changedBy})
			return r, nil
		}
	}
	return nil, domain.ErrRangeNotFound
}

func (m *MockCommissionRangeRepository) ListHistory(ctx context.Context, rangeID string) ([]*domain.CommissionRangeHistory, error) {
	var out []*domain.CommissionRangeHistory
	for _, h := range m.history {
		if h.RangeID == rangeID {
			out = append(out, h)
		}
	}
	return out, nil
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	profiles map[string]*domain.Profile
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return m.profiles[id], nil
}

// MockCompanyRepository is a mock implementation of CompanyRepository
type MockCompanyRepository struct {
	companies map[string]*domain.Company
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	return m.companies[id], nil
}

// MockListCache records invalidations
type MockListCache struct {
	mu       sync.Mutex
	managers []string
	catalog  int
}

func (m *MockListCache) InvalidateManagerLists(ctx context.Context, managerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.managers = append(m.managers, managerID)
	return nil
}

func (m *MockListCache) InvalidateCatalogLists(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog++
	return nil
}

// MockCatalogPublisher records published events
type MockCatalogPublisher struct {
	mu      sync.Mutex
	saved   []string
	changed []string
}

func (m *MockCatalogPublisher) PublishEventSaved(ctx context.Context, e *domain.Event, batches int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, e.ID)
	return nil
}

func (m *MockCatalogPublisher) PublishStatusChanged(ctx context.Context, e *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changed = append(m.changed, e.ID)
	return nil
}

func (m *MockCatalogPublisher) Close() error { return nil }

// mockProducer fails the first failures calls to Produce
type mockProducer struct {
	mu       sync.Mutex
	failures map[string]int
	messages []*kafka.Message
	calls    map[string]int
}

func newMockProducer() *mockProducer {
	return &mockProducer{failures: make(map[string]int), calls: make(map[string]int)}
}

func (m *mockProducer) Produce(ctx context.Context, msg *kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[msg.Topic]++
	if m.failures[msg.Topic] > 0 {
		m.failures[msg.Topic]--
		return fmt.Errorf("broker unavailable")
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockProducer) Close() {}

func activeContract() *domain.CommissionContract {
	return &domain.CommissionContract{
		ID:        "7f1c0a4e-5b7d-4c53-9a5e-2d7f0f2a9c11",
		Version:   1,
		Title:     "Commission terms",
		Content:   "<p>Fees</p>{{COMMISSION_RANGES}}",
		IsActive:  true,
		UpdatedAt: time.Now(),
	}
}

func validForm(paid bool) *wizard.Form {
	f := &wizard.Form{
		Title:            "Summer Festival",
		Description:      "An open air festival with local bands",
		Date:             "2026-12-05",
		Time:             "19:00",
		Location:         "Parque da Cidade",
		Address:          "Rua das Flores, 100",
		ImageURL1:        "https://img.example.com/1.jpg",
		ImageURL2:        "https://img.example.com/2.jpg",
		ImageURL3:        "https://img.example.com/3.jpg",
		MinAge:           16,
		Category:         "music",
		Capacity:         "500",
		Duration:         "4h",
		IsPaid:           paid,
		ContractAccepted: true,
		NumberOfBatches:  1,
		Batches: []wizard.BatchRow{{
			Name:      "Lote 1",
			Quantity:  "100",
			Price:     "50,00",
			StartDate: "2026-11-01",
			EndDate:   "2026-11-30",
		}},
	}
	if paid {
		f.TicketPrice = "50,00"
	}
	return f
}
