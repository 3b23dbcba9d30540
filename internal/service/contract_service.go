package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/metrics"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/repository"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// CommissionRangesPlaceholder marks where the range table goes in contract content
	CommissionRangesPlaceholder = "{{COMMISSION_RANGES}}"
	noRangesText                = "No commission ranges configured."

	defaultGatewayTimeout = 10 * time.Second

	activeContractKey = "active_contract"
)

// contractService implements ContractService
type contractService struct {
	contractRepo repository.ContractRepository
	rangeRepo    repository.CommissionRangeRepository
	log          *logger.Logger
	timeout      time.Duration
	sfGroup      singleflight.Group
}

// NewContractService creates a new ContractService
func NewContractService(contractRepo repository.ContractRepository, rangeRepo repository.CommissionRangeRepository, log *logger.Logger, timeout time.Duration) ContractService {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	return &contractService{
		contractRepo: contractRepo,
		rangeRepo:    rangeRepo,
		log:          log,
		timeout:      timeout,
	}
}

// FetchActiveContract returns the single active contract. When zero or several
// rows are flagged active it falls back to the most recently updated row.
// Concurrent callers share one lookup, which runs detached from any single
// caller's cancellation and is bounded by the gateway timeout instead.
func (s *contractService) FetchActiveContract(ctx context.Context) (*domain.CommissionContract, error) {
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.sfGroup.Do(activeContractKey, func() (interface{}, error) {
		return s.fetchActiveContract(shared)
	})
	if err != nil {
		return nil, err
	}
	contract, _ := v.(*domain.CommissionContract)
	return contract, nil
}

func (s *contractService) fetchActiveContract(ctx context.Context) (*domain.CommissionContract, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	active, err := s.contractRepo.ListActive(ctx)
	if err != nil {
		return nil, contractError("list active contracts", err)
	}
	if len(active) == 1 {
		return active[0], nil
	}

	s.log.Warn("active contract lookup did not find exactly one row, using latest updated",
		zap.Int("active_rows", len(active)),
	)
	metrics.RecordContractFallback(ctx, len(active))

	latest, err := s.contractRepo.GetLatestUpdated(ctx)
	if err != nil {
		return nil, contractError("get latest contract", err)
	}
	return latest, nil
}

func contractError(op string, err error) error {
	if errors.Is(err, domain.ErrPermissionDenied) {
		return fmt.Errorf("%w: %v", ErrContractPermissionDenied, err)
	}
	return gatewayError(op, err)
}

// FetchActiveCommissionRanges never fails; the contract renders without a table instead
func (s *contractService) FetchActiveCommissionRanges(ctx context.Context) []*domain.CommissionRange {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ranges, err := s.rangeRepo.ListActive(ctx)
	if err != nil {
		s.log.Error("failed to fetch active commission ranges", zap.Error(err))
		return []*domain.CommissionRange{}
	}
	if ranges == nil {
		return []*domain.CommissionRange{}
	}
	return ranges
}

// ListContracts lists every contract version
func (s *contractService) ListContracts(ctx context.Context) ([]*domain.CommissionContract, error) {
	contracts, err := s.contractRepo.List(ctx)
	if err != nil {
		return nil, gatewayError("list contracts", err)
	}
	return contracts, nil
}

// GetContract retrieves a contract by ID
func (s *contractService) GetContract(ctx context.Context, id string) (*domain.CommissionContract, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, gatewayError("get contract", err)
	}
	if contract == nil {
		return nil, domain.ErrContractNotFound
	}
	return contract, nil
}

// CreateContract creates an inactive contract with the next version number
func (s *contractService) CreateContract(ctx context.Context, title, content string) (*domain.CommissionContract, error) {
	contract := &domain.CommissionContract{
		Title:   strings.TrimSpace(title),
		Content: content,
	}
	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, gatewayError("create contract", err)
	}
	s.log.Info("contract created", zap.String("contract_id", contract.ID), zap.Int("version", contract.Version))
	return contract, nil
}

// UpdateContract changes title and content
func (s *contractService) UpdateContract(ctx context.Context, id, title, content string) (*domain.CommissionContract, error) {
	contract, err := s.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}

	contract.Title = strings.TrimSpace(title)
	contract.Content = content
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, gatewayError("update contract", err)
	}
	return contract, nil
}

// ActivateContract makes one contract the active one
func (s *contractService) ActivateContract(ctx context.Context, id string) (*domain.CommissionContract, error) {
	contract, err := s.contractRepo.Activate(ctx, id)
	if err != nil {
		return nil, gatewayError("activate contract", err)
	}
	if contract == nil {
		return nil, domain.ErrContractNotFound
	}
	s.log.Info("contract activated", zap.String("contract_id", id), zap.Int("version", contract.Version))
	return contract, nil
}

// RenderContract substitutes the commission range table into the contract
// content at CommissionRangesPlaceholder
func RenderContract(contract *domain.CommissionContract, ranges []*domain.CommissionRange) string {
	if contract == nil {
		return ""
	}
	return strings.ReplaceAll(contract.Content, CommissionRangesPlaceholder, RenderRangesTable(ranges))
}

// RenderRangesTable renders ranges as an HTML table
func RenderRangesTable(ranges []*domain.CommissionRange) string {
	if len(ranges) == 0 {
		return noRangesText
	}

	var b strings.Builder
	b.WriteString(`<table class="commission-ranges">`)
	b.WriteString("<thead><tr><th>Tickets sold</th><th>Commission</th></tr></thead><tbody>")
	for _, r := range ranges {
		b.WriteString("<tr><td>")
		b.WriteString(rangeLabel(r))
		b.WriteString("</td><td>")
		b.WriteString(strconv.FormatFloat(r.Percentage, 'f', 2, 64))
		b.WriteString("%</td></tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

func rangeLabel(r *domain.CommissionRange) string {
	if r.MaxTickets == nil {
		return fmt.Sprintf("%d or more", r.MinTickets)
	}
	return fmt.Sprintf("%d to %d", r.MinTickets, *r.MaxTickets)
}
