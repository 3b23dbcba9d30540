package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/metrics"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/retry"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const defaultAddressBaseURL = "https://viacep.com.br"

// AddressLookup resolves Brazilian postal codes
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (*domain.Address, error)
}

// AddressClientConfig contains configuration for the address client
type AddressClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// AddressClient queries a ViaCEP compatible service
type AddressClient struct {
	baseURL string
	http    *http.Client
	retrier *retry.Retrier
	log     *logger.Logger
}

// NewAddressClient creates a new AddressClient
func NewAddressClient(cfg *AddressClientConfig, httpClient *http.Client, log *logger.Logger) *AddressClient {
	baseURL := defaultAddressBaseURL
	timeout := 5 * time.Second
	rc := retry.DefaultConfig()
	if cfg != nil {
		if cfg.BaseURL != "" {
			baseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
		if cfg.MaxRetries >= 0 {
			rc.MaxRetries = cfg.MaxRetries
		}
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = logger.Nop()
	}

	retrier := retry.New(rc).OnRetry(func(attempt int, err error, wait time.Duration) {
		log.Warn("retrying address lookup", zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
	})

	return &AddressClient{
		baseURL: baseURL,
		http:    httpClient,
		retrier: retrier,
		log:     log,
	}
}

type viaCEPResponse struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	Erro        any    `json:"erro"`
}

// notFound reports the error flag, which the service sends as true or "true"
func (r *viaCEPResponse) notFound() bool {
	switch v := r.Erro.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// NormalizeCEP strips punctuation and checks for 8 digits
func NormalizeCEP(cep string) (string, error) {
	var b strings.Builder
	for _, r := range cep {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '.' || r == ' ':
		default:
			return "", domain.ErrInvalidCEP
		}
	}
	if b.Len() != 8 {
		return "", domain.ErrInvalidCEP
	}
	return b.String(), nil
}

// Lookup fetches the address for cep. 5xx responses and transport errors are
// retried; an error flag in the body maps to domain.ErrAddressNotFound.
func (c *AddressClient) Lookup(ctx context.Context, cep string) (*domain.Address, error) {
	ctx, span := telemetry.StartSpan(ctx, "gateway.address.lookup")
	defer span.End()

	digits, err := NormalizeCEP(cep)
	if err != nil {
		metrics.RecordAddressLookup(ctx, "invalid")
		return nil, err
	}
	span.SetAttributes(attribute.String("cep", digits))

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digits)

	var body viaCEPResponse
	result := c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.fetch(ctx, url, &body)
	})
	if errors.Is(result.Err, domain.ErrAddressNotFound) {
		metrics.RecordAddressLookup(ctx, "not_found")
		return nil, domain.ErrAddressNotFound
	}
	if result.Err != nil {
		telemetry.SetSpanError(ctx, result.Err)
		metrics.RecordAddressLookup(ctx, "error")
		c.log.Error("address lookup failed", zap.String("cep", digits), zap.Int("attempts", result.Attempts), zap.Error(result.Err))
		return nil, fmt.Errorf("address lookup: %w", result.Err)
	}
	if body.notFound() {
		metrics.RecordAddressLookup(ctx, "not_found")
		return nil, domain.ErrAddressNotFound
	}

	metrics.RecordAddressLookup(ctx, "found")
	return &domain.Address{
		CEP:          digits,
		Street:       body.Logradouro,
		Complement:   body.Complemento,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}

func (c *AddressClient) fetch(ctx context.Context, url string, out *viaCEPResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("address service returned %d", resp.StatusCode)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		return retry.Permanent(domain.ErrAddressNotFound)
	case resp.StatusCode != http.StatusOK:
		return retry.Permanent(fmt.Errorf("address service returned %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return retry.Permanent(fmt.Errorf("decode address response: %w", err))
	}
	return nil
}
