package metrics

import (
	"context"
	"sync"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// Wizard counters
	EventsSaved          *telemetry.Counter
	SubmissionsRejected  *telemetry.Counter
	ContractFallbacks    *telemetry.Counter
	CatalogPublishFailed *telemetry.Counter
	AddressLookups       *telemetry.Counter

	// Histograms
	SaveDuration *telemetry.Histogram

	initOnce sync.Once
	initErr  error
)

// Init initializes all marketplace metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	EventsSaved, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "wizard_events_saved_total",
		Description: "Total number of events saved through the wizard",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SubmissionsRejected, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "wizard_submissions_rejected_total",
		Description: "Total number of wizard submissions rejected before persistence",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	ContractFallbacks, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "contract_fetch_fallback_total",
		Description: "Total number of active contract lookups that fell back to the latest updated row",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	CatalogPublishFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "catalog_publish_failed_total",
		Description: "Total number of catalog events that could not be published",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	AddressLookups, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "address_lookup_total",
		Description: "Total number of postal code lookups",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SaveDuration, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "wizard_save_duration_seconds",
		Description: "Duration of the event save sequence",
		Unit:        "s",
	}, []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10})
	if err != nil {
		return err
	}

	return nil
}

// RecordEventSaved records a successful save
func RecordEventSaved(ctx context.Context, created, paid bool, durationSeconds float64) {
	op := "update"
	if created {
		op = "create"
	}
	if EventsSaved != nil {
		EventsSaved.Inc(ctx,
			attribute.String("operation", op),
			attribute.Bool("paid", paid),
		)
	}
	if SaveDuration != nil {
		SaveDuration.Record(ctx, durationSeconds,
			attribute.String("operation", op),
		)
	}
}

// RecordSubmissionRejected records a submission stopped by validation or a business rule
func RecordSubmissionRejected(ctx context.Context, reason, step string) {
	if SubmissionsRejected != nil {
		SubmissionsRejected.Inc(ctx,
			attribute.String("reason", reason),
			attribute.String("step", step),
		)
	}
}

// RecordContractFallback records an active contract lookup that did not find exactly one row
func RecordContractFallback(ctx context.Context, activeRows int) {
	if ContractFallbacks != nil {
		ContractFallbacks.Inc(ctx, attribute.Int("active_rows", activeRows))
	}
}

// RecordCatalogPublishFailed records a catalog event that was dead-lettered or dropped
func RecordCatalogPublishFailed(ctx context.Context, eventType string, deadLettered bool) {
	if CatalogPublishFailed != nil {
		CatalogPublishFailed.Inc(ctx,
			attribute.String("event_type", eventType),
			attribute.Bool("dead_lettered", deadLettered),
		)
	}
}

// RecordAddressLookup records a postal code lookup outcome
func RecordAddressLookup(ctx context.Context, outcome string) {
	if AddressLookups != nil {
		AddressLookups.Inc(ctx, attribute.String("outcome", outcome))
	}
}
