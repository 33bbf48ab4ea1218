package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	HTTPRequestDuration    metric.Float64Histogram
	LLMRequestsTotal       metric.Int64Counter
	LLMRequestDuration     metric.Float64Histogram
	LLMTokensTotal         metric.Int64Counter
	ItineraryCacheLookups  metric.Int64Counter
	ItineraryActivities    metric.Int64Counter
	WizardGenerationsTotal metric.Int64Counter
	RateLimitedTotal       metric.Int64Counter
	DBQueryDurationSeconds metric.Float64Histogram
	DBQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments once, using the
// globally configured MeterProvider. Without a configured provider the
// instruments are no-ops.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("ziptrip")
		m := &AppMetrics{}

		m.HTTPRequestsTotal = mustCounter(meter, "http_requests_total",
			"Total number of HTTP requests completed", "{request}")
		m.HTTPRequestDuration = mustHistogram(meter, "http_request_duration_seconds",
			"Duration of HTTP requests in seconds", "s")
		m.LLMRequestsTotal = mustCounter(meter, "llm_requests_total",
			"Total number of upstream completion calls", "{request}")
		m.LLMRequestDuration = mustHistogram(meter, "llm_request_duration_seconds",
			"Duration of upstream completion calls in seconds", "s")
		m.LLMTokensTotal = mustCounter(meter, "llm_tokens_total",
			"Tokens consumed by upstream completion calls", "{token}")
		m.ItineraryCacheLookups = mustCounter(meter, "itinerary_cache_lookups_total",
			"Itinerary cache lookups by result", "{lookup}")
		m.ItineraryActivities = mustCounter(meter, "itinerary_activities_total",
			"Generated activities by kind", "{activity}")
		m.WizardGenerationsTotal = mustCounter(meter, "wizard_generations_total",
			"Wizard generation attempts by outcome", "{generation}")
		m.RateLimitedTotal = mustCounter(meter, "rate_limited_requests_total",
			"Requests rejected by the rate limiter", "{request}")
		m.DBQueryDurationSeconds = mustHistogram(meter, "db_query_duration_seconds",
			"Duration of database queries in seconds", "s")
		m.DBQueryErrorsTotal = mustCounter(meter, "db_query_errors_total",
			"Total number of database query errors", "{error}")

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the global AppMetrics, initializing it on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

func mustCounter(meter metric.Meter, name, desc, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		log.Fatalf("Metrics: Failed to create %s: %v", name, err)
	}
	return c
}

func mustHistogram(meter metric.Meter, name, desc, unit string) metric.Float64Histogram {
	h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		log.Fatalf("Metrics: Failed to create %s: %v", name, err)
	}
	return h
}
