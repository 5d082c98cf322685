package gateway

import (
	"context"
	"net/http"
	"sync"

	"github.com/atinyakov/taskmesh/internal/models"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// Dependency names a downstream service and its base URL.
type Dependency struct {
	Name    string
	BaseURL string
}

// probeResult is a single dependency health sample. Ephemeral: produced
// per check and discarded after aggregation.
type probeResult struct {
	name      string
	reachable bool
}

// HealthAggregator probes downstream services concurrently and reduces
// their statuses into one composite verdict for the gateway.
type HealthAggregator struct {
	prober Client
	deps   []Dependency
}

// NewHealthAggregator constructs a HealthAggregator probing the given
// dependencies through prober.
func NewHealthAggregator(prober Client, deps []Dependency) *HealthAggregator {
	return &HealthAggregator{prober: prober, deps: deps}
}

// Check probes each dependency independently and concurrently, each
// under its own short timeout, and reduces the samples: all healthy →
// "healthy", any failing → "degraded". If the aggregator cannot attempt
// the probes at all it reports "unhealthy" with an explanation.
func (a *HealthAggregator) Check(ctx context.Context) models.HealthReport {
	report := models.HealthReport{Service: "gateway-service"}

	if len(a.deps) == 0 {
		report.Status = statusUnhealthy
		report.Error = "no dependencies configured"
		return report
	}
	if err := ctx.Err(); err != nil {
		report.Status = statusUnhealthy
		report.Error = "health probes could not run: " + err.Error()
		return report
	}

	results := make(chan probeResult, len(a.deps))
	var wg sync.WaitGroup
	for _, dep := range a.deps {
		wg.Add(1)
		go func(dep Dependency) {
			defer wg.Done()
			results <- probeResult{name: dep.Name, reachable: a.probe(ctx, dep)}
		}(dep)
	}
	wg.Wait()
	close(results)

	report.Status = statusHealthy
	report.Dependencies = make(map[string]string, len(a.deps))
	for res := range results {
		if res.reachable {
			report.Dependencies[res.name] = statusHealthy
		} else {
			report.Dependencies[res.name] = statusUnhealthy
			report.Status = statusDegraded
		}
	}
	return report
}

// probe reports whether a single dependency answers its health endpoint
// with 200. Failures are contained here and converted to a sample; they
// never abort the aggregation.
func (a *HealthAggregator) probe(ctx context.Context, dep Dependency) bool {
	resp, err := a.prober.Forward(ctx, ForwardRequest{
		Method:  http.MethodGet,
		BaseURL: dep.BaseURL,
		Path:    "/health",
		Timeout: ProbeTimeout,
	})
	return err == nil && resp.Status == http.StatusOK
}
