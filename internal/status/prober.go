// Package status runs the site health battery and maintains the bounded
// snapshot series behind the status page.
package status

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/dvop/dvop-site/internal/config"
	"github.com/dvop/dvop-site/internal/constants"
	"github.com/dvop/dvop-site/internal/domain"
	"github.com/dvop/dvop-site/internal/logger"
)

// Binding is a presence check for an injected storage handle. It never
// performs I/O.
type Binding struct {
	ID        string
	Name      string
	Available bool
}

// Prober executes the configured HTTP checks concurrently, each with its
// own timeout, and appends the binding checks to the result.
type Prober struct {
	checks       []config.CheckConfig
	bindings     []Binding
	httpClient   *http.Client
	logger       *logger.Logger
	checkTimeout time.Duration
}

func NewProber(checks []config.CheckConfig, bindings []Binding, log *logger.Logger) *Prober {
	return &Prober{
		checks:       checks,
		bindings:     bindings,
		logger:       log.WithComponent("status"),
		checkTimeout: constants.CheckTimeout,
		// The per-check timeout is enforced through the context; the
		// client itself must not cut requests off earlier.
		httpClient: &http.Client{},
	}
}

// RunAll starts every HTTP check simultaneously and returns when the
// slowest finishes or times out. Results keep the declared check order;
// binding checks follow the HTTP ones.
func (p *Prober) RunAll(ctx context.Context) []domain.HealthCheckResult {
	results := make([]domain.HealthCheckResult, len(p.checks))

	g, ctx := errgroup.WithContext(ctx)
	for i, check := range p.checks {
		g.Go(func() error {
			results[i] = p.runHTTPCheck(ctx, check)
			return nil
		})
	}
	_ = g.Wait()

	for _, binding := range p.bindings {
		state, message := domain.HealthDown, "Missing"
		if binding.Available {
			state, message = domain.HealthOK, "Working"
		}
		results = append(results, domain.HealthCheckResult{
			ID:      binding.ID,
			Name:    binding.Name,
			State:   state,
			Message: message,
		})
	}

	return results
}

func (p *Prober) runHTTPCheck(ctx context.Context, check config.CheckConfig) domain.HealthCheckResult {
	ctx, cancel := context.WithTimeout(ctx, p.checkTimeout)
	defer cancel()

	startedAt := time.Now()
	var resp *http.Response
	req, err := buildRequest(ctx, check)
	if err == nil {
		resp, err = p.httpClient.Do(req)
	}
	latency := time.Since(startedAt).Milliseconds()

	if err != nil {
		message := "Request failed"
		if errors.Is(err, context.DeadlineExceeded) {
			message = "Timed out"
		}
		p.logger.WithCheck(check.ID, check.Name).Debug("check failed", "error", err)
		return domain.HealthCheckResult{
			ID:        check.ID,
			Name:      check.Name,
			State:     domain.HealthDown,
			LatencyMs: &latency,
			Message:   message,
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	state := mapState(resp.StatusCode, check.OKStatuses)
	message := "Reachable"
	if state != domain.HealthOK {
		message = "Unexpected status " + strconv.Itoa(resp.StatusCode)
	}
	status := resp.StatusCode
	return domain.HealthCheckResult{
		ID:         check.ID,
		Name:       check.Name,
		State:      state,
		HTTPStatus: &status,
		LatencyMs:  &latency,
		Message:    message,
	}
}

func buildRequest(ctx context.Context, check config.CheckConfig) (*http.Request, error) {
	method := check.Method
	if method == "" {
		method = "GET"
	}

	var body *bytes.Buffer
	contentType := check.BodyType
	switch {
	case check.BodyType == "multipart/form-data":
		// Intentionally empty payload: the endpoint should reject it.
		body = &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		_ = writer.Close()
		contentType = writer.FormDataContentType()
	case check.Body != "":
		body = bytes.NewBufferString(check.Body)
	default:
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, check.URL, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", constants.DefaultUserAgent)
	return req, nil
}

func mapState(status int, okStatuses []int) domain.HealthState {
	if lo.Contains(okStatuses, status) {
		return domain.HealthOK
	}
	if status >= 500 {
		return domain.HealthDown
	}
	return domain.HealthDegraded
}

// Summarize counts check states. The counts are independent of the order
// the checks completed in.
func Summarize(checks []domain.HealthCheckResult) domain.StatusSummary {
	return domain.StatusSummary{
		OK:       lo.CountBy(checks, func(c domain.HealthCheckResult) bool { return c.State == domain.HealthOK }),
		Degraded: lo.CountBy(checks, func(c domain.HealthCheckResult) bool { return c.State == domain.HealthDegraded }),
		Down:     lo.CountBy(checks, func(c domain.HealthCheckResult) bool { return c.State == domain.HealthDown }),
		Total:    len(checks),
	}
}
