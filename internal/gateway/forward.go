// Package gateway implements the edge gateway: token verification,
// trust propagation, request forwarding, and dependency health
// aggregation.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrUnavailable classifies transport-level failures reaching a
// downstream service: connection refused, DNS failure, reset, timeout.
// It is distinct from a downstream-reported error status, which is
// relayed unchanged.
var ErrUnavailable = errors.New("service unavailable")

// DataTimeout bounds forwarded data operations.
const DataTimeout = 30 * time.Second

// ProbeTimeout bounds health probes.
const ProbeTimeout = 5 * time.Second

// ForwardRequest describes a single outbound call to a downstream service.
type ForwardRequest struct {
	// Method is the HTTP method to use.
	Method string
	// BaseURL is the downstream service base URL.
	BaseURL string
	// Path is appended to BaseURL.
	Path string
	// RawQuery is the original query string, forwarded verbatim.
	RawQuery string
	// Body holds the request body bytes, forwarded verbatim.
	Body []byte
	// Header holds the selected headers to attach.
	Header http.Header
	// Timeout bounds the call. Zero means DataTimeout.
	Timeout time.Duration
}

// ForwardResponse carries a downstream response back unchanged.
type ForwardResponse struct {
	// Status is the downstream status code.
	Status int
	// ContentType is the downstream Content-Type header.
	ContentType string
	// Body holds the response body bytes.
	Body []byte
}

// Client relays a single outbound request; implemented by *Forwarder.
type Client interface {
	Forward(ctx context.Context, req ForwardRequest) (*ForwardResponse, error)
}

// Forwarder relays requests to downstream services over a shared
// connection pool. It performs no retries: a single inbound call yields
// at most one downstream call.
type Forwarder struct {
	client *http.Client
	log    *zap.Logger
}

// NewForwarder constructs a Forwarder. The underlying http.Client is
// safe for concurrent use across simultaneous requests.
func NewForwarder(log *zap.Logger) *Forwarder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Forwarder{client: &http.Client{}, log: log}
}

// Forward performs the outbound call described by req under its own
// deadline. Transport failures and timeouts are reported as
// ErrUnavailable; any other failure is an internal error. On success the
// downstream status and body are returned verbatim.
func (f *Forwarder) Forward(ctx context.Context, req ForwardRequest) (*ForwardResponse, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DataTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := req.BaseURL + req.Path
	if req.RawQuery != "" {
		url += "?" + req.RawQuery
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	out, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for name, values := range req.Header {
		for _, v := range values {
			out.Header.Add(name, v)
		}
	}

	resp, err := f.client.Do(out)
	if err != nil {
		f.log.Error("downstream call failed",
			zap.String("method", req.Method),
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s %s", ErrUnavailable, req.Method, req.Path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		f.log.Error("downstream body read failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s %s", ErrUnavailable, req.Method, req.Path)
	}

	return &ForwardResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}
