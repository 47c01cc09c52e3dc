// Package envcheck probes a deployed backend for health and CORS setup.
package envcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second
	userAgent      = "WhiteShop-Env-Checker/1.0"
)

var ErrNoBackend = errors.New("backend URL is not configured")

type Status string

const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
	Warn Status = "WARN"
)

type Result struct {
	Name   string
	Status Status
	Detail string
}

type Report struct {
	Health Result
	CORS   Result
	API    Result
}

// OK is false when the CORS probe failed. Health and API problems are
// reported but do not fail the run on their own.
func (r Report) OK() bool {
	return r.CORS.Status == Pass
}

func (r Report) Write(w io.Writer) {
	fmt.Fprintln(w, "Summary:")
	for _, res := range []Result{r.Health, r.CORS, r.API} {
		fmt.Fprintf(w, "  %-7s %s  %s\n", res.Name, res.Status, res.Detail)
	}
}

type Checker struct {
	Backend  string
	Frontend string
	Client   *http.Client
}

func New(backend, frontend string) *Checker {
	return &Checker{
		Backend:  strings.TrimRight(strings.TrimSpace(backend), "/"),
		Frontend: strings.TrimRight(strings.TrimSpace(frontend), "/"),
		Client:   &http.Client{Timeout: DefaultTimeout},
	}
}

// Run executes every probe in order.
func (c *Checker) Run(ctx context.Context) (Report, error) {
	if c.Backend == "" {
		return Report{}, ErrNoBackend
	}
	return Report{
		Health: c.CheckHealth(ctx),
		CORS:   c.CheckCORS(ctx),
		API:    c.CheckAPI(ctx),
	}, nil
}

// CheckHealth expects 200 and a JSON body with a status field.
func (c *Checker) CheckHealth(ctx context.Context) Result {
	res := Result{Name: "Health", Status: Fail}

	resp, err := c.get(ctx, "/health", false)
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		res.Detail = fmt.Sprintf("status %d", resp.StatusCode)
		return res
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Status == "" {
		res.Detail = "response has no status field"
		return res
	}

	res.Status = Pass
	res.Detail = "status " + body.Status
	return res
}

// CheckCORS expects the backend to echo the frontend origin or "*".
func (c *Checker) CheckCORS(ctx context.Context) Result {
	res := Result{Name: "CORS", Status: Fail}
	if c.Frontend == "" {
		res.Detail = "frontend URL is not configured"
		return res
	}

	resp, err := c.get(ctx, "/health", true)
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	defer drain(resp)

	allowed := resp.Header.Get("Access-Control-Allow-Origin")
	switch allowed {
	case c.Frontend, "*":
		res.Status = Pass
		res.Detail = "Access-Control-Allow-Origin: " + allowed
	case "":
		res.Detail = "Access-Control-Allow-Origin header missing"
	default:
		res.Detail = fmt.Sprintf("Access-Control-Allow-Origin is %q, want %q", allowed, c.Frontend)
	}
	return res
}

// CheckAPI hits the product listing with the frontend origin. Either 200 or
// 401 proves routing works.
func (c *Checker) CheckAPI(ctx context.Context) Result {
	res := Result{Name: "API", Status: Warn}

	resp, err := c.get(ctx, "/api/v1/products?limit=1", c.Frontend != "")
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized {
		res.Detail = fmt.Sprintf("status %d", resp.StatusCode)
		return res
	}
	if c.Frontend != "" && resp.Header.Get("Access-Control-Allow-Origin") != c.Frontend {
		res.Detail = fmt.Sprintf("status %d without matching CORS header", resp.StatusCode)
		return res
	}

	res.Status = Pass
	res.Detail = fmt.Sprintf("status %d", resp.StatusCode)
	return res
}

func (c *Checker) get(ctx context.Context, path string, withOrigin bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Backend+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if withOrigin {
		req.Header.Set("Origin", c.Frontend)
	}

	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		zap.L().Debug("[ENVCHECK] request failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	zap.L().Debug("[ENVCHECK] response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Bool("origin", withOrigin),
	)
	return resp, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
