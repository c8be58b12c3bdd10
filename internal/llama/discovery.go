// Package llama finds a local model server and calls it, degrading to a
// simulated answer whenever no server is reachable.
package llama

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ProbeFunc checks whether baseURL hosts a usable model server
type ProbeFunc func(ctx context.Context, baseURL string) bool

// Discoverer memoizes the first candidate model server that answers its health check.
// A failed probe cycle is not repeated before the cooldown elapses.
type Discoverer struct {
	candidates []string
	cooldown   time.Duration
	probe      ProbeFunc
	now        func() time.Time

	mu        sync.Mutex
	url       string
	lastProbe time.Time
}

// NewDiscoverer creates a discoverer over candidates, tried in order.
// A nil probe uses an HTTP GET on <candidate>/health bounded by healthTimeout.
func NewDiscoverer(candidates []string, cooldown, healthTimeout time.Duration, probe ProbeFunc) *Discoverer {
	if probe == nil {
		probe = HTTPProbe(&http.Client{Timeout: healthTimeout})
	}
	trimmed := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c = strings.TrimRight(strings.TrimSpace(c), "/"); c != "" {
			trimmed = append(trimmed, c)
		}
	}
	return &Discoverer{
		candidates: trimmed,
		cooldown:   cooldown,
		probe:      probe,
		now:        time.Now,
	}
}

// Candidates returns the configured base URLs in probe order
func (d *Discoverer) Candidates() []string {
	return append([]string(nil), d.candidates...)
}

// Current returns the cached server URL without probing
func (d *Discoverer) Current() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, d.url != ""
}

// Discover returns the model server base URL, probing candidates when none is
// cached and the cooldown allows it. force bypasses the cooldown.
func (d *Discoverer) Discover(ctx context.Context, force bool) (string, bool) {
	if url, ok, done := d.cached(force); done {
		return url, ok
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// another caller may have probed while we waited for the lock
	if !force {
		if d.url != "" {
			return d.url, true
		}
		if d.coolingDown() {
			return "", false
		}
	}

	for _, base := range d.candidates {
		if ctx.Err() != nil {
			break
		}
		log.Printf("🔍 Probing model server: %s/health", base)
		if d.probe(ctx, base) {
			log.Printf("✅ Model server detected: %s", base)
			d.url = base
			return base, true
		}
	}

	d.url = ""
	// an aborted cycle says nothing about the servers, so it does not arm the cooldown
	if err := ctx.Err(); err != nil {
		log.Printf("⚠️  Model server discovery aborted: %v", err)
		return "", false
	}
	d.lastProbe = d.now()
	log.Printf("❌ No model server detected - simulation mode enabled")
	return "", false
}

// cached answers from state without probing when possible
func (d *Discoverer) cached(force bool) (string, bool, bool) {
	if force {
		return "", false, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.url != "" {
		return d.url, true, true
	}
	if d.coolingDown() {
		return "", false, true
	}
	return "", false, false
}

// coolingDown must be called with mu held
func (d *Discoverer) coolingDown() bool {
	return !d.lastProbe.IsZero() && d.now().Sub(d.lastProbe) < d.cooldown
}

// Invalidate forgets the cached server and the cooldown so the next call re-discovers
func (d *Discoverer) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.url != "" {
		log.Printf("⚠️  Forgetting model server %s", d.url)
	}
	d.url = ""
	d.lastProbe = time.Time{}
}

// HTTPProbe builds a ProbeFunc that requires HTTP 200 from <base>/health and,
// when the body reports model_loaded, requires it to be true.
func HTTPProbe(client *http.Client) ProbeFunc {
	return func(ctx context.Context, baseURL string) bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
		if err != nil {
			return false
		}
		resp, err := client.Do(req)
		if err != nil {
			log.Printf("⚠️  Health check failed for %s: %v", baseURL, err)
			return false
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return false
		}

		var health struct {
			ModelLoaded *bool `json:"model_loaded"`
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err != nil {
			return false
		}
		if err := json.Unmarshal(body, &health); err == nil && health.ModelLoaded != nil {
			return *health.ModelLoaded
		}
		return true
	}
}
