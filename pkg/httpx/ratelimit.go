package httpx

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// RateLimitConfig is a token bucket: RequestsPerWindow tokens refill
// evenly over Window and at most Burst are held at once.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

func (c RateLimitConfig) String() string {
	s := fmt.Sprintf("%d/%s", c.RequestsPerWindow, c.Window)
	if c.Burst != c.RequestsPerWindow {
		s += fmt.Sprintf("+%d", c.Burst)
	}
	return s
}

// Route profiles. Each can be replaced through RATELIMIT_<NAME> using the
// ParseRateLimit syntax, e.g. RATELIMIT_STRICT=50/1m for load tests.
var (
	// StrictLimit guards sign-in, applications, approvals and bootstrap.
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}
	// ModerateLimit guards authenticated writes.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}
	LenientLimit  = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
	// PublicLimit is for the anonymous sponsor listing.
	PublicLimit = RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

func init() {
	for name, profile := range map[string]*RateLimitConfig{
		"STRICT":   &StrictLimit,
		"MODERATE": &ModerateLimit,
		"LENIENT":  &LenientLimit,
		"PUBLIC":   &PublicLimit,
	} {
		raw := os.Getenv("RATELIMIT_" + name)
		if raw == "" {
			continue
		}
		if cfg, err := ParseRateLimit(raw); err == nil {
			*profile = cfg
		}
	}
}

// ParseRateLimit reads "<requests>/<window>[+<burst>]", for example
// "5/1m" or "100/30s+150". Burst defaults to the request count.
func ParseRateLimit(s string) (RateLimitConfig, error) {
	rest, burstText, hasBurst := strings.Cut(strings.TrimSpace(s), "+")
	countText, windowText, ok := strings.Cut(rest, "/")
	if !ok {
		return RateLimitConfig{}, fmt.Errorf("rate limit %q: want <requests>/<window>", s)
	}

	count, err := strconv.Atoi(countText)
	if err != nil || count <= 0 {
		return RateLimitConfig{}, fmt.Errorf("rate limit %q: requests must be a positive integer", s)
	}
	window, err := time.ParseDuration(windowText)
	if err != nil || window <= 0 {
		return RateLimitConfig{}, fmt.Errorf("rate limit %q: window must be a positive duration", s)
	}

	cfg := RateLimitConfig{RequestsPerWindow: count, Window: window, Burst: count}
	if hasBurst {
		burst, err := strconv.Atoi(burstText)
		if err != nil || burst <= 0 {
			return RateLimitConfig{}, fmt.Errorf("rate limit %q: burst must be a positive integer", s)
		}
		cfg.Burst = burst
	}
	return cfg, nil
}

// KeyExtractor groups requests into buckets. An empty key skips limiting.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor returns the client address. The first parseable entry of
// X-Forwarded-For wins, then X-Real-IP, then the socket peer.
func IPKeyExtractor(r *http.Request) string {
	for _, candidate := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if addr, err := netip.ParseAddr(strings.TrimSpace(candidate)); err == nil {
			return addr.Unmap().String()
		}
	}
	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.Unmap().String()
	}
	if addrPort, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return addrPort.Addr().Unmap().String()
	}
	return r.RemoteAddr
}

// SubjectKeyExtractor keys on the session subject, empty when anonymous.
func SubjectKeyExtractor(r *http.Request) string {
	subject, _ := SubjectFromContext(r.Context())
	return subject
}

// PathValueKeyExtractor keys on a route wildcard, e.g. the application
// token, so guessing codes against one application is throttled no matter
// how many addresses the guesses come from.
func PathValueKeyExtractor(name string) KeyExtractor {
	return func(r *http.Request) string {
		return r.PathValue(name)
	}
}

// CompositeKeyExtractor joins the non-empty keys of each extractor.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extractor := range extractors {
			if key := extractor(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter decides whether the request identified by key may proceed.
// Implementations must be safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Config() RateLimitConfig
}

// LimiterFactory builds one Limiter per protected route. The in-memory
// factory keeps buckets in process; the Redis factory shares counters
// between replicas.
type LimiterFactory interface {
	New(name string, config RateLimitConfig) Limiter
}

// RateLimitMiddleware rejects requests with 429 once the bucket chosen by
// keyExtractor is empty. Backend failures let the request through.
func RateLimitMiddleware(l Limiter, keyExtractor KeyExtractor) Middleware {
	config := l.Config()
	limitHeader := strconv.Itoa(config.RequestsPerWindow)
	windowHeader := config.Window.String()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyExtractor(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			decision, err := l.Allow(r.Context(), key)
			switch {
			case err != nil:
				slogx.FromContext(r.Context()).Error("rate limiter unavailable", "limit", config.String(), "err", err)
			case !decision.Allowed:
				seconds := max(int(math.Ceil(decision.RetryAfter.Seconds())), 1)
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				w.Header().Set("X-RateLimit-Limit", limitHeader)
				w.Header().Set("X-RateLimit-Window", windowHeader)

				slogx.FromContext(r.Context()).Warn("rate limited",
					"key", key,
					"path", r.URL.Path,
					"limit", config.String(),
					"retry_after_s", seconds,
				)
				WriteError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP buckets by client address.
func RateLimitByIP(l Limiter) Middleware {
	return RateLimitMiddleware(l, IPKeyExtractor)
}

// RateLimitBySubject buckets by session subject and address.
func RateLimitBySubject(l Limiter) Middleware {
	return RateLimitMiddleware(l, CompositeKeyExtractor(":",
		SubjectKeyExtractor,
		IPKeyExtractor,
	))
}

// RateLimitByIPAndPathValue buckets by address and a route wildcard.
func RateLimitByIPAndPathValue(l Limiter, name string) Middleware {
	return RateLimitMiddleware(l, CompositeKeyExtractor(":",
		IPKeyExtractor,
		PathValueKeyExtractor(name),
	))
}
