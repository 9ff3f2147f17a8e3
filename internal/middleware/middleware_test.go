package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mx-space/portfolio/internal/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.Any("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestAccess(t *testing.T) {
	cfg := AccessConfig{
		Secret:          "s3cret",
		Header:          "x-api-key",
		FrontendOrigins: []string{"https://portfolio.example.com", "*.preview.example.com"},
		OriginBypass:    true,
	}
	tests := map[string]struct {
		cfg         AccessConfig
		headers     map[string]string
		wantStatus  int
		wantMessage string
	}{
		"frontend origin bypasses": {
			cfg:        cfg,
			headers:    map[string]string{"Origin": "https://portfolio.example.com"},
			wantStatus: http.StatusOK,
		},
		"referer fallback": {
			cfg:        cfg,
			headers:    map[string]string{"Referer": "https://portfolio.example.com/blog/1"},
			wantStatus: http.StatusOK,
		},
		"wildcard origin": {
			cfg:        cfg,
			headers:    map[string]string{"Origin": "https://pr-7.preview.example.com"},
			wantStatus: http.StatusOK,
		},
		"origin prefix is not a match": {
			cfg:         cfg,
			headers:     map[string]string{"Origin": "https://portfolio.example.com.evil.io"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: msgKeyRequired,
		},
		"missing key": {
			cfg:         cfg,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: msgKeyRequired,
		},
		"wrong key": {
			cfg:         cfg,
			headers:     map[string]string{"x-api-key": "nope"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: msgKeyInvalid,
		},
		"correct key": {
			cfg:        cfg,
			headers:    map[string]string{"x-api-key": "s3cret"},
			wantStatus: http.StatusOK,
		},
		"bypass disabled": {
			cfg: AccessConfig{
				Secret:          "s3cret",
				Header:          "x-api-key",
				FrontendOrigins: cfg.FrontendOrigins,
			},
			headers:     map[string]string{"Origin": "https://portfolio.example.com"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: msgKeyRequired,
		},
		"no secret configured": {
			cfg:         AccessConfig{Header: "x-api-key"},
			headers:     map[string]string{"x-api-key": ""},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: msgKeyRequired,
		},
		"no secret configured with key": {
			cfg:         AccessConfig{Header: "x-api-key"},
			headers:     map[string]string{"x-api-key": "anything"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: msgKeyInvalid,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rec := serve(newEngine(Access(tc.cfg)), req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantMessage == "" {
				return
			}
			body := decode(t, rec)
			if body["message"] != tc.wantMessage {
				t.Errorf("message = %v, want %q", body["message"], tc.wantMessage)
			}
			if _, ok := body["timestamp"]; !ok {
				t.Error("body missing timestamp")
			}
			if strings.Contains(rec.Body.String(), "s3cret") {
				t.Error("response leaks the secret")
			}
		})
	}
}

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"https://a.example.com/", "localhost:*", "http://b.example.com", "*.example.org"}
	tests := map[string]bool{
		"https://a.example.com":       true,
		"HTTPS://A.example.com":       true,
		"http://a.example.com":        false,
		"http://localhost:5173":       true,
		"http://b.example.com/path":   true,
		"https://b.example.com":       false,
		"a.example.com":               false,
		"":                            false,
		"https://a.example.com.other": false,
		"https://cdn.example.org":     true,
		"https://example.org":         false,
		"http://localhost":            false,
	}
	for raw, want := range tests {
		if got := OriginAllowed(raw, allowed); got != want {
			t.Errorf("OriginAllowed(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestRateLimitWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := newEngine(RateLimit(RateLimitConfig{
		Name:   "general",
		Store:  ratelimit.NewRedisStore(rdb, "rl:"),
		Window: time.Minute,
		Max:    3,
	}))
	hit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		return serve(r, req)
	}

	for i := 1; i <= 3; i++ {
		if rec := hit(); rec.Code != http.StatusOK {
			t.Fatalf("hit %d status = %d", i, rec.Code)
		}
	}
	rec := hit()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("hit 4 status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if got := rec.Header().Get("RateLimit-Remaining"); got != "0" {
		t.Errorf("RateLimit-Remaining = %q, want 0", got)
	}
	body := decode(t, rec)
	if body["message"] != msgTooManyRequests {
		t.Errorf("message = %v", body["message"])
	}
	if _, ok := body["retryAfter"]; !ok {
		t.Error("body missing retryAfter")
	}

	mr.FastForward(time.Minute + time.Second)
	if rec := hit(); rec.Code != http.StatusOK {
		t.Fatalf("status after window = %d, want 200", rec.Code)
	}
}

func TestRateLimitKeys(t *testing.T) {
	r := newEngine(RateLimit(RateLimitConfig{
		Name:   "general",
		Store:  ratelimit.NewMemoryStore(),
		Window: time.Minute,
		Max:    1,
		Key:    APIKeyOrIP("x-api-key"),
	}))
	send := func(key string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		if key != "" {
			req.Header.Set("x-api-key", key)
		}
		return serve(r, req).Code
	}

	if got := send(""); got != http.StatusOK {
		t.Fatalf("first ip hit = %d", got)
	}
	if got := send("k1"); got != http.StatusOK {
		t.Errorf("key hit after ip exhausted = %d, want 200", got)
	}
	if got := send("k1"); got != http.StatusTooManyRequests {
		t.Errorf("second key hit = %d, want 429", got)
	}
	if got := send(""); got != http.StatusTooManyRequests {
		t.Errorf("second ip hit = %d, want 429", got)
	}
}

type failingStore struct{}

func (failingStore) Take(context.Context, string, time.Duration) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("store down")
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := newEngine(RateLimit(RateLimitConfig{Name: "general", Store: failingStore{}, Window: time.Minute, Max: 1}))
	for i := 0; i < 3; i++ {
		if rec := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil)); rec.Code != http.StatusOK {
			t.Fatalf("hit %d status = %d, want 200", i, rec.Code)
		}
	}
}

func TestContactReject(t *testing.T) {
	r := newEngine(RateLimit(RateLimitConfig{
		Name:   "contact",
		Store:  ratelimit.NewMemoryStore(),
		Window: time.Minute,
		Max:    1,
		Reject: RejectContact,
	}))
	serve(r, httptest.NewRequest(http.MethodPost, "/ping", nil))
	rec := serve(r, httptest.NewRequest(http.MethodPost, "/ping", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != false || body["message"] != msgTooManyContacts {
		t.Errorf("body = %v", body)
	}
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("generated id %q is not a uuid", rec.Header().Get(RequestIDHeader))
	}

	inbound := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, inbound)
	if got := serve(r, req).Header().Get(RequestIDHeader); got != inbound {
		t.Errorf("request id = %q, want inbound %q", got, inbound)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	if got := serve(r, req).Header().Get(RequestIDHeader); got == "<script>" {
		t.Error("malformed inbound id was echoed")
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/echo", func(c *gin.Context) {
		var v map[string]any
		if err := c.ShouldBindJSON(&v); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.Status(http.StatusNoContent)
	})

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":"0123456789"}`)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversize status = %d, want 413", rec.Code)
	}
	rec = serve(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`)))
	if rec.Code != http.StatusNoContent {
		t.Errorf("small body status = %d, want 204", rec.Code)
	}
}

func TestBodyLimitUndeclaredLength(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(64))
	r.POST("/echo", func(c *gin.Context) {
		var v map[string]any
		if err := c.ShouldBindJSON(&v); err != nil {
			if c.IsAborted() {
				return
			}
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.Status(http.StatusNoContent)
	})

	tests := map[string]struct {
		body string
		want int
	}{
		"over the limit":   {body: `{"a":"` + strings.Repeat("x", 200) + `"}`, want: http.StatusRequestEntityTooLarge},
		"within the limit": {body: `{"a":"x"}`, want: http.StatusNoContent},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tc.body))
			req.ContentLength = -1
			req.TransferEncoding = []string{"chunked"}
			if rec := serve(r, req); rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := serve(newEngine(SecurityHeaders(true)), req)
	want := map[string]string{
		"X-Content-Type-Options":     "nosniff",
		"X-Frame-Options":            "SAMEORIGIN",
		"Referrer-Policy":            "no-referrer",
		"X-Download-Options":         "noopen",
		"Cross-Origin-Opener-Policy": "same-origin",
		"Strict-Transport-Security":  "max-age=15552000; includeSubdomains",
	}
	for h, v := range want {
		if got := rec.Header().Get(h); !strings.EqualFold(got, v) {
			t.Errorf("%s = %q, want %q", h, got, v)
		}
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	rec = serve(newEngine(SecurityHeaders(false)), httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS sent outside production")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("nosniff missing outside production")
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(nil, false))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decode(t, rec)
	if _, ok := body["error"]; ok {
		t.Error("stack exposed outside development")
	}
}
