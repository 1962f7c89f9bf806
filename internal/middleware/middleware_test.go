package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterBlocksWritesOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ctx, 2, time.Minute)
	rl.now = func() time.Time { return clock }

	r := gin.New()
	r.Use(rl.Middleware())
	r.Any("/api/students/1", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(method string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/api/students/1", nil))
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := do(http.MethodPatch); code != http.StatusOK {
			t.Fatalf("write %d: status %d", i, code)
		}
	}
	if code := do(http.MethodDelete); code != http.StatusTooManyRequests {
		t.Fatalf("third write: status %d, want 429", code)
	}
	if code := do(http.MethodGet); code != http.StatusOK {
		t.Fatalf("read should not be limited, got %d", code)
	}

	clock = clock.Add(30 * time.Second)
	if code := do(http.MethodPatch); code != http.StatusOK {
		t.Fatalf("after refill: status %d", code)
	}
}

func TestFlashSessionIssuesCookieOnce(t *testing.T) {
	r := gin.New()
	r.Use(FlashSession(false))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, SessionID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookieName {
		t.Fatalf("expected session cookie, got %v", cookies)
	}
	sid := w.Body.String()
	if sid != cookies[0].Value {
		t.Fatalf("context sid %q differs from cookie %q", sid, cookies[0].Value)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("cookie should not be reissued")
	}
	if w.Body.String() != sid {
		t.Fatalf("session id changed: %q != %q", w.Body.String(), sid)
	}
}

func TestFlashSessionReplacesForgedCookie(t *testing.T) {
	r := gin.New()
	r.Use(FlashSession(false))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, SessionID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "../../etc"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() == "../../etc" {
		t.Fatal("invalid session id accepted")
	}
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	large := strings.Repeat("student-records ", 200)

	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64, Skipper: SkipPaths("/export")}))
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/export", func(c *gin.Context) { c.String(http.StatusOK, large) })

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/large")
	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("expected br encoding, headers %v", w.Header())
	}
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil {
		t.Fatal(err)
	}
	if string(plain) != large {
		t.Fatal("decompressed body mismatch")
	}

	w = get("/small")
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != "ok" {
		t.Fatalf("small body should pass through, got %q %v", w.Body.String(), w.Header())
	}

	w = get("/export")
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != large {
		t.Fatal("skipped path should not be compressed")
	}
}

func TestCacheControl(t *testing.T) {
	r := gin.New()
	r.GET("/static/style.css", CacheControl(3600), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Fatalf("Cache-Control = %q", got)
	}
}
