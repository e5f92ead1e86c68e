package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mark("a"), mark("b"), mark("c"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "a,b,c,handler" {
		t.Errorf("unexpected order: %v", order)
	}
}

func TestCORS_CustomOrigin(t *testing.T) {
	h := CORS(DefaultCORS("https://dash.example.com"))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/latency", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("CORS should pass non-OPTIONS requests through, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Errorf("unexpected origin: %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Errorf("expected Vary: Origin, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "" {
		t.Errorf("non-preflight response should not carry Allow-Methods, got %q", got)
	}
}

func TestDefaultCORS_EmptyOrigin(t *testing.T) {
	if got := DefaultCORS("").AllowOrigin; got != "*" {
		t.Errorf("expected *, got %q", got)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(HeaderRequestID)
	}))

	// Генерируется, если не передан
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(rec.Header().Get(HeaderRequestID)); err != nil {
		t.Errorf("expected generated uuid, got %q", rec.Header().Get(HeaderRequestID))
	}
	if seen != rec.Header().Get(HeaderRequestID) {
		t.Errorf("handler should see the same id")
	}

	// Передаётся дальше, если задан клиентом
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "client-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != "client-id" {
		t.Errorf("expected client-id, got %q", got)
	}
}

func TestRecovery(t *testing.T) {
	h := Chain(CORS(DefaultCORS("*")), Recovery(testLogger()))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/latency", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected ACAO after panic, got %q", got)
	}
	if !strings.Contains(rec.Body.String(), string(ErrCodeInternalError)) {
		t.Errorf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := wrapResponseWriter(rec)

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK)
	if rw.status != http.StatusNotFound {
		t.Errorf("expected first status to win, got %d", rw.status)
	}

	rw = wrapResponseWriter(httptest.NewRecorder())
	rw.Write([]byte("ok"))
	if rw.status != http.StatusOK {
		t.Errorf("implicit status should be 200, got %d", rw.status)
	}
}
