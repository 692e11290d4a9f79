package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, http.NoBody))
	return rr
}

func TestMiddleware_LabelsSubrouterIndexRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Route("/collections/{collection}/documents/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("hello"))
		})
		r.Get("/raw", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	})

	const doc = "/collections/{collection}/documents/{id}"
	okCounter := HTTPRequestsTotal.WithLabelValues("GET", doc, "200")
	rawCounter := HTTPRequestsTotal.WithLabelValues("GET", doc+"/raw", "404")
	okBefore, rawBefore := testutil.ToFloat64(okCounter), testutil.ToFloat64(rawCounter)
	bytesBefore := testutil.ToFloat64(HTTPResponseBytes.WithLabelValues(doc))

	serve(r, "GET", "/collections/docs/documents/a")
	serve(r, "GET", "/collections/docs/documents/b/raw")

	if got := testutil.ToFloat64(okCounter); got != okBefore+1 {
		t.Errorf("requests_total{%s} = %v, want %v", doc, got, okBefore+1)
	}
	if got := testutil.ToFloat64(rawCounter); got != rawBefore+1 {
		t.Errorf("requests_total{%s/raw} = %v, want %v", doc, got, rawBefore+1)
	}
	if got := testutil.ToFloat64(HTTPResponseBytes.WithLabelValues(doc)); got != bytesBefore+5 {
		t.Errorf("response_bytes_total = %v, want %v", got, bytesBefore+5)
	}
}

func TestMiddleware_ImplicitOKStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/resource", func(http.ResponseWriter, *http.Request) {})

	counter := HTTPRequestsTotal.WithLabelValues("POST", "/resource", "200")
	before := testutil.ToFloat64(counter)
	serve(r, "POST", "/resource")
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("requests_total = %v, want %v", got, before+1)
	}
}

func TestMiddleware_Unmatched(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/search", func(http.ResponseWriter, *http.Request) {})

	counter := HTTPRequestsTotal.WithLabelValues("GET", UnmatchedRoute, "404")
	before := testutil.ToFloat64(counter)
	serve(r, "GET", "/elsewhere")
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("requests_total{unmatched} = %v, want %v", got, before+1)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"":                            UnmatchedRoute,
		"/":                           "/",
		"/search":                     "/search",
		"/collections/{c}/docs/{id}/": "/collections/{c}/docs/{id}",
	}

	for in, want := range tests {
		if got := routeLabel(in); got != want {
			t.Errorf("routeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()

	err := prometheus.Register(HTTPRequestsTotal)
	var already prometheus.AlreadyRegisteredError
	if !errors.As(err, &already) {
		t.Errorf("expected HTTP metrics on the default registry, got %v", err)
	}
}
