package obs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                     "/",
		"/metrics":                             "/metrics",
		"/students":                            "/students",
		"/students/01HV8Y2E5Q7M3N4P5R6S7T8V9W": "/students/:id",
		"/students/abc/attendance":             "/students/:id/attendance",
		"/students/abc/extra":                  "/students/abc/extra",
		"/students/abc?x=1":                    "/students/:id",
		"/auth/login":                          "/auth/login",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}

func TestInstrumentExposesRequestCounter(t *testing.T) {
	Init()
	Init()

	h := Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/students/xyz", nil))

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",path="/students/:id",status="204"}`) {
		t.Fatalf("expected canonical request counter in metrics output")
	}
}
