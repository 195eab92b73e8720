package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gungunbajpai07/TutorTrack/internal/auth"
)

func newAuthAPI(t *testing.T) (*API, *auth.Service) {
	t.Helper()
	store := auth.NewMemoryStore()
	svc, err := auth.NewService(store, auth.WithTokenSecret("authn-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return &API{auth: svc}, svc
}

func TestWithAuthAttachesTutor(t *testing.T) {
	api, svc := newAuthAPI(t)
	sess, err := svc.Register(context.Background(), "grace", "pw-grace-1", "Grace")
	if err != nil {
		t.Fatal(err)
	}

	var seen auth.Tutor
	handler := api.withAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.TutorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	req.Header.Set("Authorization", "bearer "+sess.Token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if seen.ID != sess.User.ID || seen.Username != "grace" {
		t.Fatalf("unexpected tutor in context: %+v", seen)
	}
	if seen.PasswordHash != "" {
		t.Fatal("password hash should not travel in the request context")
	}
}

func TestWithAuthRejects(t *testing.T) {
	api, svc := newAuthAPI(t)
	ghost, _, err := svc.IssueToken(auth.Tutor{ID: "01ARZ3NDEKTSV4RRFFQ69G5FAV", Username: "ghost"})
	if err != nil {
		t.Fatal(err)
	}

	handler := api.withAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", "authentication token missing"},
		{"wrong scheme", "Basic abc", "authentication token missing"},
		{"empty bearer", "Bearer   ", "authentication token missing"},
		{"garbage", "Bearer not.a.jwt", "invalid or expired token"},
		{"deleted tutor", "Bearer " + ghost, "user not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/students", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
			if got := rr.Header().Get("WWW-Authenticate"); got == "" {
				t.Fatalf("expected WWW-Authenticate header set")
			}
			body := decodeRecorder(t, rr)
			if body["error"] != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, body["error"])
			}
		})
	}
}
