package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rulemakers-physics/rmleveltest/internal/rbac"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return NewAuthService("test-hmac", time.Hour, Account{Username: "admin", PassHash: string(h), Role: rbac.RoleAdmin})
}

func TestLoginHandler(t *testing.T) {
	a := newTestService(t)
	cases := []struct {
		body string
		want int
	}{
		{`{"username":"admin","password":"s3cret"}`, http.StatusOK},
		{`{"username":"admin","password":"wrong"}`, http.StatusUnauthorized},
		{`{"username":"nobody","password":"s3cret"}`, http.StatusUnauthorized},
		{`{not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		LoginHandler(a)(rr, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tc.body)))
		if rr.Code != tc.want {
			t.Errorf("%s: status %d, want %d", tc.body, rr.Code, tc.want)
		}
		if tc.want == http.StatusOK && !strings.Contains(rr.Body.String(), "access_token") {
			t.Errorf("no token in %s", rr.Body.String())
		}
	}
}

func TestJWTMiddleware_SetsRoleAndSubject(t *testing.T) {
	a := newTestService(t)
	tok, err := a.IssueJWT("admin", rbac.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	var gotRole, gotSub string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = rbac.RoleFromContext(r.Context())
		gotSub = SubjectFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/results", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || gotRole != rbac.RoleAdmin || gotSub != "admin" {
		t.Fatalf("status=%d role=%q sub=%q", rr.Code, gotRole, gotSub)
	}
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	a := newTestService(t)
	other := NewAuthService("other-secret", time.Hour)
	foreign, _ := other.IssueJWT("admin", rbac.RoleAdmin)

	expired := NewAuthService("test-hmac", time.Nanosecond)
	stale, _ := expired.IssueJWT("admin", rbac.RoleAdmin)
	time.Sleep(10 * time.Millisecond)

	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached")
	}))
	for name, header := range map[string]string{
		"missing":    "",
		"not bearer": "Basic abc",
		"garbage":    "Bearer abc.def.ghi",
		"wrong key":  "Bearer " + foreign,
		"expired":    "Bearer " + stale,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: status %d, want 401", name, rr.Code)
		}
	}
}
