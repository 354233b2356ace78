package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChecker_Has(t *testing.T) {
	c := NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{RoleAdmin, PermResultsList, true},
		{RoleAdmin, "anything:else", true},
		{RoleStaff, PermResultsView, true},
		{RoleStaff, PermResultsNotify, true},
		{RoleStaff, PermVariantsView, true},
		{RoleStaff, PermEventsList, false},
		{RoleStaff, "users:manage", false},
		{RoleAdmin, PermEventsList, true},
		{"", PermResultsList, false},
		{"student", PermResultsList, false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestRequire(t *testing.T) {
	h := Require(PermResultsList)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for role, want := range map[string]int{"": 403, "student": 403, RoleStaff: 204, RoleAdmin: 204} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithRole(context.Background(), role))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Errorf("role %q: status %d, want %d", role, rr.Code, want)
		}
	}
}
