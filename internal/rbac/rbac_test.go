package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"learner", "question:view", true},
		{"learner", "question:create", false},
		{"author", "question:create", true},
		{"author", "question:delete", true},
		{"author", "config:reload", false},
		{"admin", "anything:at-all", true},
		{"ghost", "question:view", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
	if !c.Any("learner", "question:create", "submission:create") {
		t.Error("Any should match the second permission")
	}
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require("question:create")(ok)

	for role, want := range map[string]int{"": 403, "learner": 403, "author": 204, "admin": 204} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if role != "" {
			req = req.WithContext(WithRole(req.Context(), role))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("role %q: status %d, want %d", role, rec.Code, want)
		}
	}
}

func TestCan(t *testing.T) {
	ctx := WithRole(context.Background(), "author")
	if !Can(ctx, "question:view") {
		t.Error("author should view questions")
	}
	if Can(context.Background(), "question:view") {
		t.Error("anonymous must not pass")
	}
}
