package auth

import (
	"context"

	"github.com/rulemakers-physics/rmleveltest/internal/rbac"
)

type ctxKey string

const ctxKeySub ctxKey = "sub"

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySub, sub)
}

func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKeySub).(string)
	return s
}

// withClaims stores the verified subject and role for downstream handlers
// and rbac.Require.
func withClaims(ctx context.Context, c *Claims) context.Context {
	return rbac.WithRole(WithSubject(ctx, c.Sub), c.Role)
}
