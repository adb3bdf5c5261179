package api

import (
	"context"

	"sapaghor/internal/auth"
)

type ctxKey string

const ctxKeyStaff ctxKey = "staff"

func WithStaff(ctx context.Context, s *auth.Staff) context.Context {
	return context.WithValue(ctx, ctxKeyStaff, s)
}

func StaffFromContext(ctx context.Context) *auth.Staff {
	v := ctx.Value(ctxKeyStaff)
	if v == nil {
		return nil
	}
	s, _ := v.(*auth.Staff)
	return s
}
