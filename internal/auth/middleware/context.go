package auth

import "context"

type subjectKey struct{}

// WithSubject records the authenticated learner on ctx.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

// SubjectFromContext returns the learner set by JWTMiddleware, or "" when
// auth is disabled.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}
