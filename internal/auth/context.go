package auth

import "context"

type tutorContextKey struct{}

// ContextWithTutor attaches the authenticated tutor to the context.
func ContextWithTutor(ctx context.Context, tutor Tutor) context.Context {
	tutor.PasswordHash = ""
	return context.WithValue(ctx, tutorContextKey{}, &tutor)
}

// TutorFromContext extracts the authenticated tutor from the context.
func TutorFromContext(ctx context.Context) (Tutor, bool) {
	if ctx == nil {
		return Tutor{}, false
	}
	v, ok := ctx.Value(tutorContextKey{}).(*Tutor)
	if !ok || v == nil {
		return Tutor{}, false
	}
	return *v, true
}

// TutorIDFromContext returns the id of the authenticated tutor, if any.
func TutorIDFromContext(ctx context.Context) (string, bool) {
	t, ok := TutorFromContext(ctx)
	if !ok || t.ID == "" {
		return "", false
	}
	return t.ID, true
}
