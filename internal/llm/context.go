package llm

import "context"

type ctxKey int

const (
	purposeKey ctxKey = iota
	studentKey
)

// WithPurpose labels the model calls made under ctx, e.g. "schedule".
// The label is stored with each audit event.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the purpose label, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// WithStudent records which student the calls under ctx are made for.
func WithStudent(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, studentKey, id)
}

// StudentFrom returns the student id set by WithStudent, or "".
func StudentFrom(ctx context.Context) string {
	v, _ := ctx.Value(studentKey).(string)
	return v
}
