// internal/logging/context.go
package logging

import (
	"context"

	"go.uber.org/zap"
)

// Context key types
type projectCtxKey struct{}
type stepCtxKey struct{}

// WithProject attaches the project being operated on.
func WithProject(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, projectCtxKey{}, name)
}

// ProjectFromContext returns the project name, or "" if unset.
func ProjectFromContext(ctx context.Context) string {
	name, _ := ctx.Value(projectCtxKey{}).(string)
	return name
}

// WithStep attaches the activation step currently running.
func WithStep(ctx context.Context, step string) context.Context {
	return context.WithValue(ctx, stepCtxKey{}, step)
}

// StepFromContext returns the activation step, or "" if unset.
func StepFromContext(ctx context.Context) string {
	step, _ := ctx.Value(stepCtxKey{}).(string)
	return step
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	fields := make([]zap.Field, 0, 2)
	if name := ProjectFromContext(ctx); name != "" {
		fields = append(fields, zap.String("project", name))
	}
	if step := StepFromContext(ctx); step != "" {
		fields = append(fields, zap.String("step", step))
	}
	return fields
}
