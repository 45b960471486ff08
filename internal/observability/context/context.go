package context

import (
	"context"
	"strings"
)

type requestIDKey struct{}
type companyIDKey struct{}

// WithRequestID stores the request ID for log/trace correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(requestID))
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(requestIDKey{}).(string)
	return requestID
}

// WithCompanyID stores the company ID for log correlation.
func WithCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyIDKey{}, strings.TrimSpace(companyID))
}

// CompanyIDFromContext returns the company ID, or "".
func CompanyIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	companyID, _ := ctx.Value(companyIDKey{}).(string)
	return companyID
}
