package trace

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

type traceKey struct{}

// request is the tracing state of one inbound request. Every outbound call made
// on its behalf takes the next span number.
type request struct {
	id   string
	span atomic.Int64
}

func GenerateID() string {
	return uuid.NewString()
}

// WithRequestAndSpan starts tracing requestID in ctx, with span numbering
// continuing after initialSpan.
func WithRequestAndSpan(ctx context.Context, requestID string, initialSpan int64) context.Context {
	r := &request{id: requestID}
	r.span.Store(initialSpan)
	return context.WithValue(ctx, traceKey{}, r)
}

func fromContext(ctx context.Context) (*request, bool) {
	if ctx == nil {
		return nil, false
	}
	r, ok := ctx.Value(traceKey{}).(*request)
	return r, ok
}

func RequestIDFromContext(ctx context.Context) string {
	if r, ok := fromContext(ctx); ok {
		return r.id
	}
	return ""
}

// CurrentSpanID reads the span without advancing it; "0" before any outbound call.
func CurrentSpanID(ctx context.Context) string {
	r, ok := fromContext(ctx)
	if !ok {
		return "0"
	}
	return strconv.FormatInt(max(r.span.Load(), 0), 10)
}

// NextSpanID advances the span and returns the request id with it.
// Outside a traced request it invents a request id and returns span "1".
func NextSpanID(ctx context.Context) (requestID, spanID string) {
	r, ok := fromContext(ctx)
	if !ok {
		return GenerateID(), "1"
	}
	return r.id, strconv.FormatInt(max(r.span.Add(1), 1), 10)
}
