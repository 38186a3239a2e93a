package remote

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Its-donkey/channel-panel/logging"
)

type requestIDKey struct{}

// WithRequestID stores a request ID on ctx for transports that forward it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored on ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Logged wraps next so that every call is stamped with a request ID and logged
// with its duration and outcome.
func Logged(next Caller, logger *logging.Logger) Caller {
	if logger == nil {
		return next
	}
	return CallerFunc(func(ctx context.Context, req Request) (json.RawMessage, error) {
		id := RequestID(ctx)
		if id == "" {
			id = uuid.New().String()
			ctx = WithRequestID(ctx, id)
		}
		start := time.Now()

		body, err := next.Call(ctx, req)

		lc := logger.WithRequestID(id).
			WithCategory("remote").
			WithField("integration", req.Integration).
			WithField("method", req.Method).
			WithField("path", req.Path)
		if err != nil {
			lc.WithField("kind", string(KindOf(err)))
			if status := StatusOf(err); status != 0 {
				lc.WithField("status", status)
			}
			lc.Done(logging.ERROR, req.Method+" "+req.Path+" failed", start, err)
			return nil, err
		}
		lc.WithField("bytes", len(body)).Done(logging.DEBUG, req.Method+" "+req.Path, start, nil)
		return body, nil
	})
}
