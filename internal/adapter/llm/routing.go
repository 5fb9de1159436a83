package llm

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

// RoutingClient prefers a cheap classification endpoint and latches to the
// fallback provider after the first failure. The latch is one-way for the
// process lifetime; the preferred provider is never re-probed. See DESIGN.md
// for why this is reproduced as-is.
type RoutingClient struct {
	preferred Client
	fallback  Client
	latched   atomic.Bool
	logger    *zap.Logger
}

// NewRoutingClient wires the preferred and fallback providers. A nil
// preferred client latches immediately.
func NewRoutingClient(preferred, fallback Client, logger *zap.Logger) *RoutingClient {
	r := &RoutingClient{
		preferred: preferred,
		fallback:  fallback,
		logger:    logger,
	}
	if preferred == nil {
		r.latched.Store(true)
	}
	return r
}

// Complete runs the request on the preferred provider unless it has latched
// to the fallback. A preferred-provider failure latches and the same request
// is retried on the fallback within this call.
func (r *RoutingClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !r.latched.Load() {
		out, err := r.preferred.Complete(ctx, req)
		if err == nil {
			return out, nil
		}
		r.logger.Warn("preferred routing provider failed, latching to fallback",
			zap.Error(err))
		r.latched.Store(true)
	}
	return r.fallback.Complete(ctx, req)
}

// Latched reports whether the client has switched to the fallback provider.
func (r *RoutingClient) Latched() bool {
	return r.latched.Load()
}
