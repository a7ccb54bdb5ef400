package chat

import (
	"context"

	"go.uber.org/zap"

	"github.com/joeyaochen/portfolio/internal/completion"
	"github.com/joeyaochen/portfolio/internal/responder"
)

// Resolver turns a visitor question into the assistant's answer.
type Resolver interface {
	Resolve(ctx context.Context, history []Turn, query string) (string, error)
}

// Completer is the remote completion backend.
type Completer interface {
	Complete(ctx context.Context, history []completion.Message, user string) (string, error)
}

// TieredResolver tries the local keyword rules, then the remote backend when
// one is configured, then a generic answer. Remote failures are logged and
// never surface to the visitor.
type TieredResolver struct {
	local  *responder.Responder
	remote Completer
	logger *zap.Logger
}

// NewTieredResolver builds the resolution chain. Pass a nil remote to disable
// the remote tier.
func NewTieredResolver(local *responder.Responder, remote Completer, logger *zap.Logger) *TieredResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TieredResolver{local: local, remote: remote, logger: logger}
}

func (r *TieredResolver) Resolve(ctx context.Context, history []Turn, query string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if answer, ok := r.local.Match(query); ok {
		return answer, nil
	}

	if r.remote != nil {
		msgs := make([]completion.Message, len(history))
		for i, t := range history {
			msgs[i] = completion.Message{Role: string(t.Role), Content: t.Content}
		}
		answer, err := r.remote.Complete(ctx, msgs, query)
		if err == nil && answer != "" {
			return answer, nil
		}
		if err != nil {
			r.logger.Warn("remote completion failed, using generic answer", zap.Error(err))
		}
	}

	return r.local.Fallback(), nil
}
