package interview

import (
	"context"

	"server/internal/providers/deepseek"
)

// Gateway is the outbound model contract used by the orchestrators and
// handlers. *deepseek.Client satisfies it; tests substitute fakes.
type Gateway interface {
	Send(ctx context.Context, prompt string, opts deepseek.SendOptions) (string, error)
	SendStream(ctx context.Context, prompt string, opts deepseek.SendOptions, onChunk func(string)) (string, error)
}
