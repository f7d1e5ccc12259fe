package embedding

import "context"

// Provider converts text into fixed-dimension vectors. All texts encoded by
// one provider instance share the same dimension, which is determined by the
// loaded model.
type Provider interface {
	// Encode embeds a batch of texts, returning one vector per input in order.
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}
