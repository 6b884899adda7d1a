package gcn

import (
	. "github.com/gomlx/exceptions"
	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/ml/layers/activations"
)

// Encoder maps the node features to a hidden embedding shared by the
// discriminator heads, by stacking two graph convolutions:
//
//	dropout → Convolution(numFeatures→hiddenDim) → ReLU → dropout → Convolution(hiddenDim→hiddenDim)
//
// It returns the embedding matrix, shaped `[numNodes, hiddenDim]`.
//
// The two convolutions ("gc1" and "gc2" scopes) have independent kernels and
// biases. The dropout rate is read from [ParamDropoutRate] and only applies
// while training.
func Encoder(ctx *context.Context, x, adj *Node, hiddenDim int) *Node {
	if hiddenDim <= 0 {
		Panicf("gcn.Encoder: hiddenDim must be positive, got %d", hiddenDim)
	}
	x = dropoutFromContext(ctx, x)
	x = activations.Relu(Convolution(ctx.In("gc1"), x, adj, hiddenDim, true))
	x = dropoutFromContext(ctx, x)
	return Convolution(ctx.In("gc2"), x, adj, hiddenDim, true)
}
