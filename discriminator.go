package gcn

import (
	. "github.com/gomlx/exceptions"
	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/ml/layers"
	"github.com/gomlx/gomlx/ml/layers/activations"
)

// Discriminator adds a task head on top of an embedding: a two-layer
// fully-connected network mapping `[numNodes, embeddingDim]` embeddings to
// `[numNodes, numClasses]` logits:
//
//	ReLU → dropout → Dense(embeddingDim→embeddingDim/2) → ReLU → dropout → Dense(→numClasses)
//
// The hidden width is the floor of embeddingDim/2 -- an odd embeddingDim just
// gets a narrower hidden layer. An embeddingDim < 2 would make it zero-width and
// is rejected. The dense kernels use the context's default initializer.
//
// The dropout rate is read from [ParamDropoutRate] and only applies while
// training.
func Discriminator(ctx *context.Context, embedding *Node, numClasses int) *Node {
	if numClasses <= 0 {
		Panicf("gcn.Discriminator: numClasses must be positive, got %d", numClasses)
	}
	assertNodeFeatures(embedding)
	embeddingDim := embedding.Shape().Dimensions[1]
	if embeddingDim < 2 {
		Panicf("gcn.Discriminator: embedding dimension must be at least 2, got %s -- "+
			"the hidden layer is half the embedding dimension, and it can't be zero-width",
			embedding.Shape())
	}
	x := activations.Relu(embedding)
	x = dropoutFromContext(ctx, x)
	x = activations.Relu(layers.DenseWithBias(ctx.In("hidden"), x, embeddingDim/2))
	x = dropoutFromContext(ctx, x)
	return layers.DenseWithBias(ctx.In("logits"), x, numClasses)
}
