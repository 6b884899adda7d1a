package gcn

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gomlx/backends"
	"github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/pkg/errors"
)

// Model holds a compiled forward pass of one of the package's models, for
// inference. It is created with [NewSingleTask] or [NewMultiTask].
//
// The context given at creation owns the weights: pass a freshly created one for
// random weights, or one restored from a checkpoint with the trained weights.
// The compiled graph runs in inference mode, so dropout is disabled regardless
// of [ParamDropoutRate].
type Model struct {
	// backend used to compile and execute the model. It can be configured with GOMLX_BACKEND.
	backend backends.Backend

	// ctx with the model's weights.
	ctx *context.Context

	// exec executes the forward pass with the context.
	exec *context.Exec
}

// NewSingleTask compiles the [SingleTask] model for inference.
// Each call to [Model.Predict] returns the embedding and the head's logits.
func NewSingleTask(backend backends.Backend, ctx *context.Context, hiddenDim, numClasses int) *Model {
	return newModel(backend, ctx, func(ctx *context.Context, x, adj *graph.Node) []*graph.Node {
		embedding, logits := SingleTask(ctx, x, adj, hiddenDim, numClasses)
		return []*graph.Node{embedding, logits}
	})
}

// NewMultiTask compiles the [MultiTask] model for inference.
// Each call to [Model.Predict] returns the embedding, the neighbor-prediction
// logits and the anomaly-detection logits.
func NewMultiTask(backend backends.Backend, ctx *context.Context, hiddenDim, numClasses int) *Model {
	return newModel(backend, ctx, func(ctx *context.Context, x, adj *graph.Node) []*graph.Node {
		embedding, neighborLogits, anomalyLogits := MultiTask(ctx, x, adj, hiddenDim, numClasses)
		return []*graph.Node{embedding, neighborLogits, anomalyLogits}
	})
}

func newModel(backend backends.Backend, ctx *context.Context,
	modelFn func(ctx *context.Context, x, adj *graph.Node) []*graph.Node) *Model {
	m := &Model{backend: backend, ctx: ctx}
	m.exec = context.NewExec(backend, ctx, func(ctx *context.Context, x, adj *graph.Node) []*graph.Node {
		ctx.SetTraining(x.Graph(), false)
		return modelFn(ctx, x, adj)
	})
	return m
}

// Predict runs the forward pass on the given node features (`[numNodes,
// numFeatures]`) and propagation operator (`[numNodes, numNodes]`).
//
// Shape or configuration violations raised while building the graph are
// returned as an error.
func (m *Model) Predict(x, adj *tensors.Tensor) (outputs []*tensors.Tensor, err error) {
	err = exceptions.TryCatch[error](func() {
		outputs = m.exec.Call(x, adj)
	})
	if err != nil {
		return nil, errors.WithMessage(err, "gcn: failed to execute model")
	}
	return outputs, nil
}

// Context returns the context holding the model's weights.
func (m *Model) Context() *context.Context { return m.ctx }
