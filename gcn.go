// Package gcn implements a multi-task Graph Convolutional Network (GCN) for GoMLX:
// a shared graph encoder and lightweight discriminator heads for neighbor
// prediction and anomaly detection.
//
// The package only defines the forward graph of the model -- all the model
// functions here take a [context.Context] (where the trainable weights live) and
// input [graph.Node] tensors, and return the output nodes. Training, losses,
// optimizers and checkpointing are left to the standard GoMLX machinery: any
// optimizer can enumerate the weights with [context.Context.EnumerateVariables].
//
// The two inputs to the models are:
//
//   - x: the node features matrix, shaped `[numNodes, numFeatures]`.
//   - adj: the propagation operator, an already normalized adjacency matrix shaped
//     `[numNodes, numNodes]`. Propagation is simply `adj · state`, so the caller
//     decides the normalization (or passes the identity for no propagation).
//
// See [Convolution] for an edge-list alternative to the dense `adj` operator.
//
// Architecture from "Semi-Supervised Classification with Graph Convolutional
// Networks" (https://arxiv.org/abs/1609.02907), with the multi-task heads on top.
package gcn

import (
	. "github.com/gomlx/exceptions"
	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/ml/layers"
)

// ParamDropoutRate is the context hyperparameter with the dropout rate applied
// between the model layers. It must be in the range `[0.0, 1.0)`.
//
// It only has an effect if `Context.IsTraining() == true`: during evaluation and
// inference dropout is a no-op. The surviving values are re-scaled by
// `1/(1-rate)`, so the expected magnitude of the input is preserved.
//
// The default is `0.0`, which means no dropout.
const ParamDropoutRate = "gcn_dropout_rate"

// dropoutFromContext applies dropout configured by [ParamDropoutRate].
//
// It panics if the configured rate is not in `[0.0, 1.0)`.
func dropoutFromContext(ctx *context.Context, x *Node) *Node {
	rate := context.GetParamOr(ctx, ParamDropoutRate, 0.0)
	if rate < 0.0 || rate >= 1.0 {
		Panicf("invalid %q hyperparameter value %g for scope %q: it must be in the range [0.0, 1.0)",
			ParamDropoutRate, rate, ctx.Scope())
	}
	return layers.DropoutStatic(ctx, x, rate)
}

// NumParametersInScope returns the number of trainable parameter values (the sum
// of the sizes of the trainable variables) under the current scope of ctx.
//
// Handy to check that two sub-models don't accidentally share weights: their
// scopes must each own their full count.
func NumParametersInScope(ctx *context.Context) int {
	var total int
	ctx.EnumerateVariablesInScope(func(v *context.Variable) {
		if v.Trainable {
			total += v.Shape().Size()
		}
	})
	return total
}
