package gcn

import (
	"math"

	. "github.com/gomlx/exceptions"
	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/ml/context/initializers"
	"github.com/gomlx/gomlx/types/shapes"
)

// Convolution adds one graph-convolutional layer: a learnable linear projection
// of the node features followed by propagation over the graph:
//
//	output = adj · (x · W) [+ bias]
//
// Where x is shaped `[numNodes, inputDim]`, adj is the `[numNodes, numNodes]`
// propagation operator and the output is shaped `[numNodes, outputDim]`.
//
// The kernel W (`[inputDim, outputDim]`) and the optional bias (`[outputDim]`)
// are initialized from a uniform distribution on `[-1/√outputDim, +1/√outputDim]`,
// seeded by the context's random state -- use Context.RngStateFromSeed for
// reproducible weights.
//
// The bias, if enabled, is added after the propagation, broadcast over the nodes.
func Convolution(ctx *context.Context, x, adj *Node, outputDim int, useBias bool) *Node {
	ctx = ctx.In("graph_conv")
	assertNodeFeatures(x)
	numNodes := x.Shape().Dimensions[0]
	if adj.Rank() != 2 || adj.Shape().Dimensions[0] != numNodes || adj.Shape().Dimensions[1] != numNodes {
		Panicf("gcn.Convolution: adj must be shaped [numNodes=%d, numNodes=%d], got %s",
			numNodes, numNodes, adj.Shape())
	}
	if adj.DType() != x.DType() {
		Panicf("gcn.Convolution: adj dtype %s != x dtype %s", adj.DType(), x.DType())
	}
	support := linearTransform(ctx, x, outputDim)
	output := Dot(adj, support)
	if useBias {
		output = addBias(ctx, output, outputDim)
	}
	return output
}

// ConvolutionEdges is [Convolution] with the propagation operator given as an
// edge list instead of a dense matrix: edgesSource and edgesTarget are integer
// tensors shaped `[numEdges]` (or `[numEdges, 1]`), and each edge contributes the
// projected state of its source node to the sum at its target node. This is the
// same unweighted sum aggregation as multiplying by a 0/1 adjacency matrix, but
// scales with the number of edges instead of numNodes².
//
// All edge indices must be in `[0, numNodes)` -- no checking is explicitly made
// (index values are only known at execution time), and the backend's
// Gather/Scatter discard out-of-range entries.
func ConvolutionEdges(ctx *context.Context, x, edgesSource, edgesTarget *Node, outputDim int, useBias bool) *Node {
	ctx = ctx.In("graph_conv")
	assertNodeFeatures(x)
	if (edgesSource.Rank() != 1 && edgesSource.Rank() != 2) ||
		!edgesSource.Shape().Equal(edgesTarget.Shape()) ||
		(edgesSource.Rank() == 2 && edgesSource.Shape().Dimensions[1] != 1) {
		Panicf("gcn.ConvolutionEdges: edgesSource and edgesTarget must have the same shape, either "+
			"[numEdges] or [numEdges, 1] of an integer dtype, got edgesSource.shape=%s edgesTarget.shape=%s",
			edgesSource.Shape(), edgesTarget.Shape())
	}
	if !edgesSource.DType().IsInt() {
		Panicf("gcn.ConvolutionEdges: edges must have an integer dtype, got %s", edgesSource.DType())
	}
	numNodes := x.Shape().Dimensions[0]
	support := linearTransform(ctx, x, outputDim)
	if edgesSource.Rank() == 1 {
		edgesSource = InsertAxes(edgesSource, -1)
		edgesTarget = InsertAxes(edgesTarget, -1)
	}
	// Sum the projected source states into their target rows.
	values := Gather(support, edgesSource)
	output := Scatter(edgesTarget, values, shapes.Make(support.DType(), numNodes, outputDim), false, false)
	if useBias {
		output = addBias(ctx, output, outputDim)
	}
	return output
}

// linearTransform creates the convolution kernel and computes `x · W`, the
// per-node projection before propagation.
func linearTransform(ctx *context.Context, x *Node, outputDim int) *Node {
	g := x.Graph()
	if outputDim <= 0 {
		Panicf("gcn.Convolution: outputDim must be positive, got %d", outputDim)
	}
	inputDim := x.Shape().Dimensions[1]
	stdv := 1.0 / math.Sqrt(float64(outputDim))
	ctxW := ctx.WithInitializer(initializers.RandomUniformFn(ctx, -stdv, stdv))
	weightsVar := ctxW.VariableWithShape("weights", shapes.Make(x.DType(), inputDim, outputDim))
	return Dot(x, weightsVar.ValueGraph(g))
}

// addBias adds the convolution bias, broadcast over the nodes axis. It shares
// the kernel's initialization policy.
func addBias(ctx *context.Context, output *Node, outputDim int) *Node {
	g := output.Graph()
	stdv := 1.0 / math.Sqrt(float64(outputDim))
	ctxB := ctx.WithInitializer(initializers.RandomUniformFn(ctx, -stdv, stdv))
	biasVar := ctxB.VariableWithShape("biases", shapes.Make(output.DType(), outputDim))
	return Add(output, InsertAxes(biasVar.ValueGraph(g), 0))
}

// assertNodeFeatures panics if x is not a valid `[numNodes, dim]` features matrix.
func assertNodeFeatures(x *Node) {
	if x.Rank() != 2 {
		Panicf("gcn: node features must be shaped [numNodes, dim], got %s", x.Shape())
	}
	if !x.DType().IsFloat() {
		Panicf("gcn: node features must have a float dtype, got %s", x.DType())
	}
}
