package gcn

import (
	"testing"

	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/graph/graphtest"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"

	_ "github.com/gomlx/gomlx/backends/default"
)

// While training, dropout must zero ~rate of the values and rescale the
// survivors by 1/(1-rate), preserving the expected mean.
func TestDropoutWhileTraining(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	for _, rate := range []float64{0.1, 0.5} {
		ctx := context.New()
		ctx.RngStateFromSeed(42)
		ctx.SetParam(ParamDropoutRate, rate)
		exec := context.NewExec(backend, ctx, func(ctx *context.Context, g *Graph) []*Node {
			ctx.SetTraining(g, true)
			x := Ones(g, shapes.Make(dtypes.Float32, 200, 50))
			out := dropoutFromContext(ctx, x)
			zeros := ConvertDType(Equal(out, ScalarZero(g, dtypes.Float32)), dtypes.Float32)
			return []*Node{ReduceAllMean(zeros), ReduceAllMean(out)}
		})
		results := exec.Call()
		zeroFraction := float64(results[0].Value().(float32))
		mean := float64(results[1].Value().(float32))
		require.InDelta(t, rate, zeroFraction, 0.02, "dropout(rate=%g) zeroed %g of the values", rate, zeroFraction)
		require.InDelta(t, 1.0, mean, 0.05, "dropout(rate=%g) must preserve the expected mean, got %g", rate, mean)
	}
}

// During inference dropout is the identity.
func TestDropoutInference(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	ctx := context.New()
	ctx.RngStateFromSeed(42)
	ctx.SetParam(ParamDropoutRate, 0.9)
	diff := context.ExecOnce(backend, ctx, func(ctx *context.Context, g *Graph) *Node {
		ctx.SetTraining(g, false)
		x := IotaFull(g, shapes.Make(dtypes.Float32, 20, 5))
		return ReduceAllMax(Abs(Sub(dropoutFromContext(ctx, x), x)))
	})
	require.Equal(t, float32(0), diff.Value().(float32))
}

func TestDropoutInvalidRate(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	for _, rate := range []float64{-0.1, 1.0, 1.5} {
		ctx := context.New()
		ctx.RngStateFromSeed(42)
		ctx.SetParam(ParamDropoutRate, rate)
		require.Panics(t, func() {
			_ = context.ExecOnce(backend, ctx, func(ctx *context.Context, g *Graph) *Node {
				ctx.SetTraining(g, true)
				x := Ones(g, shapes.Make(dtypes.Float32, 4, 4))
				return dropoutFromContext(ctx, x)
			})
		}, "dropout rate %g must be rejected", rate)
	}
}
