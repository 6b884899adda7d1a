package gcn

import (
	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"k8s.io/klog/v2"
)

// NumAnomalyClasses is the output width of the anomaly-detection head: each node
// is classified as normal or anomalous.
const NumAnomalyClasses = 2

// MultiTask builds the multi-task model: a shared [Encoder] feeding two
// independent [Discriminator] heads -- one predicting the neighborhood class
// (numClasses outputs) and one detecting anomalies ([NumAnomalyClasses] outputs).
//
// The heads live in the "neighbor" and "anomaly" context scopes and share no
// weights with each other.
//
// It returns the shared embedding (`[numNodes, hiddenDim]`) along with the
// logits of both heads; the caller applies the per-task losses.
func MultiTask(ctx *context.Context, x, adj *Node, hiddenDim, numClasses int) (embedding, neighborLogits, anomalyLogits *Node) {
	embedding = Encoder(ctx.In("encoder"), x, adj, hiddenDim)
	neighborLogits = Discriminator(ctx.In("neighbor"), embedding, numClasses)
	anomalyLogits = Discriminator(ctx.In("anomaly"), embedding, NumAnomalyClasses)
	if klog.V(2).Enabled() {
		klog.Infof("gcn.MultiTask: trainable parameters: encoder=%d, neighbor head=%d, anomaly head=%d",
			NumParametersInScope(ctx.In("encoder")),
			NumParametersInScope(ctx.In("neighbor")),
			NumParametersInScope(ctx.In("anomaly")))
	}
	return
}

// SingleTask builds the single-task model: an [Encoder] with one
// [Discriminator] head (in the "discriminator" scope).
//
// It returns the embedding and the head's logits, shaped `[numNodes, hiddenDim]`
// and `[numNodes, numClasses]`.
func SingleTask(ctx *context.Context, x, adj *Node, hiddenDim, numClasses int) (embedding, logits *Node) {
	embedding = Encoder(ctx.In("encoder"), x, adj, hiddenDim)
	logits = Discriminator(ctx.In("discriminator"), embedding, numClasses)
	if klog.V(2).Enabled() {
		klog.Infof("gcn.SingleTask: trainable parameters: encoder=%d, head=%d",
			NumParametersInScope(ctx.In("encoder")),
			NumParametersInScope(ctx.In("discriminator")))
	}
	return
}
