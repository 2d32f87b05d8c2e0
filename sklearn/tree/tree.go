// Package tree implements an ID3 decision tree classifier with multi-way
// splits on the distinct values of encoded features.
package tree

import (
	"math"
	"slices"
	"time"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/metrics"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Default hyperparameters.
const (
	DefaultMaxDepth        = 10
	DefaultMinSamplesSplit = 2
)

// node is one entry of the tree arena. A leaf carries only its label.
// An internal node routes on feature and falls back to label, the majority
// class of its training samples, when a value has no child.
type node struct {
	leaf     bool
	label    float64
	feature  int
	children map[float64]int
}

// DecisionTreeClassifier implements an ID3 decision tree.
// Nodes live in a slice and reference their children by index.
type DecisionTreeClassifier struct {
	state  *model.StateManager // State management (composition)
	logger log.Logger

	// Hyperparameters
	maxDepth        int
	minSamplesSplit int

	// Model parameters
	nodes       []node
	classes     []float64
	depth       int
	importances []float64
}

var _ model.Classifier = (*DecisionTreeClassifier)(nil)

// Option is a functional option for DecisionTreeClassifier
type Option func(*DecisionTreeClassifier)

// WithMaxDepth sets the maximum depth of the tree
func WithMaxDepth(depth int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum samples required to split a node
func WithMinSamplesSplit(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesSplit = n
	}
}

// WithLogger overrides the component logger
func WithLogger(l log.Logger) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.logger = l
	}
}

// NewDecisionTreeClassifier creates a new DecisionTreeClassifier
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		state:           model.NewStateManager(),
		logger:          log.GetLoggerWithName("DecisionTreeClassifier"),
		maxDepth:        DefaultMaxDepth,
		minSamplesSplit: DefaultMinSamplesSplit,
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

// builder holds the training data while the arena is grown.
type builder struct {
	dt        *DecisionTreeClassifier
	x         *mat.Dense
	y         []float64
	nFeatures int
	gains     []float64
}

// Fit builds the decision tree from training data
func (dt *DecisionTreeClassifier) Fit(X mat.Matrix, y mat.Vector) error {
	dt.state.Reset()
	dt.nodes = nil
	start := time.Now()

	if dt.maxDepth < 0 {
		return errors.NewValidationError("max_depth", "must be non-negative", dt.maxDepth)
	}
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != nSamples {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", nSamples, y.Len(), 0)
	}

	b := &builder{
		dt:        dt,
		x:         mat.DenseCopyOf(X),
		y:         make([]float64, nSamples),
		nFeatures: nFeatures,
		gains:     make([]float64, nFeatures),
	}
	indices := make([]int, nSamples)
	for i := range indices {
		b.y[i] = y.AtVec(i)
		indices[i] = i
	}
	dt.classes = uniqueSorted(b.y)
	dt.depth = 0

	b.build(indices, 0)

	// Feature importances: sample-weighted gain per feature, normalized to sum to 1
	var total float64
	for _, g := range b.gains {
		total += g
	}
	dt.importances = make([]float64, nFeatures)
	for j, g := range b.gains {
		dt.importances[j] = errors.SafeDivide(g, total)
	}

	dt.state.SetDimensions(nFeatures, nSamples)
	dt.state.SetFitted()

	dt.logger.Info("Model fitted",
		log.ModelNameKey, "DecisionTreeClassifier",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.NodesKey, len(dt.nodes),
		log.DepthKey, dt.depth,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// build appends the subtree for the given sample indices and returns the
// index of its root in the arena.
func (b *builder) build(indices []int, depth int) int {
	dt := b.dt
	labels := make([]float64, len(indices))
	for i, idx := range indices {
		labels[i] = b.y[idx]
	}
	majority := majorityClass(labels)
	if depth > dt.depth {
		dt.depth = depth
	}

	if depth >= dt.maxDepth || len(indices) < dt.minSamplesSplit || isPure(labels) {
		return dt.addLeaf(majority)
	}

	feature, gain := b.bestSplit(indices, labels)
	if feature < 0 {
		return dt.addLeaf(majority)
	}
	b.gains[feature] += gain * float64(len(indices))

	id := len(dt.nodes)
	dt.nodes = append(dt.nodes, node{
		label:    majority,
		feature:  feature,
		children: make(map[float64]int),
	})

	groups := b.partition(indices, feature)
	for _, value := range sortedKeys(groups) {
		child := b.build(groups[value], depth+1)
		dt.nodes[id].children[value] = child
	}
	return id
}

func (dt *DecisionTreeClassifier) addLeaf(label float64) int {
	dt.nodes = append(dt.nodes, node{leaf: true, label: label})
	return len(dt.nodes) - 1
}

// bestSplit returns the feature with the largest strictly positive
// information gain, or -1. The first feature wins ties.
func (b *builder) bestSplit(indices []int, labels []float64) (int, float64) {
	parent := entropy(labels)
	bestFeature, bestGain := -1, 0.0

	for f := 0; f < b.nFeatures; f++ {
		groups := b.partition(indices, f)
		var weighted float64
		for _, members := range groups {
			child := make([]float64, len(members))
			for i, idx := range members {
				child[i] = b.y[idx]
			}
			weighted += float64(len(members)) / float64(len(indices)) * entropy(child)
		}
		if gain := parent - weighted; gain > bestGain {
			bestFeature, bestGain = f, gain
		}
	}
	return bestFeature, bestGain
}

// partition groups sample indices by their value of feature.
func (b *builder) partition(indices []int, feature int) map[float64][]int {
	groups := make(map[float64][]int)
	for _, idx := range indices {
		v := b.x.At(idx, feature)
		groups[v] = append(groups[v], idx)
	}
	return groups
}

// Predict descends the tree for every row of X
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", "Predict"); err != nil {
		return nil, err
	}
	if err := dt.state.RequireFeatures("DecisionTreeClassifier.Predict", X); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	predictions := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		predictions.SetVec(i, dt.predictOne(X, i))
	}
	return predictions, nil
}

func (dt *DecisionTreeClassifier) predictOne(X mat.Matrix, row int) float64 {
	n := &dt.nodes[0]
	for !n.leaf {
		child, ok := n.children[X.At(row, n.feature)]
		if !ok {
			return n.label
		}
		n = &dt.nodes[child]
	}
	return n.label
}

// Score returns the accuracy on the given test data and labels
func (dt *DecisionTreeClassifier) Score(X mat.Matrix, y mat.Vector) (float64, error) {
	predictions, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(mat.VecDenseCopyOf(y), predictions)
}

// Classes returns the sorted class labels seen during fit
func (dt *DecisionTreeClassifier) Classes() []float64 {
	return slices.Clone(dt.classes)
}

// Depth returns the depth of the deepest node
func (dt *DecisionTreeClassifier) Depth() int {
	return dt.depth
}

// NodeCount returns the number of nodes in the arena
func (dt *DecisionTreeClassifier) NodeCount() int {
	return len(dt.nodes)
}

// LeafCount returns the number of leaves
func (dt *DecisionTreeClassifier) LeafCount() int {
	count := 0
	for i := range dt.nodes {
		if dt.nodes[i].leaf {
			count++
		}
	}
	return count
}

// FeatureImportances returns the normalized, sample-weighted information
// gain contributed by each feature
func (dt *DecisionTreeClassifier) FeatureImportances() []float64 {
	return slices.Clone(dt.importances)
}

// GetParams returns the model hyperparameters
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"max_depth":         dt.maxDepth,
		"min_samples_split": dt.minSamplesSplit,
	}
}

// entropy returns the Shannon entropy of the label distribution in bits
func entropy(labels []float64) float64 {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[float64]int)
	for _, l := range labels {
		counts[l]++
	}
	p := make([]float64, 0, len(counts))
	for _, c := range counts {
		p = append(p, float64(c)/float64(len(labels)))
	}
	return stat.Entropy(p) / math.Ln2
}

// isPure reports whether every label is within 0.5 of the first one
func isPure(labels []float64) bool {
	for _, l := range labels {
		if math.Abs(l-labels[0]) > 0.5 {
			return false
		}
	}
	return true
}

// majorityClass returns the most frequent label; ties go to the smallest
func majorityClass(labels []float64) float64 {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[float64]int)
	for _, l := range labels {
		counts[l]++
	}
	best, bestCount := 0.0, 0
	for _, l := range sortedKeys(counts) {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best
}

func sortedKeys[V any](m map[float64]V) []float64 {
	keys := make([]float64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func uniqueSorted(values []float64) []float64 {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
