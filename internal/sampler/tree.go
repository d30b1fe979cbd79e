package sampler

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/logger"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/utils"
)

// Default tunables for tree growth.
const (
	DefaultMinErrorGain    = 0.001
	DefaultMinSamplesSplit = 2
	DefaultWeightSize      = 0.2
	DefaultObliqueRounds   = 10
	DefaultEscapeProb      = 0.3
)

// Tree is an adaptive partitioning sampler over a service chain's
// configuration space. It recursively partitions the space CART-style and
// drives an active-sampling loop: SelectNext picks the most promising
// partition to measure, Adapt feeds the measurement back and grows the
// tree. Calls must strictly alternate; the tree is not safe for
// concurrent use.
type Tree struct {
	space  *Space
	root   *Node
	leaves *leafQueue
	rng    *utils.RandSource
	logger *slog.Logger

	// rootSize is the total configuration-space size, fixed at
	// construction and read-only afterwards.
	rootSize float64

	maxDepth        int
	minSamplesSplit int
	minErrorGain    float64
	weightSize      float64

	oblique       bool
	obliqueRounds int
	escapeProb    float64

	nodeCount int
	depth     int
	pending   *Node
}

// Option configures tree growth tunables.
type Option func(*Tree)

// WithMaxDepth bounds tree depth; nodes at this depth never split and are
// no longer selectable. Zero or negative means unbounded.
func WithMaxDepth(d int) Option {
	return func(t *Tree) {
		if d > 0 {
			t.maxDepth = d
		}
	}
}

// WithMinSamplesSplit sets the minimum number of local samples a node
// needs before a split is attempted.
func WithMinSamplesSplit(n int) Option {
	return func(t *Tree) { t.minSamplesSplit = n }
}

// WithMinErrorGain sets the minimum error improvement required to apply
// a split.
func WithMinErrorGain(g float64) Option {
	return func(t *Tree) { t.minErrorGain = g }
}

// WithWeightSize sets the weight of partition size versus error in the
// node score, in [0,1].
func WithWeightSize(w float64) Option {
	return func(t *Tree) { t.weightSize = w }
}

// WithObliqueRounds sets the number of hyperplane refinement rounds.
func WithObliqueRounds(r int) Option {
	return func(t *Tree) { t.obliqueRounds = r }
}

// WithEscapeProbability sets the probability of adopting a tied
// hyperplane substitution to escape local optima. Values outside [0,1]
// are clamped.
func WithEscapeProbability(p float64) Option {
	return func(t *Tree) { t.escapeProb = utils.Clamp(p, 0, 1) }
}

// New creates an axis-aligned partitioning tree from a parameter-space
// descriptor and an initial seed sample. All randomness is drawn from the
// given source, so equal seeds give equal runs.
func New(sets []ParameterSet, seedFeatures []float64, seedTarget float64, rng *utils.RandSource, opts ...Option) (*Tree, error) {
	return newTree(sets, seedFeatures, seedTarget, rng, false, opts...)
}

// NewOblique creates a partitioning tree whose splits are hyperplanes
// over all features instead of single-feature cuts.
func NewOblique(sets []ParameterSet, seedFeatures []float64, seedTarget float64, rng *utils.RandSource, opts ...Option) (*Tree, error) {
	return newTree(sets, seedFeatures, seedTarget, rng, true, opts...)
}

func newTree(sets []ParameterSet, seedFeatures []float64, seedTarget float64, rng *utils.RandSource, oblique bool, opts ...Option) (*Tree, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source must not be nil")
	}

	space, err := NewSpace(sets, len(seedFeatures))
	if err != nil {
		return nil, fmt.Errorf("invalid parameter space: %w", err)
	}

	t := &Tree{
		space:           space,
		leaves:          newLeafQueue(),
		rng:             rng,
		logger:          logger.Default,
		maxDepth:        math.MaxInt32,
		minSamplesSplit: DefaultMinSamplesSplit,
		minErrorGain:    DefaultMinErrorGain,
		weightSize:      DefaultWeightSize,
		oblique:         oblique,
		obliqueRounds:   DefaultObliqueRounds,
		escapeProb:      DefaultEscapeProb,
		nodeCount:       1,
		depth:           1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.weightSize < 0 || t.weightSize > 1 {
		return nil, fmt.Errorf("weight_size must be in [0,1], got %f", t.weightSize)
	}

	seed := make([]float64, len(seedFeatures))
	copy(seed, seedFeatures)
	t.root = newNode(0, 1, space.FullRanges(), [][]float64{seed}, []float64{seedTarget})
	t.rootSize = float64(t.root.PartitionSize())
	t.root.computeScore(t.weightSize, t.rootSize)
	t.leaves.add(t.root)

	t.logger.Info("Partition tree initialized",
		"config_space_size", int(t.rootSize),
		"vnf_count", space.VNFCount(),
		"oblique", oblique)
	return t, nil
}

// SetLogger sets the tree's logger
func (t *Tree) SetLogger(l *slog.Logger) {
	t.logger = l
}

// Root returns the root partition node.
func (t *Tree) Root() *Node {
	return t.root
}

// Depth returns the current depth of the tree.
func (t *Tree) Depth() int {
	return t.depth
}

// NodeCount returns the total number of nodes ever created.
func (t *Tree) NodeCount() int {
	return t.nodeCount
}

// Space returns the configuration-space descriptor.
func (t *Tree) Space() *Space {
	return t.space
}

// SelectNext pops the most promising leaf from the active queue and draws
// one configuration uniformly from its current narrowed ranges. The leaf
// becomes the single outstanding selection; Adapt must be called before
// the next SelectNext. Returns ErrExhausted when no selectable leaf
// remains and ErrPendingSelection on a reordered call.
func (t *Tree) SelectNext() (Config, error) {
	if t.pending != nil {
		return nil, ErrPendingSelection
	}

	for {
		n := t.leaves.next()
		if n == nil {
			return nil, ErrExhausted
		}
		// Stale entries are dropped here instead of being removed from
		// the queue when their node splits.
		if !n.IsLeaf() || n.depth == t.maxDepth || n.PartitionSize() == 0 {
			t.logger.Debug("Discarded stale leaf entry", "node_id", n.id)
			continue
		}
		t.pending = n
		return t.drawConfig(n), nil
	}
}

// Adapt attaches a measured sample to the outstanding selection's leaf
// and regrows the tree at that leaf. The leaf either splits into exactly
// two new leaves or stays unchanged when the stopping criteria hold.
func (t *Tree) Adapt(features []float64, target float64) error {
	if t.pending == nil {
		return ErrNoSelection
	}
	if len(features) != t.space.FeatureCount() {
		return fmt.Errorf("feature vector has length %d, expected %d",
			len(features), t.space.FeatureCount())
	}

	row := make([]float64, len(features))
	copy(row, features)

	n := t.pending
	t.pending = nil
	n.addSample(row, target)
	t.growAt(n)
	return nil
}

// drawConfig picks, for every (vnf, parameter) pair, a uniformly random
// value from the leaf's current legal-value set.
func (t *Tree) drawConfig(n *Node) Config {
	cfg := make(Config, t.space.VNFCount())
	for i := range cfg {
		cfg[i] = make(map[string]float64)
	}
	for idx := range n.ranges {
		vnf, name := t.space.Ref(idx)
		cfg[vnf][name] = t.rng.Choice(n.ranges[idx])
	}
	return cfg
}

// growAt grows the subtree rooted at n until a stopping criterion holds.
// Growth is depth-first; the final shape does not depend on the order.
func (t *Tree) growAt(n *Node) {
	if n.depth == t.maxDepth || n.SampleCount() < t.minSamplesSplit {
		return
	}

	var (
		split *Split
		imp   float64
		ok    bool
	)
	if t.oblique {
		split, imp, ok = t.bestObliqueSplit(n)
	} else {
		split, imp, ok = t.bestAxisSplit(n)
	}
	if !ok || imp < t.minErrorGain {
		return
	}

	t.splitNode(n, split)
	t.growAt(n.left)
	t.growAt(n.right)
}

// bestAxisSplit searches every feature column for the cut with the lowest
// sample-count-weighted post-split error. Columns are iterated in fixed
// index order and candidate cuts in ascending order; only a strictly
// lower error replaces the current best, so ties resolve to the earliest
// candidate.
func (t *Tree) bestAxisSplit(n *Node) (*Split, float64, bool) {
	var (
		bestErr     = math.Inf(1)
		bestFeature int
		bestCut     float64
		found       bool
	)
	for col := 0; col < t.space.FeatureCount(); col++ {
		for _, cut := range splitCandidates(columnValues(n.features, col)) {
			lt, rt := partitionTargets(n.features, n.targets, col, cut)
			e := weightedSplitError(lt, rt, n.SampleCount())
			if e < bestErr {
				bestErr = e
				bestFeature = col
				bestCut = cut
				found = true
			}
		}
	}

	imp := n.err - bestErr
	if !found || imp <= 0 {
		return nil, 0, false
	}
	return &Split{Feature: bestFeature, Cut: bestCut}, imp, true
}

// splitNode applies a write-once split descriptor to n: samples are
// partitioned by the split predicate, ranges are narrowed per side, and
// both children are registered as active leaves.
func (t *Tree) splitNode(n *Node, split *Split) {
	var (
		leftF, rightF [][]float64
		leftT, rightT []float64
	)
	if split.Oblique() {
		leftF, leftT, rightF, rightT = partitionByVector(n.features, n.targets, split.Vector)
	} else {
		leftF, leftT, rightF, rightT = partitionByCut(n.features, n.targets, split.Feature, split.Cut)
	}
	leftR, rightR := narrowRanges(n.ranges, split)

	n.split = split
	n.left = newNode(t.nodeCount, n.depth+1, leftR, leftF, leftT)
	n.right = newNode(t.nodeCount+1, n.depth+1, rightR, rightF, rightT)
	t.nodeCount += 2
	t.depth = utils.Max(t.depth, n.depth+1)

	n.left.computeScore(t.weightSize, t.rootSize)
	n.right.computeScore(t.weightSize, t.rootSize)
	t.leaves.add(n.left)
	t.leaves.add(n.right)

	t.logger.Debug("Split partition node",
		"node_id", n.id,
		"depth", n.depth,
		"oblique", split.Oblique(),
		"left_samples", n.left.SampleCount(),
		"right_samples", n.right.SampleCount())
}

// columnValues extracts one feature column from the sample matrix.
func columnValues(features [][]float64, col int) []float64 {
	values := make([]float64, len(features))
	for i, row := range features {
		values[i] = row[col]
	}
	return values
}

// splitCandidates returns the midpoints between consecutive sorted
// distinct values. Fewer than two distinct values yield no candidate.
func splitCandidates(values []float64) []float64 {
	distinct := make([]float64, len(values))
	copy(distinct, values)
	sort.Float64s(distinct)

	var cuts []float64
	for i := 1; i < len(distinct); i++ {
		if distinct[i] == distinct[i-1] {
			continue
		}
		cuts = append(cuts, (distinct[i]+distinct[i-1])/2)
	}
	return cuts
}

// partitionTargets splits targets by the predicate feature <= cut.
func partitionTargets(features [][]float64, targets []float64, col int, cut float64) ([]float64, []float64) {
	var left, right []float64
	for i, row := range features {
		if row[col] <= cut {
			left = append(left, targets[i])
		} else {
			right = append(right, targets[i])
		}
	}
	return left, right
}

// partitionByCut splits samples by the predicate feature <= cut.
func partitionByCut(features [][]float64, targets []float64, col int, cut float64) ([][]float64, []float64, [][]float64, []float64) {
	var (
		leftF, rightF [][]float64
		leftT, rightT []float64
	)
	for i, row := range features {
		if row[col] <= cut {
			leftF = append(leftF, row)
			leftT = append(leftT, targets[i])
		} else {
			rightF = append(rightF, row)
			rightT = append(rightT, targets[i])
		}
	}
	return leftF, leftT, rightF, rightT
}

// weightedSplitError is the sample-fraction-weighted sum of the two
// sides' variances.
func weightedSplitError(leftT, rightT []float64, sampleCount int) float64 {
	leftPct := float64(len(leftT)) / float64(sampleCount)
	rightPct := 1 - leftPct
	return leftPct*utils.Variance(leftT) + rightPct*utils.Variance(rightT)
}

// narrowRanges derives the children's legal-value sets. An axis split
// narrows only its own feature. An oblique split narrows every feature
// with a non-zero coefficient a at the boundary value offset/a, with the
// inequality direction following the coefficient's sign; zero-coefficient
// features inherit the parent range unchanged.
func narrowRanges(ranges [][]float64, split *Split) ([][]float64, [][]float64) {
	left := make([][]float64, len(ranges))
	right := make([][]float64, len(ranges))

	for i, values := range ranges {
		var coef float64
		if split.Oblique() {
			coef = split.Vector[i]
		} else if i == split.Feature {
			coef = 1
		}

		if coef == 0 {
			left[i] = append([]float64(nil), values...)
			right[i] = append([]float64(nil), values...)
			continue
		}

		var cut float64
		if split.Oblique() {
			cut = split.Vector[len(split.Vector)-1] / coef
		} else {
			cut = split.Cut
		}

		for _, v := range values {
			onLeft := v <= cut
			if coef < 0 {
				onLeft = v >= cut
			}
			if onLeft {
				left[i] = append(left[i], v)
			} else {
				right[i] = append(right[i], v)
			}
		}
	}
	return left, right
}
