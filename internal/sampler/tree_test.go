package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/utils"
)

func newTestTree(t *testing.T, opts ...Option) *Tree {
	t.Helper()
	tree, err := New(chainParams(), []float64{1, 32, 1, 16}, 0.61, utils.NewRandSource(42), opts...)
	require.NoError(t, err)
	return tree
}

// scenarioSamples overwrites the root's sample set with a fixed
// four-sample population used across the split tests.
func scenarioSamples(tree *Tree) {
	tree.root.features = [][]float64{
		{1, 32, 1, 16},
		{1, 32, 1, 64},
		{2, 64, 2, 64},
		{3, 32, 1, 8},
	}
	tree.root.targets = []float64{0.61, 0.55, 0.32, 0.91}
	tree.root.recomputeError()
}

func TestTreeInitialize(t *testing.T) {
	tree := newTestTree(t)

	assert.Equal(t, 2, tree.space.VNFCount())
	assert.Equal(t, 1, tree.Depth())
	assert.Equal(t, 1, tree.NodeCount())
	assert.Equal(t, 81, tree.root.PartitionSize())
	assert.Equal(t, 81.0, tree.rootSize)
	assert.Equal(t, [][]float64{{1, 32, 1, 16}}, tree.root.features)
	assert.Equal(t, []float64{0.61}, tree.root.targets)
	assert.True(t, tree.root.IsLeaf())

	// the root is selectable right away
	assert.Equal(t, 1, tree.leaves.Len())

	// single sample: error 0, normalized size 1
	assert.InDelta(t, -DefaultWeightSize, tree.root.score, 1e-12)
}

func TestTreeConstructionErrors(t *testing.T) {
	_, err := New(chainParams(), []float64{1, 32, 1, 16}, 0.61, nil)
	assert.Error(t, err, "nil random source")

	_, err = New(chainParams(), []float64{1, 32, 1}, 0.61, utils.NewRandSource(1))
	assert.Error(t, err, "feature length not divisible")

	_, err = New(chainParams(), []float64{1, 32, 1, 16}, 0.61, utils.NewRandSource(1), WithWeightSize(1.5))
	assert.Error(t, err, "weight out of range")
}

func TestBestAxisSplit(t *testing.T) {
	tree := newTestTree(t)
	scenarioSamples(tree)

	split, imp, ok := tree.bestAxisSplit(tree.root)
	require.True(t, ok)

	// feature 0 at cut 2.5 and feature 3 at cut 12 tie in post-split
	// error; the lower feature index wins.
	assert.Equal(t, 0, split.Feature)
	assert.InDelta(t, 2.5, split.Cut, 1e-12)
	assert.InDelta(t, 0.03255208, imp, 1e-6)
	assert.False(t, split.Oblique())
}

func TestBestAxisSplitNoDistinctValues(t *testing.T) {
	tree := newTestTree(t)
	tree.root.features = [][]float64{{1, 32, 1, 16}, {1, 32, 1, 16}}
	tree.root.targets = []float64{0.5, 0.7}
	tree.root.recomputeError()

	_, _, ok := tree.bestAxisSplit(tree.root)
	assert.False(t, ok)
}

func TestSplitNode(t *testing.T) {
	tree := newTestTree(t)
	scenarioSamples(tree)

	tree.splitNode(tree.root, &Split{Feature: 3, Cut: 50})

	root := tree.root
	require.NotNil(t, root.left)
	require.NotNil(t, root.right)
	assert.False(t, root.IsLeaf())
	assert.Equal(t, 2, tree.Depth())
	assert.Equal(t, 3, tree.NodeCount())

	assert.Equal(t, []float64{0.61, 0.91}, root.left.targets)
	assert.Equal(t, []float64{0.55, 0.32}, root.right.targets)
	assert.Equal(t, [][]float64{{1, 32, 1, 16}, {3, 32, 1, 8}}, root.left.features)

	// the parent keeps its samples after the split
	assert.Len(t, root.targets, 4)

	// only feature 3's range narrows
	assert.Equal(t, []float64{32}, root.left.ranges[3])
	assert.Equal(t, []float64{64, 256}, root.right.ranges[3])
	assert.Equal(t, []float64{1, 2, 3}, root.left.ranges[0])
	assert.Equal(t, []float64{1, 2, 3}, root.right.ranges[0])

	// both children are registered on the queue alongside the stale root entry
	assert.Equal(t, 3, tree.leaves.Len())
}

func TestSplitMonotonicity(t *testing.T) {
	tree := newTestTree(t)
	scenarioSamples(tree)

	preErr := tree.root.err
	split, imp, ok := tree.bestAxisSplit(tree.root)
	require.True(t, ok)
	tree.splitNode(tree.root, split)

	left, right := tree.root.left, tree.root.right
	post := weightedSplitError(left.targets, right.targets, tree.root.SampleCount())
	assert.LessOrEqual(t, post, preErr)
	assert.InDelta(t, preErr-post, imp, 1e-12)
}

func TestSelectNextAdaptCycle(t *testing.T) {
	tree := newTestTree(t, WithMinErrorGain(0.0001))

	cfg, err := tree.SelectNext()
	require.NoError(t, err)
	require.Len(t, cfg, 2)

	flat, err := tree.space.Flatten(cfg)
	require.NoError(t, err)

	require.NoError(t, tree.Adapt(flat, 0.8))
	assert.Equal(t, 2, tree.root.SampleCount())
}

func TestSelectNextContainment(t *testing.T) {
	tree := newTestTree(t)

	for i := 0; i < 10; i++ {
		cfg, err := tree.SelectNext()
		if err != nil {
			require.ErrorIs(t, err, ErrExhausted)
			break
		}

		leaf := tree.pending
		flat, err := tree.space.Flatten(cfg)
		require.NoError(t, err)
		for idx, v := range flat {
			assert.Contains(t, leaf.ranges[idx], v,
				"value %f of feature %d outside leaf range", v, idx)
		}

		require.NoError(t, tree.Adapt(flat, float64(i)*0.1))
	}
}

func TestAdaptStability(t *testing.T) {
	tree := newTestTree(t)

	for i := 0; i < 8; i++ {
		cfg, err := tree.SelectNext()
		if err != nil {
			require.ErrorIs(t, err, ErrExhausted)
			break
		}
		leaf := tree.pending
		flat, err := tree.space.Flatten(cfg)
		require.NoError(t, err)
		require.NoError(t, tree.Adapt(flat, float64(i%3)))

		// the sampled leaf either stayed a leaf or gained exactly two children
		if leaf.IsLeaf() {
			assert.Nil(t, leaf.left)
			assert.Nil(t, leaf.right)
		} else {
			assert.NotNil(t, leaf.left)
			assert.NotNil(t, leaf.right)
		}
	}
}

func TestProtocolViolations(t *testing.T) {
	tree := newTestTree(t)

	err := tree.Adapt([]float64{1, 32, 1, 32}, 0.5)
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = tree.SelectNext()
	require.NoError(t, err)

	_, err = tree.SelectNext()
	assert.ErrorIs(t, err, ErrPendingSelection)
}

func TestAdaptRejectsWrongFeatureLength(t *testing.T) {
	tree := newTestTree(t)

	_, err := tree.SelectNext()
	require.NoError(t, err)

	err = tree.Adapt([]float64{1, 32}, 0.5)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSelection)
}

func TestExhaustion(t *testing.T) {
	sets := []ParameterSet{{{Name: "a", Values: []float64{1}}}}
	tree, err := New(sets, []float64{1}, 0.5, utils.NewRandSource(7))
	require.NoError(t, err)

	cfg, err := tree.SelectNext()
	require.NoError(t, err)
	assert.Equal(t, Config{{"a": 1}}, cfg)

	// the single-value feature can never split, so the queue drains
	require.NoError(t, tree.Adapt([]float64{1}, 0.5))

	_, err = tree.SelectNext()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestMaxDepthLeavesAreNotSelectable(t *testing.T) {
	tree := newTestTree(t, WithMaxDepth(1))

	// the root sits at depth 1 == max depth, so it is discarded at pop
	_, err := tree.SelectNext()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestDeterminism(t *testing.T) {
	run := func(seed int64) [][]float64 {
		tree, err := New(chainParams(), []float64{1, 32, 1, 16}, 0.61, utils.NewRandSource(seed))
		require.NoError(t, err)

		var flats [][]float64
		for i := 0; i < 6; i++ {
			cfg, err := tree.SelectNext()
			if err != nil {
				break
			}
			flat, err := tree.space.Flatten(cfg)
			require.NoError(t, err)
			flats = append(flats, flat)
			require.NoError(t, tree.Adapt(flat, float64(i)*0.17))
		}
		return flats
	}

	assert.Equal(t, run(99), run(99))
}

func TestLeafPartitionInvariant(t *testing.T) {
	tree := newTestTree(t)

	for i := 0; i < 10; i++ {
		cfg, err := tree.SelectNext()
		if err != nil {
			break
		}
		flat, err := tree.space.Flatten(cfg)
		require.NoError(t, err)
		require.NoError(t, tree.Adapt(flat, float64(i)*0.31))
	}

	// the leaves partition the original space: sizes sum to the root size
	total := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsLeaf() {
			total += n.PartitionSize()
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(tree.root)
	assert.Equal(t, int(tree.rootSize), total)
}

func TestLeafQueueOrdering(t *testing.T) {
	q := newLeafQueue()
	q.add(&Node{id: 2, score: -0.5})
	q.add(&Node{id: 1, score: -0.1})
	q.add(&Node{id: 3, score: -0.5})

	// lowest score first, ties broken by ascending id
	assert.Equal(t, 2, q.next().id)
	assert.Equal(t, 3, q.next().id)
	assert.Equal(t, 1, q.next().id)
	assert.Nil(t, q.next())
}

func TestNodeScore(t *testing.T) {
	tree := newTestTree(t, WithWeightSize(0.5))
	scenarioSamples(tree)
	tree.root.computeScore(0.5, tree.rootSize)

	// score = -((1-w)*error + w*(size/rootSize))
	want := -(0.5*tree.root.err + 0.5*1.0)
	assert.InDelta(t, want, tree.root.score, 1e-12)
}
