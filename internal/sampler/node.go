package sampler

import (
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/utils"
)

// Split describes how a node was divided. Axis-aligned splits set Feature
// and Cut; oblique splits set Vector, whose last element is the hyperplane
// offset. A split is written once and never changed.
type Split struct {
	Feature int
	Cut     float64
	Vector  []float64
}

// Oblique reports whether the split is a hyperplane split.
func (s *Split) Oblique() bool {
	return s.Vector != nil
}

// Node is one partition of the configuration space. It exclusively owns
// its two children; traversal is strictly top-down, so no parent pointer
// is kept.
type Node struct {
	id    int
	depth int

	// ranges holds the narrowed legal-value sets, one ordered slice per
	// flat feature index.
	ranges [][]float64

	// local samples, parallel slices
	features [][]float64
	targets  []float64

	left  *Node
	right *Node
	split *Split

	err   float64
	score float64
}

func newNode(id, depth int, ranges [][]float64, features [][]float64, targets []float64) *Node {
	n := &Node{
		id:       id,
		depth:    depth,
		ranges:   ranges,
		features: features,
		targets:  targets,
	}
	n.recomputeError()
	return n
}

// IsLeaf is true iff no split descriptor has been set.
func (n *Node) IsLeaf() bool {
	return n.split == nil
}

// ID returns the node's unique, monotonically increasing id.
func (n *Node) ID() int {
	return n.id
}

// Depth returns the node's depth in the tree, the root being at depth 1.
func (n *Node) Depth() int {
	return n.depth
}

// Left returns the child holding samples at or below the split boundary.
func (n *Node) Left() *Node {
	return n.left
}

// Right returns the child holding samples above the split boundary.
func (n *Node) Right() *Node {
	return n.right
}

// Error returns the node's impurity, the population variance of its
// sample targets.
func (n *Node) Error() float64 {
	return n.err
}

// SampleCount returns the number of local samples.
func (n *Node) SampleCount() int {
	return len(n.targets)
}

// PartitionSize recomputes the number of configurations covered by the
// node's current narrowed ranges. Never served from a cache: ranges may
// have been narrowed since the last call.
func (n *Node) PartitionSize() int {
	lengths := make([]int, len(n.ranges))
	for i, values := range n.ranges {
		lengths[i] = len(values)
	}
	return utils.Product(lengths)
}

// addSample appends one sample and recomputes the node's error.
func (n *Node) addSample(features []float64, target float64) {
	n.features = append(n.features, features)
	n.targets = append(n.targets, target)
	n.recomputeError()
}

func (n *Node) recomputeError() {
	n.err = utils.Variance(n.targets)
}

// computeScore combines impurity and normalized partition size. The sign
// is flipped so a min-heap pops the most promising partition (largest,
// highest-error) first.
func (n *Node) computeScore(weightSize, rootSize float64) {
	weightError := 1 - weightSize
	n.score = -(weightError*n.err + weightSize*(float64(n.PartitionSize())/rootSize))
}
