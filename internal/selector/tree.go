package selector

import (
	"fmt"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/pmodel"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/sampler"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/config"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/utils"
)

// treeTunables carries the growth parameters from the module config to
// the partition tree.
type treeTunables struct {
	maxDepth        int
	minSamplesSplit int
	minErrorGain    float64
	weightSize      float64
}

func treeOptions(m config.Module) treeTunables {
	return treeTunables{
		maxDepth:        m.IntParam("max_depth", 0),
		minSamplesSplit: m.IntParam("min_samples_split", sampler.DefaultMinSamplesSplit),
		minErrorGain:    m.FloatParam("min_error_gain", sampler.DefaultMinErrorGain),
		weightSize:      m.FloatParam("weight_size", sampler.DefaultWeightSize),
	}
}

// DecisionTreeSelector samples configurations through an adaptive
// partitioning tree. The first Next draws a uniformly random seed
// configuration; the first Feedback constructs the tree from that seed
// sample, and every later Next/Feedback pair selects a partition and
// grows the tree with its measurement.
type DecisionTreeSelector struct {
	maxSamples int
	oblique    bool
	seed       int64
	tunables   treeTunables

	rng         *utils.RandSource
	space       []sampler.ParameterSet
	tree        *sampler.Tree
	seedPending []float64
	kSamples    int
}

// NewDecisionTreeSelector creates a tree selector; oblique switches the
// split search from axis-aligned cuts to hyperplanes.
func NewDecisionTreeSelector(maxSamples int, oblique bool, seed int64, tunables treeTunables) (*DecisionTreeSelector, error) {
	if tunables.weightSize < 0 || tunables.weightSize > 1 {
		return nil, fmt.Errorf("weight_size must be in [0,1], got %f", tunables.weightSize)
	}
	return &DecisionTreeSelector{
		maxSamples: maxSamples,
		oblique:    oblique,
		seed:       seed,
		tunables:   tunables,
		rng:        utils.NewRandSource(seed),
	}, nil
}

// Name returns the selector name
func (s *DecisionTreeSelector) Name() string {
	if s.oblique {
		return "ObliqueDecisionTreeSelector"
	}
	return "DecisionTreeSelector"
}

// ShortName returns the capital letters of the selector name
func (s *DecisionTreeSelector) ShortName() string {
	return utils.ShortName(s.Name())
}

// Reinitialize drops the tree and reseeds for a new repetition
func (s *DecisionTreeSelector) Reinitialize(repetition int) {
	s.rng = utils.NewRandSource(repetitionSeed(s.seed, repetition))
	s.tree = nil
	s.seedPending = nil
	s.kSamples = 0
}

// SetInputs is a no-op; the tree selector samples from the parameter
// space instead of the enumerated input list.
func (s *DecisionTreeSelector) SetInputs([][]float64) {}

// SetModel stores the model's parameter space, which the partition tree
// is built over.
func (s *DecisionTreeSelector) SetModel(m pmodel.Model) {
	s.space = m.ParameterSpace()
}

// HasNext reports whether the sample budget allows another measurement
func (s *DecisionTreeSelector) HasNext() bool {
	if s.maxSamples < 0 {
		return true
	}
	return s.kSamples < s.maxSamples
}

// Next returns the next configuration to measure. Before the tree
// exists it draws the seed configuration uniformly from the full
// parameter space.
func (s *DecisionTreeSelector) Next() ([]float64, error) {
	if len(s.space) == 0 {
		return nil, fmt.Errorf("selector has no parameter space; call SetModel first")
	}

	if s.tree == nil {
		if s.seedPending != nil {
			return nil, sampler.ErrPendingSelection
		}
		flat := s.drawSeedConfig()
		s.seedPending = flat
		s.kSamples++
		return flat, nil
	}

	cfg, err := s.tree.SelectNext()
	if err != nil {
		return nil, fmt.Errorf("partition tree selection failed: %w", err)
	}
	flat, err := s.tree.Space().Flatten(cfg)
	if err != nil {
		return nil, err
	}
	s.kSamples++
	return flat, nil
}

// drawSeedConfig picks every parameter uniformly from its full value set.
func (s *DecisionTreeSelector) drawSeedConfig() []float64 {
	var flat []float64
	for _, set := range s.space {
		for _, p := range set {
			flat = append(flat, s.rng.Choice(p.Values))
		}
	}
	return flat
}

// Feedback feeds a measurement back into the tree. The first feedback
// constructs the tree from the seed sample.
func (s *DecisionTreeSelector) Feedback(cfg []float64, result float64) error {
	if s.tree == nil {
		if s.seedPending == nil {
			return sampler.ErrNoSelection
		}
		tree, err := s.buildTree(cfg, result)
		if err != nil {
			return fmt.Errorf("failed to build partition tree: %w", err)
		}
		s.tree = tree
		s.seedPending = nil
		return nil
	}
	return s.tree.Adapt(cfg, result)
}

func (s *DecisionTreeSelector) buildTree(seedCfg []float64, seedResult float64) (*sampler.Tree, error) {
	opts := []sampler.Option{
		sampler.WithMinSamplesSplit(s.tunables.minSamplesSplit),
		sampler.WithMinErrorGain(s.tunables.minErrorGain),
		sampler.WithWeightSize(s.tunables.weightSize),
	}
	if s.tunables.maxDepth > 0 {
		opts = append(opts, sampler.WithMaxDepth(s.tunables.maxDepth))
	}

	if s.oblique {
		return sampler.NewOblique(s.space, seedCfg, seedResult, s.rng, opts...)
	}
	return sampler.New(s.space, seedCfg, seedResult, s.rng, opts...)
}

// Results returns the selector's contribution to a result row
func (s *DecisionTreeSelector) Results() map[string]any {
	r := map[string]any{
		"selector":    s.ShortName(),
		"k_samples":   s.kSamples,
		"max_samples": s.maxSamples,
	}
	if s.tree != nil {
		r["tree_depth"] = s.tree.Depth()
		r["tree_nodes"] = s.tree.NodeCount()
	}
	return r
}
