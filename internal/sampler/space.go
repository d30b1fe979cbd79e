package sampler

import "fmt"

// Parameter is one tunable of a chain stage with its ordered set of
// legal values.
type Parameter struct {
	Name   string
	Values []float64
}

// ParameterSet holds the ordered parameters of a single VNF.
type ParameterSet []Parameter

// Config is one concrete configuration, as an ordered sequence of
// per-VNF parameter-name to value mappings.
type Config []map[string]float64

// featureRef maps a flat feature index back to its VNF and parameter name.
type featureRef struct {
	vnf  int
	name string
}

// Space describes the full configuration space of a service chain. It is
// built once at tree construction and read-only afterwards.
type Space struct {
	sets []ParameterSet
	refs []featureRef
}

// NewSpace builds a configuration-space descriptor from per-VNF parameter
// sets. A single set is broadcast across VNFs when featureCount indicates a
// longer flattened vector; featureCount must then be divisible by the set's
// parameter count.
func NewSpace(sets []ParameterSet, featureCount int) (*Space, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("parameter space has no parameter sets")
	}
	for vnf, set := range sets {
		if len(set) == 0 {
			return nil, fmt.Errorf("vnf %d has no parameters", vnf)
		}
		for _, p := range set {
			if p.Name == "" {
				return nil, fmt.Errorf("vnf %d has a parameter without a name", vnf)
			}
			if len(p.Values) == 0 {
				return nil, fmt.Errorf("vnf %d parameter %s has no legal values", vnf, p.Name)
			}
		}
	}

	if len(sets) == 1 && featureCount != len(sets[0]) {
		// broadcast the single set across the chain
		perVNF := len(sets[0])
		if featureCount%perVNF != 0 {
			return nil, fmt.Errorf("feature count %d is not divisible by parameter count %d",
				featureCount, perVNF)
		}
		vnfCount := featureCount / perVNF
		expanded := make([]ParameterSet, vnfCount)
		for i := range expanded {
			expanded[i] = sets[0]
		}
		sets = expanded
	}

	s := &Space{sets: sets}
	for vnf, set := range sets {
		for _, p := range set {
			s.refs = append(s.refs, featureRef{vnf: vnf, name: p.Name})
		}
	}
	if featureCount != len(s.refs) {
		return nil, fmt.Errorf("feature count %d does not match parameter space size %d",
			featureCount, len(s.refs))
	}
	return s, nil
}

// FeatureCount returns the length of a flattened feature vector.
func (s *Space) FeatureCount() int {
	return len(s.refs)
}

// VNFCount returns the number of chain stages.
func (s *Space) VNFCount() int {
	return len(s.sets)
}

// Ref returns the VNF index and parameter name of a flat feature index.
func (s *Space) Ref(featureIdx int) (int, string) {
	r := s.refs[featureIdx]
	return r.vnf, r.name
}

// FullRanges returns a fresh copy of every feature's full legal-value set,
// indexed by flat feature index. Used to seed the root partition.
func (s *Space) FullRanges() [][]float64 {
	ranges := make([][]float64, 0, len(s.refs))
	for _, set := range s.sets {
		for _, p := range set {
			values := make([]float64, len(p.Values))
			copy(values, p.Values)
			ranges = append(ranges, values)
		}
	}
	return ranges
}

// Flatten turns a per-VNF configuration into a flat feature vector in
// feature-index order.
func (s *Space) Flatten(cfg Config) ([]float64, error) {
	if len(cfg) != len(s.sets) {
		return nil, fmt.Errorf("configuration has %d vnfs, space has %d", len(cfg), len(s.sets))
	}
	flat := make([]float64, 0, len(s.refs))
	for _, r := range s.refs {
		v, ok := cfg[r.vnf][r.name]
		if !ok {
			return nil, fmt.Errorf("configuration is missing parameter %s of vnf %d", r.name, r.vnf)
		}
		flat = append(flat, v)
	}
	return flat, nil
}
