package sampler

// Oblique split search after Murthy et al.: the best axis-aligned cut
// seeds a hyperplane with a single non-zero coefficient, which is then
// refined by coordinate hill-climbing with a randomized stagnation
// escape.

// bestObliqueSplit seeds a coefficient vector from the best axis split
// and refines one random coordinate per round.
func (t *Tree) bestObliqueSplit(n *Node) (*Split, float64, bool) {
	axis, _, ok := t.bestAxisSplit(n)
	if !ok {
		return nil, 0, false
	}

	featureCount := t.space.FeatureCount()
	vector := make([]float64, featureCount+1)
	vector[axis.Feature] = 1
	vector[featureCount] = axis.Cut

	_, leftT, _, rightT := partitionByVector(n.features, n.targets, vector)
	imp := n.err - weightedSplitError(leftT, rightT, n.SampleCount())
	if imp < 0 {
		imp = 0
	}

	for round := 0; round < t.obliqueRounds; round++ {
		coord := t.rng.Intn(featureCount)
		vector, imp = t.perturbCoefficient(n, vector, imp, coord)
	}

	if imp <= 0 {
		return nil, 0, false
	}
	return &Split{Feature: -1, Vector: vector}, imp, true
}

// perturbCoefficient tries every U-value substitution candidate for one
// coordinate of the hyperplane. A substitution is adopted when it
// strictly improves on the current best improvement; an exact tie is
// adopted with the escape probability to move off local optima.
func (t *Tree) perturbCoefficient(n *Node, vector []float64, currentImp float64, coord int) ([]float64, float64) {
	// U value of a sample row: the coefficient value for coord that puts
	// the row exactly on the hyperplane boundary. Rows with a zero
	// coordinate cannot be moved onto the boundary and contribute none.
	var uValues []float64
	for _, row := range n.features {
		if row[coord] == 0 {
			continue
		}
		u := (vector[coord]*row[coord] - signedDistance(row, vector)) / row[coord]
		uValues = append(uValues, u)
	}

	cuts := splitCandidates(uValues)
	if len(cuts) == 0 {
		return vector, currentImp
	}

	bestVector := vector
	minErr := n.err
	for _, cut := range cuts {
		candidate := append([]float64(nil), vector...)
		candidate[coord] = cut

		_, leftT, _, rightT := partitionByVector(n.features, n.targets, candidate)
		e := weightedSplitError(leftT, rightT, n.SampleCount())
		if e < minErr {
			minErr = e
			bestVector = candidate
		}
	}

	bestImp := n.err - minErr
	if bestImp > currentImp {
		return bestVector, bestImp
	}
	if bestImp == currentImp && t.rng.Float64() < t.escapeProb {
		return bestVector, currentImp
	}
	return vector, currentImp
}

// signedDistance is dot(row, coefficients) minus the offset; a
// non-positive value places the row on the left side of the hyperplane.
func signedDistance(row, vector []float64) float64 {
	sum := 0.0
	for i, v := range row {
		sum += v * vector[i]
	}
	return sum - vector[len(vector)-1]
}

// partitionByVector splits samples by hyperplane sign.
func partitionByVector(features [][]float64, targets []float64, vector []float64) ([][]float64, []float64, [][]float64, []float64) {
	var (
		leftF, rightF [][]float64
		leftT, rightT []float64
	)
	for i, row := range features {
		if signedDistance(row, vector) <= 0 {
			leftF = append(leftF, row)
			leftT = append(leftT, targets[i])
		} else {
			rightF = append(rightF, row)
			rightT = append(rightT, targets[i])
		}
	}
	return leftF, leftT, rightF, rightT
}
