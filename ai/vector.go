package ai

import "math"

// NormalizeVector scales v in place to unit L2 length and returns it.
// A zero vector is returned unchanged.
func NormalizeVector(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
	return v
}

// NormalizeVectors normalizes every vector in vs in place.
func NormalizeVectors(vs [][]float32) [][]float32 {
	for _, v := range vs {
		NormalizeVector(v)
	}
	return vs
}
