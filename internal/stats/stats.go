// Package stats derives summary statistics from an annotation set: diameter
// and spacing distributions plus a composite hexagonalness score describing
// how close the tubercle arrangement is to an ideal hexagonal lattice.
package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/MikeWise2718/fish-scales-sub003/internal/annotation"
)

// ErrInvalidWeights rejects negative weights or a zero weight sum.
var ErrInvalidWeights = errors.New("stats: weights must be non-negative with a positive sum")

// Reliability classifies how trustworthy the summary is for the node count
// it was computed from. The UI surfaces it alongside the score.
type Reliability string

const (
	ReliabilityNone Reliability = "none"
	ReliabilityLow  Reliability = "low"
	ReliabilityHigh Reliability = "high"
)

// Node-count thresholds for the reliability tiers.
const (
	MinNodesLow  = 5
	MinNodesHigh = 15
)

// Band buckets a hexagonalness score for display.
type Band string

const (
	BandGood Band = "score-good" // >= 0.7
	BandFair Band = "score-fair" // >= 0.4
	BandPoor Band = "score-poor"
)

// In a hexagonal lattice each interior tubercle has six neighbors and the
// edge count approaches three per node.
const (
	idealDegree       = 6.0
	idealEdgesPerNode = 3.0
)

// Weights are the hexagonalness component weights. They must sum to 1.0;
// Normalized renormalizes small drift and rejects invalid sets.
type Weights struct {
	Spacing   float64 `json:"spacing"`
	Degree    float64 `json:"degree"`
	EdgeRatio float64 `json:"edge_ratio"`
}

// DefaultWeights are the standard component weights.
var DefaultWeights = Weights{Spacing: 0.40, Degree: 0.45, EdgeRatio: 0.15}

// Normalized returns weights scaled to sum exactly to 1.0. Negative weights
// or a non-positive sum are rejected.
func (w Weights) Normalized() (Weights, error) {
	if w.Spacing < 0 || w.Degree < 0 || w.EdgeRatio < 0 {
		return Weights{}, ErrInvalidWeights
	}
	sum := w.Spacing + w.Degree + w.EdgeRatio
	if sum <= 0 {
		return Weights{}, ErrInvalidWeights
	}
	return Weights{
		Spacing:   w.Spacing / sum,
		Degree:    w.Degree / sum,
		EdgeRatio: w.EdgeRatio / sum,
	}, nil
}

// Composite combines the three sub-scores into the weighted hexagonalness
// score.
func (w Weights) Composite(spacing, degree, edgeRatio float64) float64 {
	return w.Spacing*spacing + w.Degree*degree + w.EdgeRatio*edgeRatio
}

// Classify buckets a composite score.
func Classify(score float64) Band {
	switch {
	case score >= 0.7:
		return BandGood
	case score >= 0.4:
		return BandFair
	default:
		return BandPoor
	}
}

// Summary holds the derived statistics for one annotation set.
type Summary struct {
	NodeCount     int `json:"node_count"`
	BoundaryCount int `json:"boundary_count"`
	InteriorCount int `json:"interior_count"`
	EdgeCount     int `json:"edge_count"`

	MeanDiameterUm float64 `json:"mean_diameter_um"`
	StdDiameterUm  float64 `json:"std_diameter_um"`

	MeanCenterDistanceUm float64 `json:"mean_center_distance_um"`
	StdCenterDistanceUm  float64 `json:"std_center_distance_um"`
	MeanEdgeDistanceUm   float64 `json:"mean_edge_distance_um"`
	StdEdgeDistanceUm    float64 `json:"std_edge_distance_um"`

	SpacingScore   float64 `json:"spacing_score"`
	DegreeScore    float64 `json:"degree_score"`
	EdgeRatioScore float64 `json:"edge_ratio_score"`
	Hexagonalness  float64 `json:"hexagonalness"`

	Band        Band        `json:"band"`
	Reliability Reliability `json:"reliability"`
}

// Aggregator computes summaries with a fixed set of component weights.
type Aggregator struct {
	weights Weights
}

// New creates an aggregator; weights are validated and renormalized.
func New(weights Weights) (*Aggregator, error) {
	norm, err := weights.Normalized()
	if err != nil {
		return nil, err
	}
	return &Aggregator{weights: norm}, nil
}

// Weights returns the normalized component weights in use.
func (a *Aggregator) Weights() Weights {
	return a.weights
}

// Summarize recomputes all derived statistics for the set. It reads the
// set's current content; nothing is cached across calls.
func (a *Aggregator) Summarize(set *annotation.Set) Summary {
	nodes := set.Nodes()
	edges := set.Edges()

	s := Summary{
		NodeCount: len(nodes),
		EdgeCount: len(edges),
	}

	diameters := make([]float64, 0, len(nodes))
	for _, n := range nodes {
		if n.Boundary {
			s.BoundaryCount++
		} else {
			s.InteriorCount++
		}
		diameters = append(diameters, n.DiameterUm)
	}
	s.MeanDiameterUm, s.StdDiameterUm = meanStd(diameters)

	centers := make([]float64, 0, len(edges))
	gaps := make([]float64, 0, len(edges))
	for _, e := range edges {
		centers = append(centers, e.CenterDistanceUm)
		gaps = append(gaps, e.EdgeDistanceUm)
	}
	s.MeanCenterDistanceUm, s.StdCenterDistanceUm = meanStd(centers)
	s.MeanEdgeDistanceUm, s.StdEdgeDistanceUm = meanStd(gaps)

	s.SpacingScore = spacingUniformity(s.MeanCenterDistanceUm, s.StdCenterDistanceUm, len(centers))
	s.DegreeScore = degreeScore(nodes, edges)
	s.EdgeRatioScore = edgeRatioScore(len(nodes), len(edges))
	s.Hexagonalness = a.weights.Composite(s.SpacingScore, s.DegreeScore, s.EdgeRatioScore)
	s.Band = Classify(s.Hexagonalness)

	switch {
	case s.NodeCount < MinNodesLow:
		s.Reliability = ReliabilityNone
	case s.NodeCount < MinNodesHigh:
		s.Reliability = ReliabilityLow
	default:
		s.Reliability = ReliabilityHigh
	}
	return s
}

func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean = stat.Mean(xs, nil)
	if len(xs) > 1 {
		std = stat.StdDev(xs, nil)
	}
	return mean, std
}

// spacingUniformity maps the coefficient of variation of center distances to
// [0, 1]: identical spacings score 1.
func spacingUniformity(mean, std float64, n int) float64 {
	if n == 0 || mean <= 0 {
		return 0
	}
	return clamp01(1 - std/mean)
}

// degreeScore measures how close interior node degrees are to six.
// Boundary tubercles are excluded: their missing neighbors lie outside the
// image, not outside the lattice.
func degreeScore(nodes []annotation.Tubercle, edges []annotation.Edge) float64 {
	degree := make(map[int]int, len(nodes))
	for _, e := range edges {
		degree[e.ID1]++
		degree[e.ID2]++
	}
	var sum float64
	var count int
	for _, n := range nodes {
		if n.Boundary {
			continue
		}
		count++
		sum += clamp01(1 - math.Abs(float64(degree[n.ID])-idealDegree)/idealDegree)
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// edgeRatioScore compares the recorded edge count to the hexagonal ideal of
// three edges per node.
func edgeRatioScore(nodeCount, edgeCount int) float64 {
	if nodeCount == 0 {
		return 0
	}
	return clamp01(float64(edgeCount) / (idealEdgesPerNode * float64(nodeCount)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
