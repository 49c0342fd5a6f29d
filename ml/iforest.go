package ml

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"
)

const (
	defaultTrees     = 100
	defaultSubsample = 256

	// Fraction of the training mixture that is synthetic anomalies.
	contamination = 0.2

	eulerGamma = 0.5772156649015329
)

// treeNode is a single node of an isolation tree. Internal nodes carry a
// split, external nodes carry the size of the sample that terminated there.
type treeNode struct {
	Feature int       `json:"f"`
	Split   float64   `json:"s"`
	Left    *treeNode `json:"l,omitempty"`
	Right   *treeNode `json:"r,omitempty"`
	Size    int       `json:"n,omitempty"`
}

func (t *treeNode) external() bool {
	return t.Left == nil && t.Right == nil
}

// Forest is a trained isolation forest over (moisture, temperature,
// humidity) triples. Score convention follows the usual decision function:
// negative means anomalous, the more negative the more anomalous.
type Forest struct {
	Trees       []*treeNode `json:"trees"`
	Subsample   int         `json:"subsample"`
	NumFeatures int         `json:"num_features"`
	Offset      float64     `json:"offset"`
	TrainedAt   time.Time   `json:"trained_at"`
}

// Fit builds a forest of nTrees isolation trees over data, then sets the
// decision offset so that the expected anomaly fraction of the training
// mixture sits below zero.
func Fit(data [][]float64, nTrees, subsample int, rng *rand.Rand) (*Forest, error) {
	if len(data) == 0 {
		return nil, errors.New("ml: empty training set")
	}
	if nTrees <= 0 {
		nTrees = defaultTrees
	}
	if subsample <= 0 || subsample > len(data) {
		subsample = min(defaultSubsample, len(data))
	}

	f := &Forest{
		Subsample:   subsample,
		NumFeatures: len(data[0]),
		TrainedAt:   time.Now(),
	}

	limit := int(math.Ceil(math.Log2(float64(subsample))))
	for i := 0; i < nTrees; i++ {
		sample := make([][]float64, subsample)
		for j := range sample {
			sample[j] = data[rng.Intn(len(data))]
		}
		f.Trees = append(f.Trees, buildTree(sample, 0, limit, rng))
	}

	// Offset = contamination quantile of the training scores, so that
	// Decision < 0 flags roughly the contaminated fraction.
	scores := make([]float64, len(data))
	for i, x := range data {
		scores[i] = f.scoreSamples(x)
	}
	sort.Float64s(scores)
	f.Offset = quantile(scores, contamination)

	return f, nil
}

func buildTree(data [][]float64, depth, limit int, rng *rand.Rand) *treeNode {
	if depth >= limit || len(data) <= 1 {
		return &treeNode{Size: len(data)}
	}

	// Pick a feature that still has spread; give up if all are constant.
	nFeatures := len(data[0])
	feature := -1
	var lo, hi float64
	for _, fi := range rng.Perm(nFeatures) {
		lo, hi = data[0][fi], data[0][fi]
		for _, row := range data {
			if row[fi] < lo {
				lo = row[fi]
			}
			if row[fi] > hi {
				hi = row[fi]
			}
		}
		if hi > lo {
			feature = fi
			break
		}
	}
	if feature < 0 {
		return &treeNode{Size: len(data)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right [][]float64
	for _, row := range data {
		if row[feature] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{Size: len(data)}
	}

	return &treeNode{
		Feature: feature,
		Split:   split,
		Left:    buildTree(left, depth+1, limit, rng),
		Right:   buildTree(right, depth+1, limit, rng),
	}
}

// pathLength walks x down the tree and returns the isolation depth,
// extended by the average path length of the unsplit sample at the leaf.
func pathLength(x []float64, node *treeNode, depth float64) float64 {
	if node.external() {
		return depth + avgPathLength(node.Size)
	}
	if x[node.Feature] < node.Split {
		return pathLength(x, node.Left, depth+1)
	}
	return pathLength(x, node.Right, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful BST
// search over n points.
func avgPathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		fn := float64(n)
		return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
	}
}

// scoreSamples returns the raw sample score in (-1, 0): close to -1 means
// isolated quickly (anomalous), close to 0 means deep in the data.
func (f *Forest) scoreSamples(x []float64) float64 {
	var total float64
	for _, t := range f.Trees {
		total += pathLength(x, t, 0)
	}
	mean := total / float64(len(f.Trees))
	return -math.Pow(2, -mean/avgPathLength(f.Subsample))
}

// Decision returns the shifted anomaly score for a feature vector.
// Negative values indicate an outlier.
func (f *Forest) Decision(x []float64) float64 {
	return f.scoreSamples(x) - f.Offset
}

// Predict reports whether x is an outlier, along with its decision score.
func (f *Forest) Predict(x []float64) (bool, float64) {
	score := f.Decision(x)
	return score < 0, score
}

// Save writes the forest to path as JSON.
func (f *Forest) Save(path string) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadForest reads a forest previously written by Save.
func LoadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Trees) == 0 || f.Subsample <= 0 {
		return nil, errors.New("ml: model file has no trees")
	}
	return &f, nil
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	i := int(pos)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(i)
	return sorted[i]*(1-frac) + sorted[i+1]*frac
}
