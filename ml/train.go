package ml

import (
	"log"
	"math/rand"
)

// TrainingSummary reports what a training run produced.
type TrainingSummary struct {
	Samples       int     `json:"samples"`
	NormalSamples int     `json:"normal_samples"`
	Anomalies     int     `json:"anomaly_samples"`
	Trees         int     `json:"trees"`
	Offset        float64 `json:"offset"`
	ModelPath     string  `json:"model_path"`
}

// TrainSynthetic trains an isolation forest on the synthetic agricultural
// distribution: 80% normal readings around the healthy operating point and
// 20% anomalies across four archetypes (low moisture, high temperature, low
// air humidity, and all three at once). The trained model is written to
// path.
func TrainSynthetic(path string, seed int64) (*Forest, *TrainingSummary, error) {
	rng := rand.New(rand.NewSource(seed))

	const (
		nNormal  = 800
		nAnomaly = 200
	)

	data := make([][]float64, 0, nNormal+nAnomaly)

	// Normal conditions: moisture ~N(60,5), temperature ~N(24,3),
	// humidity ~N(65,8).
	for i := 0; i < nNormal; i++ {
		data = append(data, []float64{
			rng.NormFloat64()*5 + 60,
			rng.NormFloat64()*3 + 24,
			rng.NormFloat64()*8 + 65,
		})
	}

	perType := nAnomaly / 4

	// Low moisture (drought / irrigation failure).
	for i := 0; i < perType; i++ {
		data = append(data, []float64{
			uniform(rng, 20, 40),
			rng.NormFloat64()*3 + 24,
			rng.NormFloat64()*8 + 65,
		})
	}
	// High temperature (heat stress).
	for i := 0; i < perType; i++ {
		data = append(data, []float64{
			rng.NormFloat64()*5 + 60,
			uniform(rng, 32, 40),
			rng.NormFloat64()*8 + 65,
		})
	}
	// Low air humidity (dry air).
	for i := 0; i < perType; i++ {
		data = append(data, []float64{
			rng.NormFloat64()*5 + 60,
			rng.NormFloat64()*3 + 24,
			uniform(rng, 20, 40),
		})
	}
	// Everything wrong at once.
	for i := 0; i < perType; i++ {
		data = append(data, []float64{
			uniform(rng, 20, 40),
			uniform(rng, 32, 40),
			uniform(rng, 20, 40),
		})
	}

	rng.Shuffle(len(data), func(i, j int) { data[i], data[j] = data[j], data[i] })

	forest, err := Fit(data, defaultTrees, defaultSubsample, rng)
	if err != nil {
		return nil, nil, err
	}

	if err := forest.Save(path); err != nil {
		return nil, nil, err
	}
	log.Printf("Trained isolation forest: %d samples, %d trees, offset %.4f -> %s",
		len(data), len(forest.Trees), forest.Offset, path)

	return forest, &TrainingSummary{
		Samples:       len(data),
		NormalSamples: nNormal,
		Anomalies:     nAnomaly,
		Trees:         len(forest.Trees),
		Offset:        forest.Offset,
		ModelPath:     path,
	}, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
