package ml

import (
	"log"
	"sync"
	"time"
)

// Scorer wraps a persisted isolation forest for inference. It is
// constructed once at startup and passed into the detection pipeline; the
// loaded model is immutable, Reload swaps it atomically after a retrain.
//
// Score never fails: when no model is loaded it reports (false, 0.0) and
// the caller must fall back to rule-only detection.
type Scorer struct {
	mu     sync.RWMutex
	path   string
	forest *Forest
}

// NewScorer loads the model at path. A missing or unreadable model is not
// an error: the scorer starts unavailable and the pipeline degrades to
// rule-only mode.
func NewScorer(path string) *Scorer {
	s := &Scorer{path: path}
	if err := s.Reload(); err != nil {
		log.Printf("ML model not loaded (%v) - running in rule-only mode", err)
	}
	return s
}

// Reload re-reads the model file and swaps it in.
func (s *Scorer) Reload() error {
	forest, err := LoadForest(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.forest = forest
	s.mu.Unlock()
	log.Printf("ML model loaded from %s (%d trees, trained %s)",
		s.path, len(forest.Trees), forest.TrainedAt.Format(time.RFC3339))
	return nil
}

// Available reports whether a model is loaded.
func (s *Scorer) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forest != nil
}

// Score evaluates one (moisture, temperature, humidity) triple. Returns
// the outlier verdict and the signed decision score; more negative means
// more anomalous. Without a model it reports (false, 0.0).
func (s *Scorer) Score(moisture, temperature, humidity float64) (bool, float64) {
	s.mu.RLock()
	forest := s.forest
	s.mu.RUnlock()

	if forest == nil {
		return false, 0.0
	}
	return forest.Predict([]float64{moisture, temperature, humidity})
}

// ModelPath returns the path the scorer loads from.
func (s *Scorer) ModelPath() string {
	return s.path
}

// TrainedAt returns the training time of the loaded model, or the zero
// time when no model is loaded.
func (s *Scorer) TrainedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.forest == nil {
		return time.Time{}
	}
	return s.forest.TrainedAt
}
