package detection

import (
	"fmt"
	"sync"
	"time"

	"github.com/sarraz13/agri-monitoring-backend/models"
)

// AnomalyStore is the persistence surface for anomaly events.
type AnomalyStore interface {
	// ExistsRecent reports whether an event with the same plot and
	// category has a detection timestamp at or after since.
	ExistsRecent(plotID uint, anomalyType string, since time.Time) (bool, error)
	Create(event *models.AnomalyEvent) error
}

// Deduplicator suppresses repeated same-category anomalies on the same
// plot inside the cooldown window. It only prevents new events; it never
// merges or updates the existing one.
//
// The exists check and the subsequent create form a read-then-write pair,
// so callers must hold the per-(plot, category) lock from Lock across
// both. Two concurrent detections for the same key then cannot both pass
// the check.
type Deduplicator struct {
	store    AnomalyStore
	cooldown time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewDeduplicator(store AnomalyStore, cooldown time.Duration) *Deduplicator {
	return &Deduplicator{
		store:    store,
		cooldown: cooldown,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Lock returns the mutex serializing anomaly creation for one
// (plot, category) key, locked. The caller must Unlock it.
func (d *Deduplicator) Lock(plotID uint, anomalyType string) *sync.Mutex {
	key := fmt.Sprintf("%d/%s", plotID, anomalyType)

	d.mu.Lock()
	m, ok := d.locks[key]
	if !ok {
		m = &sync.Mutex{}
		d.locks[key] = m
	}
	d.mu.Unlock()

	m.Lock()
	return m
}

// ShouldSuppress reports whether a same-category anomaly for the plot was
// already recorded within the cooldown window before now.
func (d *Deduplicator) ShouldSuppress(plotID uint, anomalyType string, now time.Time) (bool, error) {
	return d.store.ExistsRecent(plotID, anomalyType, now.Add(-d.cooldown))
}
