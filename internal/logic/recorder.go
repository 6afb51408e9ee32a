package logic

import (
	"fmt"
	"log"
	"sync"

	"dropsel/internal/config"
	"dropsel/internal/eventbus"
)

// Recorder persists committed selections. It listens for
// SelectionChangedEvent on the bus, keeps the latest value per dropdown in a
// SelectionStore and writes the config back to disk.
type Recorder struct {
	mu          sync.Mutex
	bus         eventbus.EventBus
	store       SelectionStore
	svc         config.ConfigService
	cfg         *config.Config
	path        string // empty disables saving
	lastSeq     map[string]uint64
	unsubscribe func()
}

// NewRecorder creates a recorder and subscribes it to the bus
func NewRecorder(bus eventbus.EventBus, store SelectionStore, svc config.ConfigService, cfg *config.Config, path string) *Recorder {
	r := &Recorder{
		bus:     bus,
		store:   store,
		svc:     svc,
		cfg:     cfg,
		path:    path,
		lastSeq: make(map[string]uint64),
	}
	r.unsubscribe = bus.Subscribe(eventbus.EventSelectionChanged, r.handle)
	return r
}

func (r *Recorder) handle(e eventbus.DomainEvent) {
	event, ok := e.(eventbus.SelectionChangedEvent)
	if !ok {
		return
	}
	if err := r.Record(event.Dropdown, event.Value, event.Seq); err != nil {
		log.Printf("Failed to record selection for %s: %v", event.Dropdown, err)
		r.bus.Publish(eventbus.ErrorEvent{Message: "failed to save selection", Err: err})
	}
}

// Record stores value for the named dropdown and saves the config. Changes
// older than the last recorded one for that dropdown are ignored, since bus
// handlers may run out of order.
func (r *Recorder) Record(name string, value any, seq uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if last, ok := r.lastSeq[name]; ok && seq <= last {
		return nil
	}
	r.lastSeq[name] = seq
	r.store.SetSelection(name, value)

	if err := r.cfg.RecordSelection(name, value); err != nil {
		return err
	}
	if r.path == "" {
		return nil
	}
	if err := r.svc.SaveToPath(r.cfg, r.path); err != nil {
		return fmt.Errorf("saving %s: %w", r.path, err)
	}
	log.Printf("Selection for %s saved to %s", name, r.path)
	return nil
}

// Stop unsubscribes the recorder from the bus
func (r *Recorder) Stop() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}
