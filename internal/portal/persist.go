package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// KV is the durable storage the state is loaded from and written back to.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// StorageKey is the key each collection is stored under.
func StorageKey(c Collection) string {
	return "gabarita_" + string(c)
}

// Load reads every collection. Missing keys fall back to their defaults: an
// empty list, the seeded class list, or the seeded admin profile.
func Load(ctx context.Context, kv KV) (Data, error) {
	d := Data{
		Professors:  []Professor{},
		Students:    []Student{},
		Classes:     DefaultClasses(),
		Questions:   []Question{},
		Simulations: []Simulation{},
		Results:     []StudentResponse{},
		Admin:       DefaultAdminProfile(),
	}
	targets := map[Collection]any{
		Professors:  &d.Professors,
		Students:    &d.Students,
		Classes:     &d.Classes,
		Questions:   &d.Questions,
		Simulations: &d.Simulations,
		Results:     &d.Results,
		Admin:       &d.Admin,
	}
	for _, c := range AllCollections {
		raw, ok, err := kv.Get(ctx, StorageKey(c))
		if err != nil {
			return Data{}, fmt.Errorf("load %s: %w", c, err)
		}
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, targets[c]); err != nil {
			return Data{}, fmt.Errorf("decode %s: %w", c, err)
		}
	}
	return d, nil
}

// Persister writes the whole changed collection after every mutation.
type Persister struct {
	kv  KV
	log *slog.Logger
}

func NewPersister(kv KV, log *slog.Logger) *Persister {
	if log == nil {
		log = slog.Default()
	}
	return &Persister{kv: kv, log: log}
}

func (p *Persister) CollectionChanged(ctx context.Context, c Collection, value any) error {
	buf, err := json.Marshal(value)
	if err != nil {
		return err
	}
	// Memory already holds the change, so the write ignores cancellation.
	if err := p.kv.Put(context.WithoutCancel(ctx), StorageKey(c), buf); err != nil {
		p.log.ErrorContext(ctx, "persist collection failed", "collection", c, "error", err)
		return err
	}
	p.log.DebugContext(ctx, "collection persisted", "collection", c, "bytes", len(buf))
	return nil
}
