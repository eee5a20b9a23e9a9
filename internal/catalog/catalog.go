package catalog

import (
	"context"

	"ad-campaign-builder/internal/cache"
	"ad-campaign-builder/internal/storage"
	"ad-campaign-builder/internal/validate"
)

type snapshot struct {
	blueprints []storage.BlueprintRow
	columnSets map[string][]validate.ColumnDescriptor
}

// Catalog exposes read-only, lock-free access to the saved blueprints and
// column sets. Refresh swaps in a whole new snapshot; readers never block.
type Catalog struct{ snap cache.Snapshot[snapshot] }

func New() *Catalog { return &Catalog{} }

// Refresh reloads blueprints and column sets from storage.
func (c *Catalog) Refresh(ctx context.Context, st *storage.Store) error {
	bps, err := st.LoadBlueprints(ctx)
	if err != nil {
		return err
	}
	sets, err := st.LoadColumnSets(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string][]validate.ColumnDescriptor, len(sets))
	for _, cs := range sets {
		byName[cs.Name] = cs.Columns
	}
	c.snap.Store(snapshot{blueprints: bps, columnSets: byName})
	return nil
}

// Blueprints returns the current saved blueprints, newest first.
func (c *Catalog) Blueprints() []storage.BlueprintRow {
	s, _ := c.snap.Load()
	return s.blueprints
}

// ColumnSet resolves a named column-descriptor set.
func (c *Catalog) ColumnSet(name string) ([]validate.ColumnDescriptor, bool) {
	s, ok := c.snap.Load()
	if !ok {
		return nil, false
	}
	cols, ok := s.columnSets[name]
	return cols, ok
}
