package store

import (
	"context"
	"sort"
	"sync"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgerror"
)

// InMemoryStore keeps one record per source URL. A record outlives
// invalidation so its metadata stays listable; only the table is dropped.
//
// Every invalidation bumps the URL's generation. Writes carry the generation
// their load started at and are refused with pkgerror.ErrStale once it has
// moved on.
type InMemoryStore struct {
	mu          sync.RWMutex
	datasets    map[string]*datasetRecord
	generations map[string]uint64
}

type datasetRecord struct {
	mu    sync.RWMutex
	meta  entity.DatasetMeta
	table entity.Table
	ready bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		datasets:    make(map[string]*datasetRecord),
		generations: make(map[string]uint64),
	}
}

// Generation returns how many times url has been invalidated.
func (s *InMemoryStore) Generation(ctx context.Context, url string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.generations[url], nil
}

// Begin starts a new load of meta.URL at meta.Generation, replacing any
// previous metadata.
func (s *InMemoryStore) Begin(ctx context.Context, meta entity.DatasetMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if meta.Generation != s.generations[meta.URL] {
		return pkgerror.ErrStale
	}

	rec, ok := s.datasets[meta.URL]
	if !ok {
		s.datasets[meta.URL] = &datasetRecord{meta: meta}
		return nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.ready {
		return pkgerror.NewBusiness("dataset is already loaded", pkgerror.CodeConflict)
	}
	rec.meta = meta

	return nil
}

func (s *InMemoryStore) UpdateMeta(ctx context.Context, url string, generation uint64, fn func(meta *entity.DatasetMeta)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.current(url, generation)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	fn(&rec.meta)

	return nil
}

// Save stores table as the loaded content of url and applies fn to its
// metadata in the same critical section.
func (s *InMemoryStore) Save(ctx context.Context, url string, generation uint64, table entity.Table, fn func(meta *entity.DatasetMeta)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.current(url, generation)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.table = table
	rec.ready = true
	if fn != nil {
		fn(&rec.meta)
	}

	return nil
}

// Get returns the loaded table of url, or pkgerror.ErrNotFound when nothing
// is loaded yet.
func (s *InMemoryStore) Get(ctx context.Context, url string) (entity.Table, entity.DatasetMeta, error) {
	s.mu.RLock()
	rec, ok := s.datasets[url]
	s.mu.RUnlock()
	if !ok {
		return entity.Table{}, entity.DatasetMeta{}, pkgerror.ErrNotFound
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	if !rec.ready {
		return entity.Table{}, rec.meta, pkgerror.ErrNotFound
	}

	return rec.table, rec.meta, nil
}

// List returns the metadata of every known dataset ordered by metric, then URL.
func (s *InMemoryStore) List(ctx context.Context) ([]entity.DatasetMeta, error) {
	s.mu.RLock()
	records := make([]*datasetRecord, 0, len(s.datasets))
	for _, rec := range s.datasets {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	out := make([]entity.DatasetMeta, 0, len(records))
	for _, rec := range records {
		rec.mu.RLock()
		out = append(out, rec.meta)
		rec.mu.RUnlock()
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Metric != out[j].Metric {
			return out[i].Metric < out[j].Metric
		}
		return out[i].URL < out[j].URL
	})

	return out, nil
}

// Invalidate drops the loaded table of url and makes any load of url still
// running stale. Unknown URLs are accepted.
func (s *InMemoryStore) Invalidate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generations[url]++
	if rec, ok := s.datasets[url]; ok {
		rec.mu.Lock()
		rec.drop()
		rec.mu.Unlock()
	}

	return nil
}

func (s *InMemoryStore) InvalidateAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for url := range s.generations {
		s.generations[url]++
	}
	for url, rec := range s.datasets {
		if _, ok := s.generations[url]; !ok {
			s.generations[url] = 1
		}
		rec.mu.Lock()
		rec.drop()
		rec.mu.Unlock()
	}

	return nil
}

func (r *datasetRecord) drop() {
	r.table = entity.Table{}
	r.ready = false
	if r.meta.Status == entity.DatasetStatusReady {
		r.meta.Status = entity.DatasetStatusLoading
	}
}

// current returns the record of url if generation is still the latest. The
// caller holds s.mu.
func (s *InMemoryStore) current(url string, generation uint64) (*datasetRecord, error) {
	rec, ok := s.datasets[url]
	if !ok {
		return nil, pkgerror.ErrNotFound
	}
	if generation != s.generations[url] {
		return nil, pkgerror.ErrStale
	}

	return rec, nil
}
