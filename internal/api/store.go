package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samcharles93/peaktable/pkg/peaktable"
)

type tableRecord struct {
	Meta     TableMeta
	Table    *peaktable.Table
	Layout   *peaktable.Layout
	Summary  *peaktable.Summary
	Warnings []string
}

func (r *tableRecord) detail() TableDetail {
	return TableDetail{
		TableMeta:  r.Meta,
		Layout:     r.Layout,
		Statistics: r.Summary,
		Warnings:   r.Warnings,
	}
}

// TableStore keeps parsed tables in memory in upload order.
type TableStore struct {
	mu     sync.Mutex
	tables map[string]*tableRecord
	order  []string
}

func NewTableStore() *TableStore {
	return &TableStore{
		tables: make(map[string]*tableRecord),
	}
}

// Add stores a parsed table and returns its record.
func (s *TableStore) Add(name string, size int64, tbl *peaktable.Table, layout *peaktable.Layout, warnings []string, now time.Time) *tableRecord {
	rec := newTableRecord(name, size, tbl, layout, warnings, now)
	s.put(rec)
	return rec
}

// newTableRecord builds a record without storing it. Records are never
// mutated once stored.
func newTableRecord(name string, size int64, tbl *peaktable.Table, layout *peaktable.Layout, warnings []string, now time.Time) *tableRecord {
	rec := &tableRecord{
		Meta: TableMeta{
			ID:            "pt_" + uuid.NewString(),
			Object:        "peak_table",
			Name:          name,
			CreatedAt:     now.Unix(),
			FileSize:      size,
			DeclaredCount: tbl.Declared,
			NumPoints:     tbl.Len(),
			Truncated:     tbl.Truncated,
		},
		Table:    tbl,
		Layout:   layout,
		Warnings: warnings,
	}
	if rec.Warnings == nil {
		rec.Warnings = []string{}
	}
	if sum, err := peaktable.Summarize(tbl.Records); err == nil {
		rec.Summary = &sum
	}
	return rec
}

func (s *TableStore) put(rec *tableRecord) {
	s.mu.Lock()
	s.tables[rec.Meta.ID] = rec
	s.order = append(s.order, rec.Meta.ID)
	s.mu.Unlock()
}

func (s *TableStore) Get(id string) (*tableRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.tables[id]
	return rec, ok
}

func (s *TableStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[id]; !ok {
		return false
	}
	delete(s.tables, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns metadata for every stored table, oldest first.
func (s *TableStore) List() []TableMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TableMeta, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tables[id].Meta)
	}
	return out
}

func (s *TableStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables)
}
