package api

import (
	"testing"
	"time"

	"github.com/samcharles93/peaktable/pkg/peaktable"
)

func TestTableStoreOrderAndDelete(t *testing.T) {
	t.Parallel()

	s := NewTableStore()
	now := time.Unix(1700000000, 0)
	tbl := &peaktable.Table{Declared: 2, Records: samplePeaks}

	a := s.Add("a", 648, tbl, nil, nil, now)
	b := s.Add("b", 648, tbl, nil, nil, now)
	c := s.Add("c", 648, &peaktable.Table{}, nil, nil, now)

	if a.Meta.ID == b.Meta.ID {
		t.Fatalf("ids must be unique")
	}
	if a.Meta.CreatedAt != now.Unix() {
		t.Fatalf("created_at mismatch: got %d", a.Meta.CreatedAt)
	}
	if a.Summary == nil || c.Summary != nil {
		t.Fatalf("summary presence mismatch: a=%v c=%v", a.Summary, c.Summary)
	}
	if c.Warnings == nil {
		t.Fatalf("warnings must serialise as an empty list")
	}

	if !s.Delete(b.Meta.ID) {
		t.Fatalf("delete existing table failed")
	}
	list := s.List()
	if len(list) != 2 || list[0].Name != "a" || list[1].Name != "c" {
		t.Fatalf("unexpected order after delete: %+v", list)
	}
	if s.Delete("missing") {
		t.Fatalf("delete of unknown id reported success")
	}
}
