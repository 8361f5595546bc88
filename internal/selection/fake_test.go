package selection

import (
	"context"
	"sort"
	"sync"
)

// fakeLoader is an in-memory TreeLoader over a fixed category set. A
// non-nil gate makes the named method block until the gate closes, for
// exercising overlapping loads.
type fakeLoader struct {
	mu        sync.Mutex
	cats      map[string]Category
	areaNames map[string]string

	topGate   chan struct{}
	childGate chan struct{}

	// Buffered; receives one token when the corresponding gated method
	// is entered, so tests can sequence deterministically.
	topEntered   chan struct{}
	childEntered chan struct{}

	topCalls   int
	childCalls int
}

func strp(s string) *string { return &s }

// newFitnessLoader builds the tree used across the package tests:
//
//	Fitness (area-1)
//	  Strength (c1, L1)
//	    Upper Body (c11, L2)
//	      Bench Press (c111, L3, leaf)
//	      Overhead Press (c112, L3, leaf)
//	    Lower Body (c12, L2)
//	  Cardio (c2, L1, leaf)
func newFitnessLoader() *fakeLoader {
	cats := []Category{
		{ID: "c1", Name: "Strength", Level: 1, AreaID: strp("area-1"), SortOrder: 1},
		{ID: "c2", Name: "Cardio", Level: 1, AreaID: strp("area-1"), SortOrder: 2},
		{ID: "c11", Name: "Upper Body", Level: 2, ParentCategoryID: strp("c1"), AreaID: strp("area-1"), SortOrder: 1},
		{ID: "c12", Name: "Lower Body", Level: 2, ParentCategoryID: strp("c1"), AreaID: strp("area-1"), SortOrder: 2},
		{ID: "c111", Name: "Bench Press", Level: 3, ParentCategoryID: strp("c11"), AreaID: strp("area-1"), SortOrder: 1},
		{ID: "c112", Name: "Overhead Press", Level: 3, ParentCategoryID: strp("c11"), AreaID: strp("area-1"), SortOrder: 2},
	}
	byID := make(map[string]Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}
	return &fakeLoader{
		cats:      byID,
		areaNames: map[string]string{"area-1": "Fitness"},
	}
}

func (f *fakeLoader) TopLevels(_ context.Context, areaID string) []Category {
	if f.topGate != nil {
		if f.topEntered != nil {
			select {
			case f.topEntered <- struct{}{}:
			default:
			}
		}
		<-f.topGate
	}
	f.mu.Lock()
	f.topCalls++
	f.mu.Unlock()

	var out []Category
	for _, c := range f.cats {
		if c.AreaID != nil && *c.AreaID == areaID && c.Level <= 2 {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

func (f *fakeLoader) Children(_ context.Context, parentID string) []Category {
	if f.childGate != nil {
		if f.childEntered != nil {
			select {
			case f.childEntered <- struct{}{}:
			default:
			}
		}
		<-f.childGate
	}
	f.mu.Lock()
	f.childCalls++
	f.mu.Unlock()

	var out []Category
	for _, c := range f.cats {
		if c.ParentCategoryID != nil && *c.ParentCategoryID == parentID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func (f *fakeLoader) IsLeaf(ctx context.Context, categoryID string) bool {
	for _, c := range f.cats {
		if c.ParentCategoryID != nil && *c.ParentCategoryID == categoryID {
			return false
		}
	}
	return true
}

func (f *fakeLoader) AncestorPath(_ context.Context, c Category) []Category {
	path := []Category{c}
	cur := c
	for hops := 0; cur.ParentCategoryID != nil && hops < 20; hops++ {
		parent, ok := f.cats[*cur.ParentCategoryID]
		if !ok {
			break
		}
		path = append([]Category{parent}, path...)
		cur = parent
	}
	return path
}

func (f *fakeLoader) AreaName(_ context.Context, areaID string) string {
	return f.areaNames[areaID]
}

func (f *fakeLoader) calls() (top, child int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topCalls, f.childCalls
}

func ids(cats []Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.ID
	}
	return out
}
