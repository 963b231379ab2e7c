package pointer

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// JoinOrder remembers the order in which pointers went down, so that the
// pointers of every sample can be presented oldest first regardless of how
// the source orders them.
type JoinOrder struct {
	ids *orderedmap.OrderedMap[ID, struct{}]
}

func NewJoinOrder() *JoinOrder {
	return &JoinOrder{ids: orderedmap.New[ID, struct{}]()}
}

// Normalize registers new pointers and returns a copy of s with Pointers in
// join order and Index remapped accordingly.
func (o *JoinOrder) Normalize(s Sample) Sample {
	if s.Action == Down {
		o.Clear()
	}
	for _, p := range s.Pointers {
		if _, ok := o.ids.Get(p.ID); !ok {
			o.ids.Set(p.ID, struct{}{})
		}
	}

	rank := make(map[ID]int, o.ids.Len())
	i := 0
	for p := o.ids.Oldest(); p != nil; p = p.Next() {
		rank[p.Key] = i
		i++
	}

	changed, hasChanged := s.Changed()
	out := s
	out.Pointers = append([]Pointer(nil), s.Pointers...)
	sort.SliceStable(out.Pointers, func(a, b int) bool {
		return rank[out.Pointers[a].ID] < rank[out.Pointers[b].ID]
	})
	out.Index = -1
	if hasChanged {
		for i, p := range out.Pointers {
			if p.ID == changed.ID {
				out.Index = i
				break
			}
		}
	}
	return out
}

// Release forgets the pointers a handled sample took off the surface
func (o *JoinOrder) Release(s Sample) {
	switch s.Action {
	case Up, Cancel:
		o.Clear()
	case PointerUp:
		if lifted, ok := s.Lifted(); ok {
			o.ids.Delete(lifted.ID)
		}
	}
}

// IDs returns the known pointers oldest first
func (o *JoinOrder) IDs() []ID {
	ids := make([]ID, 0, o.ids.Len())
	for p := o.ids.Oldest(); p != nil; p = p.Next() {
		ids = append(ids, p.Key)
	}
	return ids
}

func (o *JoinOrder) Clear() {
	o.ids = orderedmap.New[ID, struct{}]()
}
