package fonts

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"sync"
)

// LoadEvent is one notifier callback recorded by an EventLog.
type LoadEvent struct {
	State  LoadState
	Family string
	Source string
}

// EventLog is a LoadNotifier that records every transition.
type EventLog struct {
	mu     sync.Mutex
	events []LoadEvent
}

func (l *EventLog) BeginLoading(f *Face) { l.add(Loading, f, nil) }
func (l *EventLog) Loaded(f *Face)       { l.add(Loaded, f, nil) }

func (l *EventLog) LoadError(f *Face, active Source) { l.add(Error, f, active) }

// Events returns the recorded transitions in order.
func (l *EventLog) Events() []LoadEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

func (l *EventLog) add(state LoadState, f *Face, src Source) {
	ev := LoadEvent{State: state, Family: f.Family}
	if src != nil {
		ev.Source = src.String()
	}
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

// Selector matches descriptions against the faces of a document. It is a
// client of every face it holds and bumps its version whenever one of them
// finishes loading, so callers know to match again.
type Selector struct {
	faces   map[string][]*Face
	version uint64
}

// NewSelector creates an empty selector.
func NewSelector() *Selector {
	return &Selector{faces: make(map[string][]*Face)}
}

// Add registers a face under its family.
func (s *Selector) Add(f *Face) {
	key := strings.ToLower(f.Family)
	s.faces[key] = append(s.faces[key], f)
	f.AddClient(s)
}

// Faces returns the faces registered for family.
func (s *Selector) Faces(family string) []*Face {
	return slices.Clone(s.faces[strings.ToLower(family)])
}

// Families returns the registered family keys in sorted order.
func (s *Selector) Families() []string {
	return slices.Sorted(maps.Keys(s.faces))
}

// Version changes whenever a face's active source finished loading.
func (s *Selector) Version() uint64 {
	return s.version
}

// FontLoaded implements Client.
func (s *Selector) FontLoaded(*Face) {
	s.version++
}

// Match returns the face of desc's family closest in style to desc that
// can provide data, together with that data.
func (s *Selector) Match(desc Description) (*Face, *FontData) {
	candidates := s.Faces(desc.Family)
	slices.SortStableFunc(candidates, func(a, b *Face) int {
		if c := cmp.Compare(styleDistance(a, desc), styleDistance(b, desc)); c != 0 {
			return c
		}
		return cmp.Compare(weightDistance(a, desc), weightDistance(b, desc))
	})
	for _, f := range candidates {
		if data := f.SelectBestSource(desc); data != nil {
			return f, data
		}
	}
	return nil, nil
}

func styleDistance(f *Face, desc Description) int {
	if f.Italic == desc.Italic {
		return 0
	}
	return 1
}

func weightDistance(f *Face, desc Description) int {
	d := f.weight() - desc.weight()
	if d < 0 {
		return -d
	}
	return d
}
