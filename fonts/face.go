// Package fonts implements @font-face resource sets: a face holds an
// ordered list of sources and selects the first one able to provide font
// data, reporting load progress to a notifier.
package fonts

import (
	"slices"

	"go.uber.org/zap"
)

// LoadState is the load progress of a face as reported to its notifier.
type LoadState int

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
	Error
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	default:
		return "not-loaded"
	}
}

// LoadNotifier receives face load state transitions.
type LoadNotifier interface {
	BeginLoading(f *Face)
	Loaded(f *Face)
	LoadError(f *Face, active Source)
}

// Client is notified when the active source of a face finishes loading,
// so that it can re-run source selection.
type Client interface {
	FontLoaded(f *Face)
}

// Description describes the font a caller is looking for.
type Description struct {
	Family string
	Weight int // 100-900; 0 means normal (400)
	Italic bool
	Size   float64
}

func (d Description) weight() int {
	if d.Weight == 0 {
		return 400
	}
	return d.Weight
}

// Face is one @font-face rule: a family with style descriptors and an
// ordered list of sources.
type Face struct {
	Family string
	Weight int // 0 means normal (400)
	Italic bool

	sources  []Source
	active   Source
	state    LoadState
	notifier LoadNotifier
	clients  []Client
	logger   *zap.Logger
}

// FaceOption configures a Face.
type FaceOption func(*Face)

// WithNotifier sets the load state notifier.
func WithNotifier(n LoadNotifier) FaceOption {
	return func(f *Face) {
		f.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) FaceOption {
	return func(f *Face) {
		if logger != nil {
			f.logger = logger.Named("fonts")
		}
	}
}

// NewFace creates a face with no sources.
func NewFace(family string, opts ...FaceOption) *Face {
	f := &Face{
		Family: family,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddSource appends a source. Sources are tried in the order they were
// added.
func (f *Face) AddSource(src Source) {
	if a, ok := src.(asyncSource); ok {
		a.setFace(f)
	}
	f.sources = append(f.sources, src)
}

// Sources returns the face's sources in priority order.
func (f *Face) Sources() []Source {
	return slices.Clone(f.sources)
}

// IsLoaded reports whether every source has finished loading. A face
// without sources is loaded.
func (f *Face) IsLoaded() bool {
	for _, src := range f.sources {
		if !src.IsLoaded() {
			return false
		}
	}
	return true
}

// IsValid reports whether any source can still provide font data.
func (f *Face) IsValid() bool {
	for _, src := range f.sources {
		if src.IsValid() {
			return true
		}
	}
	return false
}

// ActiveSource returns the source chosen by the last SelectBestSource, or
// nil.
func (f *Face) ActiveSource() Source {
	return f.active
}

// State returns the current load state.
func (f *Face) State() LoadState {
	return f.state
}

// AddClient registers a client for load completion.
func (f *Face) AddClient(c Client) {
	if c != nil && !slices.Contains(f.clients, c) {
		f.clients = append(f.clients, c)
	}
}

// RemoveClient unregisters a client.
func (f *Face) RemoveClient(c Client) {
	f.clients = slices.DeleteFunc(f.clients, func(cur Client) bool { return cur == c })
}

// SelectBestSource walks the sources in order and makes the first one that
// produces data for desc the active source. A source still loading yields a
// pending placeholder and becomes active; its completion is reported
// through SourceLoaded. When no source produces data the active source is
// cleared and a Loading face moves to Error.
func (f *Face) SelectBestSource(desc Description) *FontData {
	f.active = nil
	if f.state == NotLoaded {
		f.setState(Loading, nil)
	}

	for _, src := range f.sources {
		if !src.IsValid() {
			continue
		}
		data := src.FontData(desc)
		if data == nil {
			continue
		}
		f.active = src
		data.SyntheticBold = desc.weight() >= 600 && f.weight() < 600
		data.SyntheticItalic = desc.Italic && !f.Italic
		if f.state == Loading && src.IsLoaded() {
			f.setState(Loaded, nil)
		}
		return data
	}

	if f.state == Loading {
		f.setState(Error, nil)
	}
	return nil
}

// SourceLoaded is called by a source when its load finished. Completions of
// sources other than the active one are ignored.
func (f *Face) SourceLoaded(src Source) {
	if src == nil || src != f.active {
		return
	}
	if f.state == Loading {
		switch {
		case src.IsValid():
			f.setState(Loaded, nil)
		case !f.IsValid():
			f.setState(Error, src)
		}
	}
	for _, c := range slices.Clone(f.clients) {
		c.FontLoaded(f)
	}
}

func (f *Face) weight() int {
	if f.Weight == 0 {
		return 400
	}
	return f.Weight
}

func (f *Face) setState(state LoadState, failed Source) {
	f.state = state
	f.logger.Debug("font face state changed",
		zap.String("family", f.Family), zap.Stringer("state", state))
	if state == Error {
		f.logger.Warn("font face failed to load",
			zap.String("family", f.Family), zap.Int("sources", len(f.sources)))
	}
	if f.notifier == nil {
		return
	}
	switch state {
	case Loading:
		f.notifier.BeginLoading(f)
	case Loaded:
		f.notifier.Loaded(f)
	case Error:
		f.notifier.LoadError(f, failed)
	}
}
