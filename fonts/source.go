package fonts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/font/sfnt"

	"github.com/chrisuehlinger/vibedom/network"
)

// FontData is the font a source produced for a description.
type FontData struct {
	Font   *sfnt.Font
	Name   string
	Source Source

	// Pending marks a placeholder returned while the source is still
	// loading.
	Pending bool

	SyntheticBold   bool
	SyntheticItalic bool
}

// Source is one entry of a face's src list.
type Source interface {
	// IsLoaded reports whether the source has finished loading, with or
	// without success.
	IsLoaded() bool
	// IsValid reports whether the source can still provide data.
	IsValid() bool
	// FontData returns data for desc, a pending placeholder while loading,
	// or nil when the source cannot serve desc.
	FontData(desc Description) *FontData
	String() string
}

// asyncSource is implemented by sources that report load completion to
// their face.
type asyncSource interface {
	setFace(f *Face)
}

// SupportedFormat reports whether a format() hint names a format this
// package can decode. An empty hint is accepted.
func SupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "truetype", "opentype", "truetype-variations", "opentype-variations":
		return true
	}
	return false
}

// LocalSource is a local(name) entry resolved against a registry.
type LocalSource struct {
	name     string
	registry *Registry
}

// NewLocalSource creates a source for an installed font.
func NewLocalSource(name string, registry *Registry) *LocalSource {
	return &LocalSource{name: name, registry: registry}
}

func (s *LocalSource) IsLoaded() bool { return true }

func (s *LocalSource) IsValid() bool {
	_, ok := s.registry.Lookup(s.name)
	return ok
}

func (s *LocalSource) FontData(Description) *FontData {
	f, ok := s.registry.Lookup(s.name)
	if !ok {
		return nil
	}
	return &FontData{Font: f, Name: s.name, Source: s}
}

func (s *LocalSource) String() string {
	return fmt.Sprintf("local(%q)", s.name)
}

// ResourceLoader starts asynchronous resource loads. Completions must be
// delivered on the goroutine that owns the faces, which *network.Loader
// does when it is configured with a task queue.
type ResourceLoader interface {
	RequestResource(ctx context.Context, url, initiator string, done func(*network.Resource)) (*network.Handle, error)
}

type remoteState int

const (
	remoteIdle remoteState = iota
	remoteFetching
	remoteDone
)

// RemoteSource is a url() entry. The fetch starts the first time font data
// is requested.
type RemoteSource struct {
	url    string
	format string
	loader ResourceLoader

	face   *Face
	handle *network.Handle
	state  remoteState
	gen    int
	font   *sfnt.Font
	err    error
}

// NewRemoteSource creates a source for a downloadable font.
func NewRemoteSource(url, format string, loader ResourceLoader) *RemoteSource {
	return &RemoteSource{url: url, format: format, loader: loader}
}

func (s *RemoteSource) setFace(f *Face) {
	s.face = f
}

// URL returns the font URL.
func (s *RemoteSource) URL() string {
	return s.url
}

// Err returns the reason the load failed, if it did.
func (s *RemoteSource) Err() error {
	return s.err
}

func (s *RemoteSource) IsLoaded() bool {
	return s.state == remoteDone
}

func (s *RemoteSource) IsValid() bool {
	return s.state != remoteDone || s.font != nil
}

func (s *RemoteSource) FontData(Description) *FontData {
	if s.state == remoteIdle {
		s.start()
	}
	switch s.state {
	case remoteFetching:
		return &FontData{Name: s.url, Source: s, Pending: true}
	case remoteDone:
		if s.font == nil {
			return nil
		}
		return &FontData{Font: s.font, Name: s.url, Source: s}
	}
	return nil
}

// Cancel abandons an in-flight fetch. The source returns to its initial
// state and fetches again on the next request.
func (s *RemoteSource) Cancel() {
	if s.state != remoteFetching {
		return
	}
	if s.handle != nil {
		s.handle.Cancel()
	}
	s.handle = nil
	s.state = remoteIdle
	s.gen++
}

func (s *RemoteSource) String() string {
	if s.format != "" {
		return fmt.Sprintf("url(%q) format(%q)", s.url, s.format)
	}
	return fmt.Sprintf("url(%q)", s.url)
}

func (s *RemoteSource) start() {
	if s.loader == nil {
		s.fail(fmt.Errorf("no resource loader for %s", s.url))
		return
	}
	gen := s.gen
	h, err := s.loader.RequestResource(context.Background(), s.url, "font", func(res *network.Resource) {
		if gen == s.gen {
			s.complete(res)
		}
	})
	if err != nil {
		s.fail(err)
		return
	}
	s.handle = h
	s.state = remoteFetching
}

func (s *RemoteSource) fail(err error) {
	s.state = remoteDone
	s.err = err
	s.logger().Warn("font source failed", zap.String("url", s.url), zap.Error(err))
}

func (s *RemoteSource) complete(res *network.Resource) {
	if s.state != remoteFetching {
		return
	}
	s.handle = nil

	switch {
	case res.Error != nil:
		s.fail(res.Error)
	case !res.IsSuccess():
		s.fail(fmt.Errorf("font %s: status %d", s.url, res.StatusCode))
	default:
		f, err := sfnt.Parse(res.Content)
		if err != nil {
			s.fail(fmt.Errorf("font %s: %w", s.url, err))
			break
		}
		s.font = f
		s.state = remoteDone
		s.logger().Debug("font source loaded", zap.String("url", s.url))
	}

	if s.face != nil {
		s.face.SourceLoaded(s)
	}
}

func (s *RemoteSource) logger() *zap.Logger {
	if s.face != nil {
		return s.face.logger
	}
	return zap.NewNop()
}
