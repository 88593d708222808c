package network

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/encoding/htmlindex"
)

// ResourceType represents the type of a resource.
type ResourceType int

const (
	ResourceTypeUnknown ResourceType = iota
	ResourceTypeDocument
	ResourceTypeStylesheet
	ResourceTypeScript
	ResourceTypeFont
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeDocument:
		return "document"
	case ResourceTypeStylesheet:
		return "stylesheet"
	case ResourceTypeScript:
		return "script"
	case ResourceTypeFont:
		return "font"
	default:
		return "unknown"
	}
}

// ResourceTypeFromInitiator maps a request initiator name ("font", "css",
// "script", ...) to a resource type.
func ResourceTypeFromInitiator(initiator string) ResourceType {
	switch strings.ToLower(initiator) {
	case "document", "navigation":
		return ResourceTypeDocument
	case "css", "link", "stylesheet":
		return ResourceTypeStylesheet
	case "script":
		return ResourceTypeScript
	case "font", "@font-face":
		return ResourceTypeFont
	default:
		return ResourceTypeUnknown
	}
}

// Resource represents a loaded resource.
type Resource struct {
	URL         string
	Type        ResourceType
	Content     []byte
	ContentType string
	Charset     string
	StatusCode  int
	Error       error
	Cached      bool
}

// IsSuccess returns true if the resource was loaded successfully.
func (r *Resource) IsSuccess() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 400
}

// AsString returns the raw resource content as a string.
func (r *Resource) AsString() string {
	return string(r.Content)
}

// Text decodes the content using the resource's charset. An empty or UTF-8
// charset returns the content unchanged.
func (r *Resource) Text() (string, error) {
	charset := strings.ToLower(strings.TrimSpace(r.Charset))
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return strings.TrimPrefix(string(r.Content), "\uFEFF"), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("unsupported charset %q: %w", r.Charset, err)
	}
	b, err := enc.NewDecoder().Bytes(r.Content)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s content: %w", charset, err)
	}
	return string(b), nil
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLocalPath sets a local path to load resources from before trying HTTP.
func WithLocalPath(path string) LoaderOption {
	return func(l *Loader) {
		l.localPath = path
	}
}

// WithCache enables caching with the specified cache.
func WithCache(cache *Cache) LoaderOption {
	return func(l *Loader) {
		l.cache = cache
	}
}

// WithTaskQueue makes RequestResource deliver completions through queue, so
// that they run on the goroutine draining it.
func WithTaskQueue(queue *TaskQueue) LoaderOption {
	return func(l *Loader) {
		l.queue = queue
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger == nil {
			logger = zap.NewNop()
		}
		l.logger = logger.Named("loader")
	}
}

// Loader handles loading resources from HTTP, data URLs or the local
// filesystem.
type Loader struct {
	client    *Client
	cache     *Cache
	queue     *TaskQueue
	logger    *zap.Logger
	localPath string
	baseURL   string

	// fetches collapses concurrent network loads of the same URL.
	fetches singleflight.Group

	mu sync.RWMutex
}

// NewLoader creates a new resource loader.
func NewLoader(client *Client, opts ...LoaderOption) *Loader {
	l := &Loader{
		client: client,
		cache:  NewCache(1000),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetBaseURL sets the base URL for resolving relative URLs.
func (l *Loader) SetBaseURL(baseURL string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.baseURL = baseURL
}

// BaseURL returns the current base URL.
func (l *Loader) BaseURL() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.baseURL
}

// Resolve resolves urlStr against the base URL.
func (l *Loader) Resolve(urlStr string) (string, error) {
	baseURL := l.BaseURL()
	if baseURL == "" || IsAbsoluteURL(urlStr) {
		return urlStr, nil
	}
	resolved, err := ResolveURL(baseURL, urlStr)
	if err != nil {
		return "", fmt.Errorf("failed to resolve URL: %w", err)
	}
	return resolved, nil
}

// Load loads a resource synchronously. Failures are reported in
// Resource.Error.
func (l *Loader) Load(ctx context.Context, urlStr string, resourceType ResourceType) *Resource {
	if IsDataURL(urlStr) {
		return l.loadDataURL(urlStr, resourceType)
	}

	resolved, err := l.Resolve(urlStr)
	if err != nil {
		return &Resource{URL: urlStr, Type: resourceType, Error: err}
	}
	urlStr = resolved

	if entry, ok := l.cache.Get(urlStr); ok && !entry.IsExpired() {
		resp := entry.Response
		mediaType, charset := ParseContentType(resp.ContentType)
		return &Resource{
			URL:         urlStr,
			Type:        resourceType,
			Content:     resp.Body,
			ContentType: mediaType,
			Charset:     charset,
			StatusCode:  resp.StatusCode,
			Cached:      true,
		}
	}

	l.mu.RLock()
	localPath := l.localPath
	l.mu.RUnlock()
	if localPath != "" || strings.HasPrefix(urlStr, "file://") {
		resource := l.loadFromLocal(urlStr, localPath, resourceType)
		if resource.Error == nil {
			return resource
		}
		if !strings.HasPrefix(urlStr, "http://") && !strings.HasPrefix(urlStr, "https://") {
			return resource
		}
	}

	// The shared fetch outlives any one caller; each caller stops waiting
	// when its own ctx is done. The client timeout still bounds the fetch.
	fetch := l.fetches.DoChan(urlStr, func() (any, error) {
		return l.loadFromHTTP(context.WithoutCancel(ctx), urlStr), nil
	})
	select {
	case r := <-fetch:
		res := *r.Val.(*Resource)
		res.Type = resourceType
		return &res
	case <-ctx.Done():
		return &Resource{URL: urlStr, Type: resourceType, Error: ctx.Err()}
	}
}

func (l *Loader) loadDataURL(urlStr string, resourceType ResourceType) *Resource {
	dataURL, err := ParseDataURL(urlStr)
	if err != nil {
		return &Resource{URL: urlStr, Type: resourceType, Error: err}
	}
	return &Resource{
		URL:         urlStr,
		Type:        resourceType,
		Content:     dataURL.Data,
		ContentType: dataURL.MediaType,
		Charset:     strings.ToLower(dataURL.Charset),
		StatusCode:  200,
	}
}

func (l *Loader) loadFromLocal(urlStr, basePath string, resourceType ResourceType) *Resource {
	path := ExtractPath(urlStr)
	if path == "" {
		path = urlStr
	}

	var localPath string
	switch {
	case strings.HasPrefix(urlStr, "file://") && filepath.IsAbs(path):
		if _, err := os.Stat(path); err == nil || basePath == "" {
			localPath = path
		} else {
			localPath = filepath.Join(basePath, path)
		}
	case filepath.IsAbs(path) && basePath != "" && strings.HasPrefix(path, basePath):
		localPath = path
	default:
		localPath = filepath.Join(basePath, path)
	}

	content, err := os.ReadFile(localPath)
	if err != nil {
		return &Resource{URL: urlStr, Type: resourceType, Error: err}
	}
	return &Resource{
		URL:         urlStr,
		Type:        resourceType,
		Content:     content,
		ContentType: GuessContentType(urlStr),
		StatusCode:  200,
	}
}

func (l *Loader) loadFromHTTP(ctx context.Context, urlStr string) *Resource {
	resp, err := l.client.Get(ctx, urlStr)
	if err != nil {
		l.logger.Debug("fetch failed", zap.String("url", urlStr), zap.Error(err))
		return &Resource{URL: urlStr, Error: err}
	}

	mediaType, charset := ParseContentType(resp.ContentType)
	resource := &Resource{
		URL:         urlStr,
		Content:     resp.Body,
		ContentType: mediaType,
		Charset:     charset,
		StatusCode:  resp.StatusCode,
	}
	if resource.IsSuccess() {
		l.cache.Set(urlStr, resp, resp.Headers)
	} else {
		l.logger.Debug("fetch returned error status",
			zap.String("url", urlStr), zap.Int("status", resp.StatusCode))
	}
	return resource
}

// LoadDocument loads an HTML document.
func (l *Loader) LoadDocument(ctx context.Context, urlStr string) *Resource {
	return l.Load(ctx, urlStr, ResourceTypeDocument)
}

// LoadStylesheet loads a CSS stylesheet.
func (l *Loader) LoadStylesheet(ctx context.Context, urlStr string) *Resource {
	return l.Load(ctx, urlStr, ResourceTypeStylesheet)
}

// Handle is an in-flight request started by RequestResource.
type Handle struct {
	url       string
	initiator string
	cancel    context.CancelFunc
	canceled  atomic.Bool
	delivered atomic.Bool
}

// URL returns the requested URL after resolution.
func (h *Handle) URL() string {
	return h.url
}

// Initiator returns the name of the component that started the request.
func (h *Handle) Initiator() string {
	return h.initiator
}

// Cancel aborts the request. A canceled request never delivers its result.
// Cancel after delivery is a no-op.
func (h *Handle) Cancel() {
	if h.canceled.CompareAndSwap(false, true) {
		h.cancel()
	}
}

// Canceled reports whether Cancel was called before delivery.
func (h *Handle) Canceled() bool {
	return h.canceled.Load() && !h.delivered.Load()
}

// Delivered reports whether the completion callback ran.
func (h *Handle) Delivered() bool {
	return h.delivered.Load()
}

// RequestResource starts loading urlStr in the background and calls done with
// the result. With a task queue configured the callback runs from
// TaskQueue.RunPending; otherwise it runs on the loading goroutine.
//
// An error is returned only when the request cannot be issued at all; load
// failures are delivered through done in Resource.Error.
func (l *Loader) RequestResource(ctx context.Context, urlStr, initiator string, done func(*Resource)) (*Handle, error) {
	if strings.TrimSpace(urlStr) == "" {
		return nil, errors.New("network: empty URL")
	}
	if done == nil {
		return nil, errors.New("network: nil completion callback")
	}
	resolved := urlStr
	if !IsDataURL(urlStr) {
		var err error
		if resolved, err = l.Resolve(urlStr); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{url: resolved, initiator: initiator, cancel: cancel}
	resourceType := ResourceTypeFromInitiator(initiator)
	l.logger.Debug("request started",
		zap.String("url", resolved), zap.String("initiator", initiator))

	if l.queue != nil {
		l.queue.begin()
	}
	go func() {
		defer cancel()
		res := l.Load(ctx, resolved, resourceType)
		deliver := func() {
			if h.canceled.Load() {
				l.logger.Debug("request canceled", zap.String("url", resolved))
				return
			}
			h.delivered.Store(true)
			if res.Error != nil {
				l.logger.Warn("resource load failed",
					zap.String("url", resolved), zap.String("initiator", initiator), zap.Error(res.Error))
			}
			done(res)
		}
		if l.queue != nil {
			l.queue.post(deliver)
		} else {
			deliver()
		}
	}()
	return h, nil
}

// ClearCache clears the loader's cache.
func (l *Loader) ClearCache() {
	l.cache.Clear()
}
