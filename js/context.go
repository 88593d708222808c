// Package js exposes the document model to JavaScript. It uses the goja
// JavaScript engine (pure Go ES5.1+ implementation).
//
// Each Context owns its own runtime and its own map from Go objects to
// script wrappers, so one object seen from two contexts has two distinct
// wrappers while repeated lookups in one context return the same wrapper.
package js

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/vibedom/dom"
	"github.com/chrisuehlinger/vibedom/fonts"
	"github.com/chrisuehlinger/vibedom/svg"
)

// Context is one script execution context.
type Context struct {
	vm        *goja.Runtime
	logger    *zap.Logger
	wrappers  map[any]*goja.Object
	selves    map[*goja.Object]any
	observers []*mutationObserver
	errors    []error
	disposed  bool
}

// Option configures a Context.
type Option func(*Context)

// WithLogger routes console output and binding errors to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger.Named("js")
		}
	}
}

// NewContext creates a context with a fresh runtime.
func NewContext(opts ...Option) *Context {
	c := &Context{
		vm:       goja.New(),
		logger:   zap.NewNop(),
		wrappers: make(map[any]*goja.Object),
		selves:   make(map[*goja.Object]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.setupConsole()
	c.setupDOMException()
	c.setupMutationObserver()
	return c
}

// VM returns the underlying goja runtime.
func (c *Context) VM() *goja.Runtime {
	return c.vm
}

// Wrap returns the script wrapper for v, creating it on first use. Values
// without a class are converted with goja's default rules.
func (c *Context) Wrap(v any) goja.Value {
	if v == nil || c.disposed {
		return goja.Null()
	}
	key, self, class := classify(v)
	if class == nil {
		return c.vm.ToValue(v)
	}
	if key == nil {
		return goja.Null()
	}
	if obj, ok := c.wrappers[key]; ok {
		return obj
	}
	obj := c.vm.NewDynamicObject(&wrapper{
		ctx:     c,
		class:   class,
		self:    self,
		methods: make(map[string]goja.Value),
		expando: make(map[string]goja.Value),
	})
	c.wrappers[key] = obj
	c.selves[obj] = self
	return obj
}

// Unwrap returns the Go object behind a wrapper created by this context.
func (c *Context) Unwrap(v goja.Value) (any, bool) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	self, ok := c.selves[obj]
	return self, ok
}

// Set binds a global name to the wrapper of v.
func (c *Context) Set(name string, v any) error {
	return c.vm.Set(name, c.Wrap(v))
}

// WrapperCount returns the number of live wrappers.
func (c *Context) WrapperCount() int {
	return len(c.wrappers)
}

// Dispose drops every wrapper. Wrappers already handed to script stop
// resolving properties.
func (c *Context) Dispose() {
	for _, mo := range c.observers {
		mo.disconnect()
	}
	c.observers = nil
	c.disposed = true
	c.wrappers = nil
	c.selves = nil
}

// Run executes src and then delivers queued mutation records. Script
// exceptions and runtime panics are returned as errors and recorded.
func (c *Context) Run(name, src string) (result goja.Value, err error) {
	if c.disposed {
		return nil, errors.New("js: context disposed")
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic in %s: %v", name, p)
			c.recordError(err)
		}
	}()

	program, err := goja.Compile(name, src, false)
	if err != nil {
		c.recordError(err)
		return nil, err
	}
	result, err = c.vm.RunProgram(program)
	if err != nil {
		c.recordError(err)
	}
	c.DeliverMutations()
	return result, err
}

// Errors returns all errors that occurred during execution.
func (c *Context) Errors() []error {
	return append([]error{}, c.errors...)
}

func (c *Context) recordError(err error) {
	c.errors = append(c.errors, err)
	c.logger.Warn("script error", zap.Error(err))
}

// classify finds the identity key, the receiver handed to the class tables
// and the class for v. Node views share one key so that a Text and its
// *dom.Node map to the same wrapper.
func classify(v any) (key, self any, class *Class) {
	switch x := v.(type) {
	case *dom.Node:
		if x == nil {
			return nil, nil, nodeClass
		}
		return x, x, classForNode(x)
	case *dom.Document:
		return classify(x.AsNode())
	case *dom.Element:
		return classify(x.AsNode())
	case *dom.CharacterData:
		return classify(x.AsNode())
	case *dom.Text:
		return classify(x.AsNode())
	case *svg.List[float64]:
		return x, x, numberListClass
	case *svg.List[svg.Point]:
		return x, x, pointListClass
	case *svg.List[string]:
		return x, x, stringListClass
	case *fonts.Face:
		return x, x, fontFaceClass
	case *mutationObserver:
		return x, x, mutationObserverClass
	}
	return nil, nil, nil
}

func (c *Context) setupConsole() {
	console := c.vm.NewObject()
	levels := map[string]func(string, ...zap.Field){
		"log":   c.logger.Info,
		"info":  c.logger.Info,
		"warn":  c.logger.Warn,
		"error": c.logger.Error,
		"debug": c.logger.Debug,
		"trace": c.logger.Debug,
	}
	for name, log := range levels {
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			log(formatArgs(call.Arguments), zap.String("console", name))
			return goja.Undefined()
		})
	}
	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg += ": " + formatArgs(call.Arguments[1:])
			}
			c.logger.Error(msg, zap.String("console", "assert"))
		}
		return goja.Undefined()
	})
	c.vm.Set("console", console)
}

// setupDOMException installs a DOMException constructor whose instances
// carry name, message and the legacy code.
func (c *Context) setupDOMException() {
	vm := c.vm
	proto := vm.NewObject()
	errorProto := vm.Get("Error").ToObject(vm).Get("prototype").ToObject(vm)
	proto.SetPrototype(errorProto)

	ctor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		message := ""
		name := "Error"
		if len(call.Arguments) > 0 {
			message = call.Arguments[0].String()
		}
		if len(call.Arguments) > 1 {
			name = call.Arguments[1].String()
		}
		exc := call.This
		exc.Set("message", message)
		exc.Set("name", name)
		exc.Set("code", dom.ExceptionCode(name))
		return exc
	}).ToObject(vm)
	ctor.Set("prototype", proto)
	proto.Set("constructor", ctor)
	ctor.Set("INDEX_SIZE_ERR", 1)
	ctor.Set("HIERARCHY_REQUEST_ERR", 3)
	ctor.Set("INVALID_CHARACTER_ERR", 5)
	ctor.Set("NOT_FOUND_ERR", 8)
	ctor.Set("NOT_SUPPORTED_ERR", 9)
	vm.Set("DOMException", ctor)
}

// createDOMException creates a DOMException object using the global
// constructor.
func (c *Context) createDOMException(name, message string) *goja.Object {
	if ctor, ok := goja.AssertConstructor(c.vm.Get("DOMException")); ok {
		if exc, err := ctor(nil, c.vm.ToValue(message), c.vm.ToValue(name)); err == nil {
			return exc
		}
	}
	exc := c.vm.NewObject()
	exc.Set("name", name)
	exc.Set("message", message)
	exc.Set("code", dom.ExceptionCode(name))
	return exc
}

// throw raises err in script. DOM errors become DOMExceptions; anything
// else becomes a GoError.
func (c *Context) throw(err error) {
	var domErr *dom.DOMError
	if errors.As(err, &domErr) {
		panic(c.vm.ToValue(c.createDOMException(domErr.Name, domErr.Message)))
	}
	panic(c.vm.NewGoError(err))
}

// throwIndexSizeError throws a DOMException with name "IndexSizeError".
func (c *Context) throwIndexSizeError() {
	c.throw(dom.ErrIndexSize("The index is not in the allowed range."))
}

// requireArgs throws a TypeError when fewer than n arguments were passed.
func (c *Context) requireArgs(call goja.FunctionCall, n int, method string) {
	if len(call.Arguments) < n {
		panic(c.vm.NewTypeError(fmt.Sprintf("%s requires %d argument(s), but only %d present", method, n, len(call.Arguments))))
	}
}

// toUint32 converts a JavaScript value to an unsigned 32-bit integer per
// Web IDL: NaN and infinities become 0, everything else is truncated and
// wrapped modulo 2^32.
func toUint32(v goja.Value) uint32 {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	num := v.ToFloat()
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0
	}
	return uint32(int64(math.Mod(math.Trunc(num), 1<<32)))
}

// formatArgs formats console arguments for output.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value for output.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
