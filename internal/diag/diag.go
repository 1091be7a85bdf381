package diag

import (
	"fmt"
	"io"
	"sync"
)

// Severity orders diagnostics from chatty to fatal.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// NoChannel marks a Context that does not refer to a UV channel.
const NoChannel = -1

// Context locates a diagnostic inside the scene being imported.
type Context struct {
	Scene   string
	Node    string
	Channel int
}

// At returns a node-level context with no channel.
func At(node string) Context {
	return Context{Node: node, Channel: NoChannel}
}

// InScene returns a copy of c tagged with the scene name.
func (c Context) InScene(name string) Context {
	c.Scene = name
	return c
}

// WithChannel returns a copy of c pointing at UV channel ch.
func (c Context) WithChannel(ch int) Context {
	c.Channel = ch
	return c
}

func (c Context) String() string {
	s := c.Node
	switch {
	case c.Scene != "" && s == "":
		s = c.Scene
	case c.Scene != "":
		s = c.Scene + "/" + s
	}
	if c.Channel >= 0 {
		s = fmt.Sprintf("%s uv%d", s, c.Channel)
	}
	return s
}

// Sink receives diagnostics from the import pipeline.
type Sink interface {
	Report(sev Severity, ctx Context, msg string)
}

// Discard drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(Severity, Context, string) {}

// Issue is one recorded diagnostic.
type Issue struct {
	Level   string `json:"level"`
	Scene   string `json:"scene,omitempty"`
	Node    string `json:"node,omitempty"`
	Channel *int   `json:"channel,omitempty"`
	Message string `json:"message"`

	Severity Severity `json:"-"`
}

// Collector stores diagnostics in arrival order. Safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	issues []Issue
}

func (c *Collector) Report(sev Severity, ctx Context, msg string) {
	is := Issue{Level: sev.String(), Scene: ctx.Scene, Node: ctx.Node, Message: msg, Severity: sev}
	if ctx.Channel >= 0 {
		ch := ctx.Channel
		is.Channel = &ch
	}
	c.mu.Lock()
	c.issues = append(c.issues, is)
	c.mu.Unlock()
}

// Issues returns a copy of everything collected so far.
func (c *Collector) Issues() []Issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Issue, len(c.issues))
	copy(out, c.issues)
	return out
}

// Count returns how many issues at exactly sev were collected.
func (c *Collector) Count(sev Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, is := range c.issues {
		if is.Severity == sev {
			n++
		}
	}
	return n
}

// WriterSink prints diagnostics at or above Min, one per line.
type WriterSink struct {
	W   io.Writer
	Min Severity

	mu sync.Mutex
}

func NewWriterSink(w io.Writer, min Severity) *WriterSink {
	return &WriterSink{W: w, Min: min}
}

func (s *WriterSink) Report(sev Severity, ctx Context, msg string) {
	if sev < s.Min {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Node == "" && ctx.Scene == "" {
		fmt.Fprintf(s.W, "%s: %s\n", sev, msg)
		return
	}
	fmt.Fprintf(s.W, "%s: [%s] %s\n", sev, ctx, msg)
}

// Tee fans a report out to every sink.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

type tee []Sink

func (t tee) Report(sev Severity, ctx Context, msg string) {
	for _, s := range t {
		if s != nil {
			s.Report(sev, ctx, msg)
		}
	}
}

// Or returns s, or Discard when s is nil.
func Or(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Scoped tags reports that carry no scene name with name.
func Scoped(s Sink, name string) Sink {
	return scoped{sink: Or(s), name: name}
}

type scoped struct {
	sink Sink
	name string
}

func (s scoped) Report(sev Severity, ctx Context, msg string) {
	if ctx.Scene == "" {
		ctx.Scene = s.name
	}
	s.sink.Report(sev, ctx, msg)
}
