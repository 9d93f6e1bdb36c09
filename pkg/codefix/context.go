package codefix

import (
	"context"
	"iter"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/codefix/pkg/diag"
	"github.com/yaklabco/codefix/pkg/fix"
	"github.com/yaklabco/codefix/pkg/source"
	"github.com/yaklabco/codefix/pkg/textchanges"
)

// Program is the read-only view of a checked program that strategies work
// against.
type Program interface {
	// Diagnostics returns the diagnostics reported for path. The sequence
	// is restartable and yields diagnostics in source order.
	Diagnostics(path string) iter.Seq[diag.Diagnostic]

	// File returns the source of path.
	File(path string) (*source.File, bool)
}

// Host receives messages the engine cannot return as values, such as
// reports of malformed strategy output.
type Host interface {
	Log(msg string, keyvals ...any)
}

// PackageResolver is an optional Host capability used by strategies that
// suggest installing missing type declarations.
type PackageResolver interface {
	// IsKnownTypesPackage reports whether a types package exists for the
	// package name, such as "lodash" or "@babel/core".
	IsKnownTypesPackage(name string) bool
}

// Resolver returns the host's PackageResolver, if it has one.
func (c *Context) Resolver() (PackageResolver, bool) {
	r, ok := c.Host.(PackageResolver)
	return r, ok
}

type nopHost struct{}

func (nopHost) Log(string, ...any) {}

// LogHost adapts a structured logger to Host. Messages are logged at warn
// level.
type LogHost struct {
	Logger *log.Logger
}

// NewLogHost returns a Host that writes to logger.
func NewLogHost(logger *log.Logger) *LogHost {
	return &LogHost{Logger: logger}
}

// Log implements Host.
func (h *LogHost) Log(msg string, keyvals ...any) {
	if h == nil || h.Logger == nil {
		return
	}
	h.Logger.Warn(msg, keyvals...)
}

// Context carries what every request needs.
//
// Ctx is stored as a field because Context is a short-lived parameter
// object created per request and handed to strategies.
type Context struct {
	Ctx     context.Context
	File    *source.File
	Program Program
	Host    Host

	// NewLine is the line terminator for inserted lines. Empty means use
	// the file's own.
	NewLine string
}

// Cancelled reports whether the request's context is done.
func (c *Context) Cancelled() bool {
	return c.Ctx != nil && c.Ctx.Err() != nil
}

// LineBreak returns the line terminator to use for inserted lines.
func (c *Context) LineBreak() string {
	if c.NewLine != "" {
		return c.NewLine
	}
	if c.File != nil {
		return c.File.NewLine()
	}
	return "\n"
}

func (c *Context) host() Host {
	if c.Host == nil {
		return nopHost{}
	}
	return c.Host
}

func (c *Context) ctx() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// FixContext is a single-site request: one diagnostic code at one span.
type FixContext struct {
	Context

	Code diag.Code
	Span fix.Span
}

// BatchContext is a fix-all request for one group across File.
type BatchContext struct {
	Context

	GroupID GroupID
}

// Occurrence is one diagnostic visited during FixAll. Strategies record
// edits on the shared Tracker, or add prepared changes with AddChanges.
type Occurrence struct {
	Diagnostic diag.Diagnostic
	GroupID    GroupID
	Tracker    *textchanges.Tracker

	batch *batch
}

// FixContext returns the single-site request for this occurrence.
func (o *Occurrence) FixContext() *FixContext {
	return &FixContext{
		Context: o.batch.ctx.Context,
		Code:    o.Diagnostic.Code,
		Span:    o.Diagnostic.Span(),
	}
}

// File returns the file being fixed.
func (o *Occurrence) File() *source.File {
	return o.batch.ctx.File
}

// AddChanges contributes already computed edits, possibly to other files.
func (o *Occurrence) AddChanges(changes ...fix.FileEdit) {
	o.batch.changes = append(o.batch.changes, changes...)
}

// AddCommands contributes commands to the combined result.
func (o *Occurrence) AddCommands(cmds ...Command) {
	o.batch.commands = append(o.batch.commands, cmds...)
}
