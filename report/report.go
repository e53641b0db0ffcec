// Package report presents the outcome of the demonstration programs.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/go-arrower/keeper/records"
	"github.com/go-arrower/keeper/repository"
)

// Sink receives the outcome of every operation of a program.
type Sink interface {
	Step(program string, op string)
	Success(program string, op string, detail string)
	Failure(program string, op string, err error)
	// Summary reports the totals, after all programs finished.
	Summary()
}

// KindOf names the kind of err, for parsing errors as well as repository errors.
func KindOf(err error) string {
	if kind := records.KindOf(err); kind != "" {
		return string(kind)
	}

	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		return "Panic"
	}

	return string(repository.KindOf(err))
}

// PanicError is a recovered panic of an operation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// NewConsole returns a Sink writing colored lines to w, with numbers formatted for lang.
func NewConsole(w io.Writer, lang language.Tag) *Console {
	return &Console{
		w:       w,
		printer: message.NewPrinter(lang),
		title:   cases.Title(lang),
		program: color.New(color.FgBlue, color.Bold).FprintfFunc(),
		ok:      color.New(color.FgGreen).FprintfFunc(),
		fail:    color.New(color.FgRed, color.Bold).FprintfFunc(),
		faint:   color.New(color.Faint).FprintfFunc(),
	}
}

// Console writes human-readable lines. Colors follow color.NoColor, so they are
// disabled if w is not a terminal.
type Console struct {
	w       io.Writer
	printer *message.Printer
	title   cases.Caser

	program func(w io.Writer, format string, a ...interface{})
	ok      func(w io.Writer, format string, a ...interface{})
	fail    func(w io.Writer, format string, a ...interface{})
	faint   func(w io.Writer, format string, a ...interface{})

	current   string
	steps     int
	successes int
	failures  int
}

var _ Sink = (*Console)(nil)

func (c *Console) Step(program string, op string) {
	if program != c.current {
		c.current = program
		c.program(c.w, "\n== %s ==\n", c.title.String(program))
	}

	c.steps++
	c.faint(c.w, "-> %s\n", op)
}

func (c *Console) Success(_ string, op string, detail string) {
	c.successes++
	c.ok(c.w, "   ok   %s: %s\n", op, detail)
}

func (c *Console) Failure(_ string, op string, err error) {
	c.failures++
	c.fail(c.w, "   FAIL %s [%s]: %v\n", op, KindOf(err), err)
}

func (c *Console) Summary() {
	line := c.printer.Sprintf("\n%d steps, %d succeeded, %d failed\n", c.steps, c.successes, c.failures)

	if c.failures > 0 {
		c.fail(c.w, "%s", line)

		return
	}

	c.ok(c.w, "%s", line)
}

// Number formats n with the grouping of the console's language.
func (c *Console) Number(n int64) string {
	return c.printer.Sprintf("%d", n)
}

// Entry is one reported outcome.
type Entry struct {
	Err     error
	Program string
	Op      string
	Detail  string
	Kind    string
}

// Memory keeps all outcomes, so tests can inspect them.
type Memory struct {
	Entries []Entry
	Steps   int
	Summed  bool
}

var _ Sink = (*Memory)(nil)

func (m *Memory) Step(_ string, _ string) {
	m.Steps++
}

func (m *Memory) Success(program string, op string, detail string) {
	m.Entries = append(m.Entries, Entry{Program: program, Op: op, Detail: detail})
}

func (m *Memory) Failure(program string, op string, err error) {
	m.Entries = append(m.Entries, Entry{Program: program, Op: op, Err: err, Kind: KindOf(err)})
}

func (m *Memory) Summary() {
	m.Summed = true
}

// Failures returns all entries with an error.
func (m *Memory) Failures() []Entry {
	var failed []Entry

	for _, e := range m.Entries {
		if e.Err != nil {
			failed = append(failed, e)
		}
	}

	return failed
}
