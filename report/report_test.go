package report_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/go-arrower/keeper/records"
	"github.com/go-arrower/keeper/report"
	"github.com/go-arrower/keeper/repository"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NotFound", report.KindOf(fmt.Errorf("%w: id 1", repository.ErrNotFound)))
	assert.Equal(t, "MissingField", report.KindOf(&records.LineError{Line: 2, Err: records.ErrMissingField}))
	assert.Equal(t, "Panic", report.KindOf(&report.PanicError{Value: "boom"}))
	assert.Equal(t, "Unclassified", report.KindOf(errors.New("other")))
}

//nolint:paralleltest // changes the global color.NoColor
func TestConsole(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true

	t.Cleanup(func() { color.NoColor = noColor })

	buf := &bytes.Buffer{}
	console := report.NewConsole(buf, language.English)

	console.Step("inventory", "add product 1")
	console.Success("inventory", "add product 1", "#1 Hammer")
	console.Step("inventory", "add product 1 again")
	console.Failure("inventory", "add product 1 again", fmt.Errorf("%w: id 1", repository.ErrDuplicateKey))
	console.Summary()

	out := buf.String()
	assert.Contains(t, out, "== Inventory ==")
	assert.Contains(t, out, "ok   add product 1: #1 Hammer")
	assert.Contains(t, out, "FAIL add product 1 again [DuplicateKey]: duplicate key: id 1")
	assert.Contains(t, out, "2 steps, 1 succeeded, 1 failed")

	assert.Equal(t, "1,234,567", console.Number(1234567))
}

func TestMemory(t *testing.T) {
	t.Parallel()

	sink := &report.Memory{}

	sink.Step("bank", "deposit")
	sink.Success("bank", "deposit", "100")
	sink.Failure("bank", "withdraw", repository.ErrInvalidValue)
	sink.Summary()

	assert.Equal(t, 1, sink.Steps)
	assert.True(t, sink.Summed)
	assert.Len(t, sink.Entries, 2)
	assert.Equal(t, []report.Entry{{Program: "bank", Op: "withdraw", Err: repository.ErrInvalidValue, Kind: "InvalidValue"}}, sink.Failures())
}
