package cmd

import (
	"bytes"
	"sync"
	"testing"

	"github.com/spf13/cobra"
)

// TestExecute is a helper that executes a cobra command and returns its combined output and error.
func TestExecute(t *testing.T, command *cobra.Command, args ...string) (string, error) {
	t.Helper()

	buf := new(syncBuffer)
	command.SetOut(buf)
	command.SetErr(buf)

	// leaving args nil makes cobra read os.Args of the test binary
	if args == nil {
		args = []string{}
	}

	command.SetArgs(args)
	_, err := command.ExecuteC()

	return buf.String(), err
}

// syncBuffer is a helper implementing io.Writer, used for concurrency save testing.
type syncBuffer struct {
	b bytes.Buffer
	m sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.m.Lock()
	defer b.m.Unlock()

	return b.b.Write(p) //nolint:wrapcheck
}

func (b *syncBuffer) String() string {
	b.m.Lock()
	defer b.m.Unlock()

	return b.b.String()
}
