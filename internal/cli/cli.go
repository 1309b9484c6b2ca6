// Package cli holds the plumbing shared by the otmap command line tools: logger
// construction, exit codes and command execution.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Process exit codes.
const (
	ExitOK    = 0
	ExitRead  = -1 // input or argument failure
	ExitWrite = -2 // output failure
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ReadError marks err as an input failure.
func ReadError(err error) error {
	return &ExitError{Code: ExitRead, Err: err}
}

// WriteError marks err as an output failure.
func WriteError(err error) error {
	return &ExitError{Code: ExitWrite, Err: err}
}

// NewLogger returns a development-style console logger writing to w.
func NewLogger(w io.Writer, level zap.AtomicLevel) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)

	return zap.New(core)
}

// Execute runs cmd with args and maps the outcome to an exit code. Errors without
// an explicit code, such as bad flags, count as input failures.
func Execute(cmd *cobra.Command, args []string, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	fmt.Fprintln(stderr, cmd.UsageString())

	return ExitRead
}
