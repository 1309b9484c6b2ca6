// Command otprecision reports how much accuracy an occupancy tree would lose at
// each calibrated codec precision.
//
// Usage:
//
//	otprecision [--bytes] [--strict] <input>
//
// It prints the tree type, then one line per bit width 1-32 holding the tree-wide
// RMS quantization error at that width. With --bytes it also prints the RMS error
// of the 1-4 byte widths accepted by otconvert -e.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/otmap/internal/cli"
	"github.com/arloliu/otmap/octree"
	"github.com/arloliu/otmap/precision"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type precisionOptions struct {
	bytes   bool
	strict  bool
	verbose bool
}

func run(args []string, stdout, stderr io.Writer) int {
	level := zap.NewAtomicLevelAt(zap.WarnLevel)
	logger := cli.NewLogger(stderr, level)
	defer func() { _ = logger.Sync() }()

	var opts precisionOptions
	cmd := &cobra.Command{
		Use:   "otprecision <input>",
		Short: "Report the RMS quantization error of a tree per codec precision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				level.SetLevel(zap.DebugLevel)
			}

			return analyze(cmd.OutOrStdout(), logger, opts, args[0])
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.BoolVar(&opts.bytes, "bytes", false, "also report the 1-4 byte widths of the standard layout")
	flags.BoolVar(&opts.strict, "strict", false, "fail on probabilities outside the calibration band instead of clamping")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cli.Execute(cmd, args, stderr)
}

func analyze(out io.Writer, logger *zap.Logger, opts precisionOptions, input string) error {
	access, err := octree.NewFileAccess(octree.WithLogger(logger))
	if err != nil {
		return cli.ReadError(err)
	}

	tree, _, err := access.Read(input)
	if err != nil {
		return cli.ReadError(fmt.Errorf("reading %s: %w", input, err))
	}

	var analyzeOpts []precision.Option
	if opts.strict {
		analyzeOpts = append(analyzeOpts, precision.WithStrictBand())
	}

	report, err := precision.Analyze(tree, analyzeOpts...)
	if err != nil {
		return cli.ReadError(err)
	}
	logger.Debug("analyzed tree", zap.Int("nodes", report.NodeCount))

	fmt.Fprintln(out, tree.Kind())
	for _, m := range report.Measurements {
		fmt.Fprintln(out, m.RMS())
	}

	if !opts.bytes {
		return nil
	}

	byteReport, err := precision.AnalyzeByteWidths(tree)
	if err != nil {
		return cli.ReadError(err)
	}
	fmt.Fprintln(out)
	for _, m := range byteReport.Measurements {
		fmt.Fprintf(out, "%s\t%g\n", m.Quantizer, m.RMS())
	}

	return nil
}
