// Command otconvert converts occupancy tree files between layouts and value
// encodings.
//
// Usage:
//
//	otconvert [-e n] [-c none|zstd|s2|lz4] <input> [output]
//
// The output defaults to the input path with ".ot" appended. A ".bt" input is read
// as a compact binary tree and a ".bt" output is written as one; every other path
// uses the standard layout. Inputs without a standard header are read as legacy
// color trees. Exit status is 0 on success, -1 on input or argument failure and
// -2 on output failure.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/otmap/fixedpoint"
	"github.com/arloliu/otmap/format"
	"github.com/arloliu/otmap/internal/cli"
	"github.com/arloliu/otmap/octree"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type convertOptions struct {
	encoding    int
	compression string
	verbose     bool
}

func run(args []string, stdout, stderr io.Writer) int {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	logger := cli.NewLogger(stderr, level)
	defer func() { _ = logger.Sync() }()

	var opts convertOptions
	cmd := &cobra.Command{
		Use:   "otconvert [-e n] <input> [output]",
		Short: "Convert an occupancy tree file",
		Long: `Convert an occupancy tree file to the standard layout (.ot) or the
compact binary layout (.bt). The output defaults to <input>.ot.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				level.SetLevel(zap.DebugLevel)
			}

			return convert(cmd.OutOrStdout(), logger, opts, args)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.IntVarP(&opts.encoding, "encoding", "e", 0, "node value width in bytes (0 = native, 1-4 = quantized)")
	flags.StringVarP(&opts.compression, "compression", "c", "none", "payload compression of .ot output: none, zstd, s2 or lz4")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cli.Execute(cmd, args, stderr)
}

func convert(out io.Writer, logger *zap.Logger, opts convertOptions, args []string) error {
	width, err := fixedpoint.ParseWidth(opts.encoding)
	if err != nil {
		return cli.ReadError(err)
	}
	compression, ok := format.ParseCompressionType(opts.compression)
	if !ok {
		return cli.ReadError(fmt.Errorf("unknown compression %q", opts.compression))
	}

	input := args[0]
	output := input + format.ExtStandard
	if len(args) > 1 {
		output = args[1]
	}

	access, err := octree.NewFileAccess(
		octree.WithLogger(logger),
		octree.WithWriteOptions(octree.WithCompression(compression)),
	)
	if err != nil {
		return cli.ReadError(err)
	}

	fmt.Fprintf(out, "\nReading OcTree file\n===========================\n")
	tree, kind, err := access.Read(input)
	if err != nil {
		return cli.ReadError(fmt.Errorf("reading %s: %w", input, err))
	}
	logger.Info("read tree",
		zap.String("path", input),
		zap.Stringer("layout", kind),
		zap.Stringer("type", tree.Kind()),
		zap.Int("nodes", tree.Size()),
	)

	if format.FileKindFromPath(output) == format.FileBinary {
		logger.Info("writing compact binary file", zap.String("path", output))
	} else {
		logger.Info("writing standard file",
			zap.String("path", output),
			zap.Stringer("encoding", width),
			zap.Stringer("compression", compression),
		)
	}

	if err := access.Write(output, tree, width); err != nil {
		return cli.WriteError(fmt.Errorf("writing %s: %w", output, err))
	}

	fmt.Fprintf(out, "Finished writing to %s\n", output)

	return nil
}
