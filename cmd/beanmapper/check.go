package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"beanmapper/internal/diagnostic"
	"beanmapper/internal/loader"
	"beanmapper/internal/mapping"
)

var errCheckFailed = errors.New("mapping files have errors")

type checkOptions struct {
	dump        bool
	normalize   bool
	parallelism int
}

func newCheckCmd(a *app) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Parse and merge mapping files",
		Long: `check parses every file, compiles it and merges the result into one rule
set, including the reverse of every bi-directional mapping. Type names are
not resolved: that needs the types of the program that maps with the files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.normalize {
				return normalize(cmd.OutOrStdout(), args)
			}

			return a.check(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dump, "dump", false, "print the merged class maps")
	cmd.Flags().BoolVar(&opts.normalize, "normalize", false,
		"print the files with 121 shorthand expanded instead of checking them")
	cmd.Flags().IntVar(&opts.parallelism, "parallelism", 0, "files parsed at once (0 uses GOMAXPROCS)")

	return cmd
}

func (a *app) check(cmd *cobra.Command, files []string, opts *checkOptions) error {
	out := cmd.OutOrStdout()

	l := loader.New(loader.WithLogger(a.log), loader.WithParallelism(opts.parallelism))

	res, diags, err := l.Check(cmd.Context(), files)
	if err != nil {
		return err
	}

	printDiagnostics(out, diags)

	reversed := 0
	for _, cm := range res.Mappings.All() {
		if cm.Reversed {
			reversed++
		}
	}

	fmt.Fprintf(out, "files: %d, class maps: %d (%d reversed), errors: %d, warnings: %d\n",
		len(files), res.Mappings.Len(), reversed, len(diags.Errors), len(diags.Warnings))

	if res.Global.Source != "" {
		fmt.Fprintf(out, "global configuration: %s\n", res.Global.Source)
	}

	if opts.dump {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(out, res.Global)
		cfg.Fdump(out, res.Mappings.All())
	}

	a.log.Debug("Check finished", zap.Strings("files", files), zap.Int("class_maps", res.Mappings.Len()))

	if diags.HasErrors() {
		return errCheckFailed
	}

	return nil
}

func printDiagnostics(out io.Writer, diags diagnostic.Diagnostics) {
	for _, d := range diags.Errors {
		fmt.Fprintf(out, "error: %s\n", d)
	}

	for _, d := range diags.Warnings {
		fmt.Fprintf(out, "warning: %s\n", d)
	}
}

// normalize prints every file in canonical form.
func normalize(out io.Writer, files []string) error {
	for _, file := range files {
		mf, err := mapping.LoadFile(file)
		if err != nil {
			return err
		}

		mapping.NormalizeMappingFile(mf)

		data, err := mapping.Marshal(mf)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", file, err)
		}

		fmt.Fprintf(out, "# %s\n%s", file, data)
	}

	return nil
}
