package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"annot/internal/diag"
	"annot/internal/diagfmt"
	"annot/internal/driver"
	"annot/internal/project"
	"annot/internal/source"
	"annot/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] path",
	Short: "Verify files rewrite back to their exact source",
	Long: `Check scans each file, rewrites it with no transformations, and
verifies the output matches the input byte for byte. A directory argument
is walked recursively using the suffixes from annot.toml.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "number of parallel workers (0 = all CPUs)")
	checkCmd.Flags().Bool("ui", false, "show interactive progress (directories only)")
	checkCmd.Flags().Bool("no-cache", false, "disable the on-disk result cache")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot stat %s: %w", path, err)
	}

	var fileSet *source.FileSet
	var results []driver.FileResult
	if info.IsDir() {
		fileSet, results, err = checkDirectory(cmd, path, maxDiagnostics)
		if err != nil {
			return err
		}
	} else {
		fileSet = source.NewFileSet()
		id, loadErr := fileSet.Load(path)
		if loadErr != nil {
			return fmt.Errorf("cannot load %s: %w", path, loadErr)
		}
		results = []driver.FileResult{driver.CheckFile(fileSet, id, maxDiagnostics)}
	}

	merged := driver.MergeBags(results)
	if err := printDiagnostics(cmd, merged, fileSet, format); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Bag.HasErrors() || !res.Clean {
			failed++
		}
	}
	if !quiet && format == "pretty" {
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d file(s), %d problem(s)\n", len(results), failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed the round-trip check", failed)
	}
	return nil
}

func checkDirectory(cmd *cobra.Command, dir string, maxDiagnostics int) (*source.FileSet, []driver.FileResult, error) {
	manifest, err := project.Resolve(dir)
	if err != nil {
		return nil, nil, err
	}
	cfg := manifest.Config

	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs == 0 {
		jobs = cfg.Check.Jobs
	}
	if !cmd.Root().PersistentFlags().Changed("max-diagnostics") && cfg.Check.MaxDiagnostics > 0 {
		maxDiagnostics = cfg.Check.MaxDiagnostics
	}

	opts := driver.Options{
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Suffixes:       cfg.Source.Suffixes,
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if cfg.Check.Cache && !noCache {
		cache, err := driver.OpenDiskCache("annot")
		if err == nil {
			opts.Cache = cache
		}
	}

	withUI, _ := cmd.Flags().GetBool("ui")
	if withUI && isTerminal(os.Stdout) {
		return checkDirectoryWithUI(cmd, dir, opts)
	}
	return driver.CheckDir(cmd.Context(), dir, opts)
}

func checkDirectoryWithUI(cmd *cobra.Command, dir string, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
	files, err := driver.ListFiles(dir, opts.Suffixes)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.Event, len(files))
	opts.Events = events

	var fileSet *source.FileSet
	var results []driver.FileResult
	var checkErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(events)
		fileSet, results, checkErr = driver.CheckDir(cmd.Context(), dir, opts)
	}()

	model := ui.NewProgressModel("checking "+dir, files, events)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return nil, nil, fmt.Errorf("progress UI failed: %w", err)
	}
	<-done
	return fileSet, results, checkErr
}

func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fileSet *source.FileSet, format string) error {
	switch format {
	case "pretty":
		if bag.Len() > 0 {
			diagfmt.Pretty(os.Stderr, bag, fileSet, diagfmt.PrettyOpts{
				Color:     useColor(cmd, os.Stderr),
				PathMode:  diagfmt.PathModeRelative,
				ShowNotes: true,
			})
		}
		return nil
	case "json":
		return diagfmt.JSON(cmd.OutOrStdout(), bag, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
		})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
