package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/cinemetrics/internal/lake"
	"github.com/sells-group/cinemetrics/internal/model"
	"github.com/sells-group/cinemetrics/internal/pipeline"
	"github.com/sells-group/cinemetrics/internal/render"
)

var (
	runTitle  string
	runTitles string
	runMulti  bool
	runFormat string
	runXLSX   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, normalize and store movie data",
	Long: `Looks up each title on OMDb in order, normalizes the hits and overwrites
the data lake CSV. Titles OMDb does not know are skipped.

Examples:
  cinemetrics run --title Inception
  cinemetrics run --titles "Inception, Interstellar, Avatar, Oppenheimer, Joker"
  cinemetrics run --titles "Inception, Joker" --format json --xlsx movies.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		multi := runMulti || cmd.Flags().Changed("titles")
		titles := pipeline.SelectTitles(runTitle, runTitles, multi)
		if len(titles) == 0 {
			return eris.New("run: no titles given (use --title or --titles)")
		}
		if err := checkFormat(runFormat); err != nil {
			return err
		}

		env, err := initPipeline(ctx, "run")
		if err != nil {
			return err
		}

		res, err := env.Pipeline.Run(ctx, titles)
		if err != nil {
			if errors.Is(err, pipeline.ErrEmptyBatch) {
				fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
			}
			return err
		}

		if runXLSX != "" {
			if err := writeXLSX(runXLSX, res.Table); err != nil {
				return err
			}
			zap.L().Info("run: wrote xlsx export", zap.String("path", runXLSX))
		}

		return printResult(cmd.OutOrStdout(), runFormat, res)
	},
}

func checkFormat(format string) error {
	switch format {
	case "table", "json", "yaml":
		return nil
	}
	return eris.Errorf("unknown format %q (want table, json or yaml)", format)
}

func writeXLSX(path string, table model.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "run: create xlsx")
	}
	if err := lake.EncodeXLSX(f, table); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrap(f.Close(), "run: close xlsx")
}

// printResult renders a run for humans or as a machine-readable document.
func printResult(w io.Writer, format string, res *pipeline.Result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return enc.Close()
	default:
		if err := render.Dashboard(w, res.Records, res.Table); err != nil {
			return err
		}
		if len(res.Absent) > 0 {
			fmt.Fprintf(w, "\nSkipped (not found): %v\n", res.Absent)
		}
		_, err := fmt.Fprintf(w, "\nSaved %d rows to %s\n", res.Table.Len(), res.Path)
		return err
	}
}

func init() {
	runCmd.Flags().StringVar(&runTitle, "title", "", "single movie title")
	runCmd.Flags().StringVar(&runTitles, "titles", "", "comma-separated movie titles")
	runCmd.Flags().BoolVar(&runMulti, "multi", false, "use --titles instead of --title")
	runCmd.Flags().StringVar(&runFormat, "format", "table", "output format: table, json or yaml")
	runCmd.Flags().StringVar(&runXLSX, "xlsx", "", "also export the table to this .xlsx path")
	rootCmd.AddCommand(runCmd)
}
