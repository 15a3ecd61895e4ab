package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/cinemetrics/internal/lake"
	"github.com/sells-group/cinemetrics/internal/render"
)

var lakeShowFormat string

var lakeCmd = &cobra.Command{
	Use:   "lake",
	Short: "Inspect the data lake artifact",
}

var lakeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Render the current cleaned_movie_data.csv",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := checkFormat(lakeShowFormat); err != nil {
			return err
		}

		w := lake.NewWriter(cfg.Lake.Dir)
		tbl, err := w.Read()
		if err != nil {
			return eris.Wrapf(err, "lake show %s", w.Path())
		}

		out := cmd.OutOrStdout()
		switch lakeShowFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(tbl)
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(tbl); err != nil {
				return eris.Wrap(err, "encode yaml")
			}
			return enc.Close()
		default:
			return render.Dashboard(out, nil, tbl)
		}
	},
}

func init() {
	lakeShowCmd.Flags().StringVar(&lakeShowFormat, "format", "table", "output format: table, json or yaml")
	lakeCmd.AddCommand(lakeShowCmd)
	rootCmd.AddCommand(lakeCmd)
}
