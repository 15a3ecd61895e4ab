package main

import (
	"context"
	"net/http"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rotisserie/eris"

	"github.com/sells-group/cinemetrics/internal/config"
	"github.com/sells-group/cinemetrics/internal/lake"
	"github.com/sells-group/cinemetrics/internal/normalize"
	"github.com/sells-group/cinemetrics/internal/pipeline"
	"github.com/sells-group/cinemetrics/internal/prompt"
	"github.com/sells-group/cinemetrics/pkg/omdb"
)

// pipelineEnv holds the pieces the run and serve commands share.
type pipelineEnv struct {
	Pipeline *pipeline.Pipeline
	Lake     *lake.Writer
}

// stdinIsTerminal reports whether the key prompt can be shown.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// resolveAPIKey walks the key sources. Missing everywhere is fatal.
func resolveAPIKey(ctx context.Context) (string, error) {
	ask := config.PromptSource{
		Enabled: stdinIsTerminal(),
		Prompt: func(ctx context.Context) (string, error) {
			return prompt.APIKey(ctx, os.Stdin, os.Stderr)
		},
	}
	return config.ResolveAPIKey(ctx, config.DefaultKeySources(cfg.DotEnvPath, ask)...)
}

// initPipeline validates config, resolves the API key and builds the
// pipeline.
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	key, err := resolveAPIKey(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "resolve api key")
	}

	client := omdb.NewClient(key,
		omdb.WithBaseURL(cfg.OMDb.BaseURL),
		omdb.WithHTTPClient(&http.Client{Timeout: cfg.OMDb.Timeout()}),
	)
	writer := lake.NewWriter(cfg.Lake.Dir)

	return &pipelineEnv{
		Pipeline: pipeline.New(client, writer, pipeline.Options{
			Normalize: normalize.Options{LenientVotes: cfg.Pipeline.LenientVotes},
		}),
		Lake: writer,
	}, nil
}
