// Package pipeline runs the fetch, normalize and write steps for a batch of
// movie titles.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cinemetrics/internal/model"
	"github.com/sells-group/cinemetrics/internal/normalize"
	"github.com/sells-group/cinemetrics/pkg/omdb"
)

// ErrEmptyBatch is returned when no title produced a record.
var ErrEmptyBatch = errors.New("no valid movie data found; check the titles or API key")

// Lake is the artifact sink for a normalized table.
type Lake interface {
	Write(ctx context.Context, table model.Table) (string, error)
}

// Options configures a Pipeline.
type Options struct {
	Normalize normalize.Options
}

// PhaseStatus is the outcome of a pipeline phase.
type PhaseStatus string

const (
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
)

// Phase records the timing of one pipeline step.
type Phase struct {
	Name     string      `json:"name" yaml:"name"`
	Status   PhaseStatus `json:"status" yaml:"status"`
	Duration int64       `json:"duration_ms" yaml:"duration_ms"`
	Error    string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result is the outcome of one run.
type Result struct {
	RunID   string              `json:"run_id" yaml:"run_id"`
	Titles  []string            `json:"titles" yaml:"titles"`
	Absent  []string            `json:"absent" yaml:"absent"`
	Records []model.MovieRecord `json:"-" yaml:"-"`
	Table   model.Table         `json:"table" yaml:"table"`
	Path    string              `json:"path" yaml:"path"`
	Phases  []Phase             `json:"phases" yaml:"phases"`
}

// Pipeline fetches titles one at a time, normalizes the hits and overwrites
// the lake artifact.
type Pipeline struct {
	client omdb.Client
	lake   Lake
	opts   Options
}

// New creates a Pipeline.
func New(client omdb.Client, lake Lake, opts Options) *Pipeline {
	return &Pipeline{client: client, lake: lake, opts: opts}
}

// Run executes one batch. Titles that yield no record are skipped and listed
// in Result.Absent. Nothing is written when the batch is empty or the records
// fail normalization.
func (p *Pipeline) Run(ctx context.Context, titles []string) (*Result, error) {
	result := &Result{
		RunID:  uuid.New().String(),
		Titles: titles,
		Absent: []string{},
	}
	log := zap.L().With(zap.String("run_id", result.RunID))
	log.Info("pipeline: starting run", zap.Int("titles", len(titles)))

	track := func(name string, fn func() error) error {
		start := time.Now()
		err := fn()
		phase := Phase{Name: name, Status: PhaseStatusComplete, Duration: time.Since(start).Milliseconds()}
		if err != nil {
			phase.Status = PhaseStatusFailed
			phase.Error = err.Error()
			log.Error("pipeline: phase failed", zap.String("phase", name), zap.Int64("duration_ms", phase.Duration), zap.Error(err))
		} else {
			log.Info("pipeline: phase complete", zap.String("phase", name), zap.Int64("duration_ms", phase.Duration))
		}
		result.Phases = append(result.Phases, phase)
		return err
	}

	err := track("fetch", func() error {
		for _, title := range titles {
			rec, err := p.client.Lookup(ctx, title)
			if err != nil {
				if omdb.IsAbsent(err) {
					log.Debug("pipeline: title absent", zap.String("title", title), zap.Error(err))
					result.Absent = append(result.Absent, title)
					continue
				}
				return eris.Wrapf(err, "pipeline: lookup %q", title)
			}
			result.Records = append(result.Records, *rec)
		}
		if len(result.Records) == 0 {
			return ErrEmptyBatch
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	err = track("normalize", func() error {
		tbl, err := normalize.Normalize(result.Records, p.opts.Normalize)
		if err != nil {
			return err
		}
		result.Table = tbl
		return nil
	})
	if err != nil {
		return result, err
	}

	err = track("write", func() error {
		path, err := p.lake.Write(ctx, result.Table)
		if err != nil {
			return eris.Wrap(err, "pipeline: write lake")
		}
		result.Path = path
		return nil
	})
	if err != nil {
		return result, err
	}

	log.Info("pipeline: run complete",
		zap.Int("fetched", len(result.Records)),
		zap.Int("absent", len(result.Absent)),
		zap.Int("rows", result.Table.Len()),
		zap.String("path", result.Path),
	)
	return result, nil
}
