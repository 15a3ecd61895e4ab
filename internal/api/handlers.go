package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/cinemetrics/internal/lake"
	"github.com/sells-group/cinemetrics/internal/model"
	"github.com/sells-group/cinemetrics/internal/normalize"
	"github.com/sells-group/cinemetrics/internal/pipeline"
	"github.com/sells-group/cinemetrics/internal/render"
)

type handlers struct {
	runner Runner
	lake   Lake
}

// runRequest mirrors the dashboard inputs: a single title, a comma-separated
// list and the multi-mode toggle.
type runRequest struct {
	Title  string `json:"title"`
	Titles string `json:"titles"`
	Multi  bool   `json:"multi"`
}

type charts struct {
	Rating    []render.Bar `json:"rating"`
	BoxOffice []render.Bar `json:"box_office"`
}

type runResponse struct {
	RunID   string                `json:"run_id"`
	Path    string                `json:"path"`
	Rows    []model.NormalizedRow `json:"rows"`
	Absent  []string              `json:"absent"`
	Records []model.MovieRecord   `json:"records"`
	Charts  charts                `json:"charts"`
	Phases  []pipeline.Phase      `json:"phases"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) runPipeline(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	titles := pipeline.SelectTitles(req.Title, req.Titles, req.Multi)
	if len(titles) == 0 {
		writeError(w, http.StatusBadRequest, "at least one title is required")
		return
	}

	res, err := h.runner.Run(r.Context(), titles)
	if err != nil {
		var se *normalize.StructuralError
		var ce *normalize.CoercionError
		switch {
		case errors.Is(err, pipeline.ErrEmptyBatch):
			writeError(w, http.StatusUnprocessableEntity, pipeline.ErrEmptyBatch.Error())
		case errors.As(err, &se), errors.As(err, &ce):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			zap.L().Error("api: pipeline run failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "pipeline run failed")
		}
		return
	}

	records := res.Records
	if records == nil {
		records = []model.MovieRecord{}
	}
	rows := res.Table.Rows
	if rows == nil {
		rows = []model.NormalizedRow{}
	}
	writeJSON(w, http.StatusOK, runResponse{
		RunID:   res.RunID,
		Path:    res.Path,
		Rows:    rows,
		Absent:  res.Absent,
		Records: records,
		Charts: charts{
			Rating:    render.Series(res.Table, render.MetricRating),
			BoxOffice: render.Series(res.Table, render.MetricBoxOffice),
		},
		Phases: res.Phases,
	})
}

func (h *handlers) readLake(w http.ResponseWriter) (model.Table, bool) {
	tbl, err := h.lake.Read()
	if err != nil {
		if errors.Is(err, lake.ErrNoArtifact) {
			writeError(w, http.StatusNotFound, "no data has been written yet")
			return model.Table{}, false
		}
		zap.L().Error("api: read lake", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "read data lake failed")
		return model.Table{}, false
	}
	return tbl, true
}

func (h *handlers) downloadLake(w http.ResponseWriter, r *http.Request) {
	tbl, ok := h.readLake(w)
	if !ok {
		return
	}

	var buf bytes.Buffer
	name := lake.FileName
	contentType := "text/csv; charset=utf-8"
	switch r.URL.Query().Get("format") {
	case "", "csv":
		if err := lake.Encode(&buf, tbl); err != nil {
			writeError(w, http.StatusInternalServerError, "encode csv failed")
			return
		}
	case "xlsx":
		if err := lake.EncodeXLSX(&buf, tbl); err != nil {
			writeError(w, http.StatusInternalServerError, "encode xlsx failed")
			return
		}
		name = "cleaned_movie_data.xlsx"
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		writeError(w, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *handlers) chart(w http.ResponseWriter, r *http.Request) {
	metric, err := render.ParseMetric(chi.URLParam(r, "metric"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	tbl, ok := h.readLake(w)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"metric": metric,
		"column": metric.Column(),
		"bars":   render.Series(tbl, metric),
	})
}
