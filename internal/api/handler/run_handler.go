package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"sales-analytics/internal/model"
	"sales-analytics/internal/pipeline"
	"sales-analytics/pkg/logger"
	"sales-analytics/pkg/utils"
)

// Artifact file names inside a run directory.
const (
	SnapshotFile = "sales_clean.csv"
	FiguresDir   = "figures"
)

// CreateRunRequest is the body of POST /api/v1/runs. Source is relative to
// the handler's input root.
type CreateRunRequest struct {
	Source string `json:"source" validate:"required"`
}

type ArtifactResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

type RunResponse struct {
	RunID         string                  `json:"run_id"`
	Status        string                  `json:"status"`
	Stats         model.CleanStats        `json:"clean_stats"`
	Metrics       model.MetricsBundle     `json:"metrics"`
	SnapshotError string                  `json:"snapshot_error,omitempty"`
	Artifacts     []ArtifactResponse      `json:"artifacts"`
	Stages        []pipeline.StageMetrics `json:"stages"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	RunID string `json:"run_id,omitempty"`
}

// RunHandler serves pipeline runs. Every request gets its own run directory
// under Outputs, so concurrent runs never share files.
type RunHandler struct {
	Runner     *pipeline.Runner
	Outputs    *utils.OutputManager
	InputRoot  string
	Log        *logger.Logger
	ReportFile string
	Charts     bool
	NewRunID   func() string

	validate *validator.Validate
}

func NewRunHandler(runner *pipeline.Runner, outputs *utils.OutputManager, inputRoot string, log *logger.Logger, reportFile string, charts bool) *RunHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RunHandler{
		Runner:     runner,
		Outputs:    outputs,
		InputRoot:  inputRoot,
		Log:        log,
		ReportFile: filepath.Base(reportFile),
		Charts:     charts,
		NewRunID:   uuid.NewString,
		validate:   validator.New(),
	}
}

// CreateRun runs the pipeline once over the requested source
// POST /api/v1/runs
func (h *RunHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "", "invalid JSON payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "", fmt.Sprintf("invalid request: %v", err))
		return
	}
	source, err := utils.ResolveUnder(h.InputRoot, req.Source)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "", err.Error())
		return
	}

	runID := h.NewRunID()
	runDir, err := h.Outputs.CreateRunOutputDir(runID)
	if err != nil {
		h.Log.Error(r.Context(), "failed to create run directory", err)
		writeError(w, r, http.StatusInternalServerError, runID, "failed to prepare run output")
		return
	}

	opts := pipeline.RunOptions{
		InputPath:    source,
		SnapshotPath: filepath.Join(runDir, SnapshotFile),
		ReportPath:   filepath.Join(runDir, h.ReportFile),
	}
	if h.Charts {
		opts.FiguresDir = filepath.Join(runDir, FiguresDir)
	}

	result, err := h.Runner.Run(r.Context(), runID, opts)
	if err != nil {
		writeError(w, r, statusFor(err), runID, err.Error())
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, h.toResponse(result))
}

// Download serves one artifact of a finished run
// GET /api/v1/download/{runID}/{file}
func (h *RunHandler) Download(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	file := chi.URLParam(r, "file")

	path, err := h.resolve(runID, file)
	if err != nil {
		writeError(w, r, http.StatusNotFound, runID, "artifact not found")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// resolve finds file at the top of the run directory or among its figures.
func (h *RunHandler) resolve(runID, file string) (string, error) {
	path, err := h.Outputs.ResolveRunFile(runID, file)
	if err == nil {
		return path, nil
	}
	if h.Outputs.GetFileType(file) == "image" {
		return h.Outputs.ResolveRunSubdirFile(runID, FiguresDir, file)
	}
	return "", err
}

func (h *RunHandler) toResponse(result *pipeline.RunResult) RunResponse {
	resp := RunResponse{
		RunID:     result.RunID,
		Status:    result.Tracker.Status,
		Stats:     result.Stats,
		Metrics:   result.Bundle,
		Artifacts: make([]ArtifactResponse, 0, len(result.Artifacts)),
		Stages:    result.Tracker.Stages,
	}
	if result.SnapshotErr != nil {
		resp.SnapshotError = result.SnapshotErr.Error()
	}
	for _, path := range result.Artifacts {
		name := filepath.Base(path)
		resp.Artifacts = append(resp.Artifacts, ArtifactResponse{
			Name: name,
			Type: h.Outputs.GetFileType(name),
			URL:  h.Outputs.GetDownloadURL(result.RunID, name),
		})
	}
	return resp
}

// Health reports liveness
// GET /healthz
func Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrSourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrMalformedSource), errors.Is(err, pipeline.ErrEmptyDataset):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, runID, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg, RunID: runID})
}
