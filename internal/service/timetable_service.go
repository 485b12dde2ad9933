package service

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/campusforge/timetable-scheduler/internal/dto"
	"github.com/campusforge/timetable-scheduler/internal/models"
	"github.com/campusforge/timetable-scheduler/internal/scheduler"
	"github.com/campusforge/timetable-scheduler/pkg/export"
	appErrors "github.com/campusforge/timetable-scheduler/pkg/errors"
	"github.com/campusforge/timetable-scheduler/pkg/jobs"
	"github.com/campusforge/timetable-scheduler/pkg/storage"
)

type timetableRunRepository interface {
	Create(ctx context.Context, run *models.TimetableRun) error
	UpdateResult(ctx context.Context, run *models.TimetableRun) error
	FindByID(ctx context.Context, id string) (*models.TimetableRun, error)
	FindByInputDigest(ctx context.Context, digest string) (*models.TimetableRun, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.TimetableRunSummary, int, error)
	Delete(ctx context.Context, id string) error
}

type solveResultCache interface {
	Get(ctx context.Context, digest string, dst interface{}) (bool, error)
	Set(ctx context.Context, digest string, src interface{}) error
}

type solveJobQueue interface {
	Enqueue(job jobs.Job) error
}

// TimetableServiceConfig carries the defaults applied when a request omits
// weight or algorithm overrides, plus the async activity threshold, which
// the service stores but does not consult.
type TimetableServiceConfig struct {
	HardWeights        scheduler.HardWeights
	SoftWeights        scheduler.SoftWeights
	AlgorithmSettings  scheduler.AlgorithmSettings
	AsyncJobThreshold  int
}

// TimetableService orchestrates the constraint solver: request validation,
// digest-keyed result caching, persistence of run records, and export
// rendering. It never touches the solver's internals directly, only the
// scheduler package's Input/Output contract.
type TimetableService struct {
	runs      timetableRunRepository
	cache     solveResultCache
	queue     solveJobQueue
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	files     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cfg       TimetableServiceConfig
}

// NewTimetableService wires a TimetableService from its dependencies.
func NewTimetableService(
	runs timetableRunRepository,
	cache solveResultCache,
	queue solveJobQueue,
	csvExporter *export.CSVExporter,
	pdfExporter *export.PDFExporter,
	files *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg TimetableServiceConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		runs:      runs,
		cache:     cache,
		queue:     queue,
		csv:       csvExporter,
		pdf:       pdfExporter,
		files:     files,
		signer:    signer,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
	}
}

// Generate runs the solver synchronously, consulting the result cache first
// and persisting a completed run record on success.
func (s *TimetableService) Generate(ctx context.Context, req dto.SolveRequest) (*dto.SolveResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid solve request")
	}

	digest, err := digestRequest(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to digest solve request")
	}

	if s.cache != nil {
		var cached dto.SolveResponse
		hit, cacheErr := s.cache.Get(ctx, digest, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	input := toSchedulerInput(req, s.cfg)
	solveStart := time.Now()
	output, err := scheduler.Solve(ctx, input)
	if err != nil {
		s.metrics.ObserveSolve(time.Since(solveStart), 0, 0, "structural_error")
		return s.handleStructuralError(ctx, digest, err)
	}
	s.metrics.ObserveSolve(time.Since(solveStart), output.Stats.GenerationsRun, output.Stats.FinalFitness, "completed")

	resp := fromSchedulerOutput(*output)
	resp.Success = true

	run := &models.TimetableRun{
		InputDigest: digest,
		Status:      models.RunStatusCompleted,
		BestFitness: output.Stats.FinalFitness,
	}
	if err := s.persistCompletedRun(ctx, run, &resp); err != nil {
		s.logger.Sugar().Warnw("failed to persist timetable run", "error", err)
	}
	resp.RunID = run.ID

	if s.cache != nil {
		if err := s.cache.Set(ctx, digest, resp); err != nil {
			s.logger.Sugar().Warnw("failed to populate result cache", "error", err)
		}
	}

	return &resp, nil
}

// GenerateAsync enqueues a background solve and returns immediately with a
// job/run identifier pair the caller polls via GetRun.
func (s *TimetableService) GenerateAsync(ctx context.Context, req dto.SolveRequest) (*dto.JobAccepted, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid solve request")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "async solve queue unavailable")
	}

	digest, err := digestRequest(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to digest solve request")
	}

	run := &models.TimetableRun{InputDigest: digest, Status: models.RunStatusQueued}
	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable run")
		}
	}

	jobID := uuid.NewString()
	if err := s.queue.Enqueue(jobs.Job{ID: jobID, Type: "timetable_solve", Payload: solvePayload{RunID: run.ID, Request: req}}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue solve job")
	}

	return &dto.JobAccepted{JobID: jobID, RunID: run.ID}, nil
}

// solvePayload is the jobs.Job payload carried through the async queue.
type solvePayload struct {
	RunID   string
	Request dto.SolveRequest
}

// HandleSolveJob is the jobs.Handler bound to the "timetable_solve" job
// type; it runs the solver and transitions the run record to a terminal
// status.
func (s *TimetableService) HandleSolveJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(solvePayload)
	if !ok {
		return fmt.Errorf("unexpected payload type for job %s", job.ID)
	}

	input := toSchedulerInput(payload.Request, s.cfg)
	solveStart := time.Now()
	output, err := scheduler.Solve(ctx, input)
	if err != nil {
		s.metrics.ObserveSolve(time.Since(solveStart), 0, 0, "failed")
		if s.runs != nil && payload.RunID != "" {
			msg := err.Error()
			run := &models.TimetableRun{ID: payload.RunID, Status: models.RunStatusFailed, ErrorMessage: &msg}
			_ = s.runs.UpdateResult(ctx, run)
		}
		return err
	}
	s.metrics.ObserveSolve(time.Since(solveStart), output.Stats.GenerationsRun, output.Stats.FinalFitness, "completed")

	resp := fromSchedulerOutput(*output)
	resp.Success = true
	resp.RunID = payload.RunID

	run := &models.TimetableRun{ID: payload.RunID, Status: models.RunStatusCompleted, BestFitness: output.Stats.FinalFitness}
	if s.runs != nil && payload.RunID != "" {
		if err := s.attachOutput(run, &resp); err != nil {
			return err
		}
		if err := s.runs.UpdateResult(ctx, run); err != nil {
			return err
		}
	}

	if s.cache != nil {
		if digest, err := digestRequest(payload.Request); err == nil {
			_ = s.cache.Set(ctx, digest, resp)
		}
	}
	return nil
}

// GetRun loads one persisted run, decoding its stored output if present.
func (s *TimetableService) GetRun(ctx context.Context, id string) (*dto.RunDetail, error) {
	if s.runs == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "run repository unavailable")
	}
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "timetable run not found")
	}
	return runToDetail(run)
}

// ListRuns returns a page of run summaries.
func (s *TimetableService) ListRuns(ctx context.Context, query dto.ListRunsQuery) ([]dto.RunSummary, int, error) {
	if s.runs == nil {
		return nil, 0, appErrors.Clone(appErrors.ErrInternal, "run repository unavailable")
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	records, total, err := s.runs.List(ctx, query.Status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable runs")
	}
	out := make([]dto.RunSummary, 0, len(records))
	for _, r := range records {
		out = append(out, dto.RunSummary{ID: r.ID, Status: string(r.Status), BestFitness: r.BestFitness, CreatedAt: r.CreatedAt})
	}
	return out, total, nil
}

// DeleteRun removes a persisted run record.
func (s *TimetableService) DeleteRun(ctx context.Context, id string) error {
	if s.runs == nil {
		return appErrors.Clone(appErrors.ErrInternal, "run repository unavailable")
	}
	if err := s.runs.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "timetable run not found")
	}
	return nil
}

// ExportCSV renders a persisted run's timetable to CSV bytes.
func (s *TimetableService) ExportCSV(ctx context.Context, id string) ([]byte, error) {
	detail, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail.Output == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "run has no completed output to export")
	}
	return s.csv.Render(export.TimetableDataset(*detail.Output))
}

// ExportPDF renders a persisted run's timetable to PDF bytes. Saving and
// signing are done separately by SaveExport.
func (s *TimetableService) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	detail, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail.Output == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "run has no completed output to export")
	}
	return s.pdf.Render(export.TimetableDataset(*detail.Output), "Timetable "+id)
}

// SaveExport persists rendered bytes under the run id and mints a
// time-limited signed download token for them.
func (s *TimetableService) SaveExport(runID, extension string, data []byte) (string, time.Time, error) {
	if s.files == nil || s.signer == nil {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrInternal, "export storage unavailable")
	}
	filename := fmt.Sprintf("%s.%s", runID, extension)
	if _, err := s.files.Save(filename, data); err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save export")
	}
	token, expiresAt, err := s.signer.Generate(runID, filename)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export download")
	}
	return token, expiresAt, nil
}

func (s *TimetableService) handleStructuralError(ctx context.Context, digest string, err error) (*dto.SolveResponse, error) {
	var structural *scheduler.StructuralError
	if !errors.As(err, &structural) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "solve failed")
	}

	run := &models.TimetableRun{InputDigest: digest, Status: models.RunStatusFailed}
	msg := structural.Reason
	run.ErrorMessage = &msg
	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			s.logger.Sugar().Warnw("failed to persist failed timetable run", "error", err)
		}
	}
	return nil, appErrors.Wrap(structural, appErrors.ErrStructuralInput.Code, appErrors.ErrStructuralInput.Status, structural.Reason)
}

func (s *TimetableService) persistCompletedRun(ctx context.Context, run *models.TimetableRun, resp *dto.SolveResponse) error {
	if s.runs == nil {
		return nil
	}
	if err := s.attachOutput(run, resp); err != nil {
		return err
	}
	return s.runs.Create(ctx, run)
}

func (s *TimetableService) attachOutput(run *models.TimetableRun, resp *dto.SolveResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal timetable run output: %w", err)
	}
	run.Output = types.JSONText(payload)
	return nil
}

func runToDetail(run *models.TimetableRun) (*dto.RunDetail, error) {
	detail := &dto.RunDetail{
		ID:          run.ID,
		Status:      string(run.Status),
		BestFitness: run.BestFitness,
		CreatedAt:   run.CreatedAt,
		FinishedAt:  run.FinishedAt,
	}
	if run.ErrorMessage != nil {
		detail.ErrorMessage = *run.ErrorMessage
	}
	if len(run.Output) > 0 {
		var resp dto.SolveResponse
		if err := json.Unmarshal(run.Output, &resp); err != nil {
			return nil, fmt.Errorf("decode stored timetable run output: %w", err)
		}
		detail.Output = &resp
	}
	return detail, nil
}

func digestRequest(req dto.SolveRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%x", sum), nil
}
