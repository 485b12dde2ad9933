package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/timetable-scheduler/internal/dto"
	"github.com/campusforge/timetable-scheduler/internal/models"
	"github.com/campusforge/timetable-scheduler/internal/scheduler"
	"github.com/campusforge/timetable-scheduler/pkg/jobs"
)

type stubRunRepository struct {
	runs map[string]*models.TimetableRun
}

func newStubRunRepository() *stubRunRepository {
	return &stubRunRepository{runs: make(map[string]*models.TimetableRun)}
}

func (s *stubRunRepository) Create(ctx context.Context, run *models.TimetableRun) error {
	if run.ID == "" {
		run.ID = "run-" + run.InputDigest[:8]
	}
	clone := *run
	s.runs[run.ID] = &clone
	return nil
}

func (s *stubRunRepository) UpdateResult(ctx context.Context, run *models.TimetableRun) error {
	s.runs[run.ID] = run
	return nil
}

func (s *stubRunRepository) FindByID(ctx context.Context, id string) (*models.TimetableRun, error) {
	run, ok := s.runs[id]
	if !ok {
		return nil, assert.AnError
	}
	return run, nil
}

func (s *stubRunRepository) FindByInputDigest(ctx context.Context, digest string) (*models.TimetableRun, error) {
	for _, r := range s.runs {
		if r.InputDigest == digest {
			return r, nil
		}
	}
	return nil, assert.AnError
}

func (s *stubRunRepository) List(ctx context.Context, status string, limit, offset int) ([]models.TimetableRunSummary, int, error) {
	out := make([]models.TimetableRunSummary, 0, len(s.runs))
	for _, r := range s.runs {
		if status != "" && string(r.Status) != status {
			continue
		}
		out = append(out, models.TimetableRunSummary{ID: r.ID, Status: r.Status, BestFitness: r.BestFitness, CreatedAt: r.CreatedAt})
	}
	return out, len(out), nil
}

func (s *stubRunRepository) Delete(ctx context.Context, id string) error {
	if _, ok := s.runs[id]; !ok {
		return assert.AnError
	}
	delete(s.runs, id)
	return nil
}

type stubResultCache struct {
	store map[string][]byte
}

func newStubResultCache() *stubResultCache {
	return &stubResultCache{store: make(map[string][]byte)}
}

func (c *stubResultCache) Get(ctx context.Context, digest string, dst interface{}) (bool, error) {
	raw, ok := c.store[digest]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *stubResultCache) Set(ctx context.Context, digest string, src interface{}) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	c.store[digest] = raw
	return nil
}

type stubJobQueue struct {
	enqueued []jobs.Job
}

func (q *stubJobQueue) Enqueue(job jobs.Job) error {
	q.enqueued = append(q.enqueued, job)
	return nil
}

func sampleSolveRequest() dto.SolveRequest {
	return dto.SolveRequest{
		BasicInfo: dto.BasicInfoRequest{WorkingDays: []string{"Monday"}},
		TimeSlots: []dto.TimeSlotRequest{
			{ID: "1", StartTime: "08:00", EndTime: "09:00"},
			{ID: "2", StartTime: "09:00", EndTime: "10:00"},
		},
		Teachers: []dto.TeacherRequest{
			{ID: "teacher-1", Name: "Ada Lovelace", TeachableSubjects: []string{"MATH101"}, MaxHoursPerWeek: 10},
		},
		Subjects: []dto.SubjectRequest{
			{ID: "math", Name: "Mathematics", Code: "MATH101", Kind: "Theory", HoursPerWeek: 1, SessionDuration: 60},
		},
		Rooms: []dto.RoomRequest{
			{ID: "room-1", Name: "Room A", RoomType: "Classroom", Capacity: 40},
		},
		Students: []dto.StudentGroupRequest{
			{ID: "group-1", CohortLabel: "Year 1", StudentCount: 30, EnrolledSubjects: []string{"math"}},
		},
		AlgorithmSettings: dto.AlgorithmSettingsRequest{
			PopulationSize: 8,
			Generations:    10,
			Seed:           42,
		},
	}
}

func newTestService(t *testing.T, runs timetableRunRepository, cache solveResultCache, queue solveJobQueue) *TimetableService {
	t.Helper()
	return NewTimetableService(runs, cache, queue, nil, nil, nil, nil, validator.New(), nil, nil, TimetableServiceConfig{
		HardWeights:       scheduler.DefaultHardWeights(),
		SoftWeights:       scheduler.DefaultSoftWeights(),
		AlgorithmSettings: scheduler.DefaultAlgorithmSettings(),
	})
}

func TestTimetableServiceGenerateSuccess(t *testing.T) {
	runs := newStubRunRepository()
	cache := newStubResultCache()
	svc := newTestService(t, runs, cache, nil)

	resp, err := svc.Generate(context.Background(), sampleSolveRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, int64(100000), resp.AlgorithmStats.FinalFitness)
	assert.Len(t, runs.runs, 1)
}

func TestTimetableServiceGenerateCacheHit(t *testing.T) {
	runs := newStubRunRepository()
	cache := newStubResultCache()
	svc := newTestService(t, runs, cache, nil)

	req := sampleSolveRequest()
	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	delete(runs.runs, first.RunID)
	second, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.AlgorithmStats.FinalFitness, second.AlgorithmStats.FinalFitness)
	assert.Empty(t, runs.runs, "a cache hit must not touch the run repository")
}

func TestTimetableServiceGenerateStructuralRejection(t *testing.T) {
	runs := newStubRunRepository()
	svc := newTestService(t, runs, nil, nil)

	req := sampleSolveRequest()
	req.Students[0].StudentCount = 100

	_, err := svc.Generate(context.Background(), req)
	require.Error(t, err)
	assert.Len(t, runs.runs, 1, "a structural rejection still records a failed run")
}

func TestTimetableServiceGenerateAsyncEnqueues(t *testing.T) {
	runs := newStubRunRepository()
	queue := &stubJobQueue{}
	svc := newTestService(t, runs, nil, queue)

	accepted, err := svc.GenerateAsync(context.Background(), sampleSolveRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, accepted.JobID)
	assert.NotEmpty(t, accepted.RunID)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "timetable_solve", queue.enqueued[0].Type)
}

func TestTimetableServiceHandleSolveJobCompletesRun(t *testing.T) {
	runs := newStubRunRepository()
	svc := newTestService(t, runs, nil, nil)

	run := &models.TimetableRun{ID: "run-async", Status: models.RunStatusQueued}
	require.NoError(t, runs.Create(context.Background(), run))

	err := svc.HandleSolveJob(context.Background(), jobs.Job{
		ID:      "job-1",
		Type:    "timetable_solve",
		Payload: solvePayload{RunID: run.ID, Request: sampleSolveRequest()},
	})
	require.NoError(t, err)

	stored := runs.runs[run.ID]
	require.NotNil(t, stored)
	assert.Equal(t, models.RunStatusCompleted, stored.Status)
	assert.NotEmpty(t, stored.Output)
}

func TestTimetableServiceListAndDeleteRuns(t *testing.T) {
	runs := newStubRunRepository()
	svc := newTestService(t, runs, nil, nil)

	_, err := svc.Generate(context.Background(), sampleSolveRequest())
	require.NoError(t, err)

	summaries, total, err := svc.ListRuns(context.Background(), dto.ListRunsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, summaries, 1)

	require.NoError(t, svc.DeleteRun(context.Background(), summaries[0].ID))
	assert.Empty(t, runs.runs)
}
