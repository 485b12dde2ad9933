package dto

// BasicInfoRequest carries the working-week shape every solve request needs.
type BasicInfoRequest struct {
	WorkingDays      []string `json:"workingDays" validate:"required,min=1,dive,required"`
	LunchBreakStart  string   `json:"lunchBreakStart" validate:"omitempty"`
	LunchBreakEnd    string   `json:"lunchBreakEnd" validate:"omitempty"`
}

// TimeSlotRequest is one bookable period; id may arrive as a number or a
// string and is normalised to a string at the service boundary.
type TimeSlotRequest struct {
	ID        any    `json:"id" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// TeacherRequest mirrors one teacher record on the wire.
type TeacherRequest struct {
	ID                  string   `json:"id" validate:"required"`
	Name                string   `json:"name" validate:"required"`
	TeachableSubjects   []string `json:"teachableSubjects" validate:"required,min=1"`
	MinHoursPerWeek     int      `json:"minHoursPerWeek" validate:"omitempty,min=0"`
	MaxHoursPerWeek     int      `json:"maxHoursPerWeek" validate:"omitempty,min=0"`
	ResearchDays        []string `json:"researchDays"`
	PreferredDays       []string `json:"preferredDays"`
	MaxConsecutiveHours int      `json:"maxConsecutiveHours" validate:"omitempty,min=1"`
}

// SubjectRequest mirrors one subject record on the wire.
type SubjectRequest struct {
	ID               string `json:"id" validate:"required"`
	Name             string `json:"name" validate:"required"`
	Code             string `json:"code" validate:"required"`
	Kind             string `json:"kind" validate:"required,oneof=Theory Lab Tutorial Practical"`
	HoursPerWeek     int    `json:"hoursPerWeek" validate:"required,min=1"`
	SessionDuration  int    `json:"sessionDuration" validate:"required,min=1"`
	RequiredRoomType string `json:"requiredRoomType"`
}

// RoomRequest mirrors one room record on the wire.
type RoomRequest struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	RoomType string `json:"roomType" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

// StudentGroupRequest mirrors one cohort record on the wire.
type StudentGroupRequest struct {
	ID               string   `json:"id" validate:"required"`
	CohortLabel      string   `json:"cohortLabel" validate:"required"`
	SectionLabel     string   `json:"sectionLabel"`
	StudentCount     int      `json:"studentCount" validate:"required,min=1"`
	EnrolledSubjects []string `json:"enrolledSubjects" validate:"required,min=1"`
}

// PenaltyWeightsRequest optionally overrides the constraint evaluator's
// default weights; zero fields fall back to the documented defaults.
type PenaltyWeightsRequest struct {
	TeacherConflict        int64 `json:"teacherConflict"`
	StudentConflict        int64 `json:"studentConflict"`
	RoomConflict           int64 `json:"roomConflict"`
	CapacityViolation      int64 `json:"capacityViolation"`
	QualificationViolation int64 `json:"qualificationViolation"`
	RoomTypeViolation      int64 `json:"roomTypeViolation"`

	WorkloadViolation    int64 `json:"workloadViolation"`
	ConsecutiveViolation int64 `json:"consecutiveViolation"`
	GapPenalty           int64 `json:"gapPenalty"`
	LunchViolation       int64 `json:"lunchViolation"`
	PreferenceViolation  int64 `json:"preferenceViolation"`
	ResearchDayViolation int64 `json:"researchDayViolation"`
}

// ConstraintsRequest groups the hard/soft penalty weight overrides.
type ConstraintsRequest struct {
	Hard PenaltyWeightsRequest `json:"hard"`
	Soft PenaltyWeightsRequest `json:"soft"`
}

// AlgorithmSettingsRequest optionally overrides the evolution driver's
// tuning knobs; zero fields fall back to config-supplied defaults.
type AlgorithmSettingsRequest struct {
	PopulationSize           int     `json:"populationSize" validate:"omitempty,min=4"`
	Generations              int     `json:"generations" validate:"omitempty,min=1"`
	MutationRate             float64 `json:"mutationRate" validate:"omitempty,min=0,max=1"`
	CrossoverRate            float64 `json:"crossoverRate" validate:"omitempty,min=0,max=1"`
	EliteSize                int     `json:"eliteSize" validate:"omitempty,min=0"`
	TournamentSize           int     `json:"tournamentSize" validate:"omitempty,min=1"`
	ConvergenceThreshold     int64   `json:"convergenceThreshold"`
	MaxStagnationGenerations int     `json:"maxStagnationGenerations" validate:"omitempty,min=1"`
	Seed                     int64   `json:"seed"`
}

// SolveRequest is the full input record accepted by POST /timetable/solve.
type SolveRequest struct {
	BasicInfo         BasicInfoRequest         `json:"basicInfo" validate:"required"`
	TimeSlots         []TimeSlotRequest        `json:"timeSlots" validate:"required,min=1,dive"`
	Teachers          []TeacherRequest         `json:"teachers" validate:"required,min=1,dive"`
	Subjects          []SubjectRequest         `json:"subjects" validate:"required,min=1,dive"`
	Rooms             []RoomRequest            `json:"rooms" validate:"required,min=1,dive"`
	Students          []StudentGroupRequest    `json:"students" validate:"required,min=1,dive"`
	Constraints       ConstraintsRequest       `json:"constraints"`
	AlgorithmSettings AlgorithmSettingsRequest `json:"algorithmSettings"`
}

// ActivityBlock is one formatted period entry inside a day's grid.
type ActivityBlock struct {
	ActivityID    int    `json:"activityId"`
	SubjectID     string `json:"subjectId"`
	SubjectName   string `json:"subjectName"`
	GroupID       string `json:"groupId"`
	TeacherID     string `json:"teacherId"`
	TeacherName   string `json:"teacherName"`
	RoomID        string `json:"roomId"`
	RoomName      string `json:"roomName"`
	SlotID        string `json:"slotId"`
	SessionNumber int    `json:"sessionNumber"`
	TotalSessions int    `json:"totalSessions"`
}

// DayEntry is one working day's ordered periods.
type DayEntry struct {
	Day     string          `json:"day"`
	Periods []ActivityBlock `json:"periods"`
}

// AlgorithmStats mirrors scheduler.Stats on the wire.
type AlgorithmStats struct {
	GenerationsRun      int     `json:"generationsRun"`
	FinalFitness        int64   `json:"finalFitness"`
	PopulationSize      int     `json:"populationSize"`
	ActivityCount       int     `json:"activityCount"`
	ExecutionTimeMillis int64   `json:"executionTimeMillis"`
	StagnationAtExit    int     `json:"stagnationAtExit"`
	FitnessHistory      []int64 `json:"fitnessHistory"`
	ConvergenceAchieved bool    `json:"convergenceAchieved"`
	EarlyStop           bool    `json:"earlyStop"`
}

// ConflictRecord mirrors scheduler.Conflict on the wire.
type ConflictRecord struct {
	Type               string `json:"type"`
	Category           string `json:"category"`
	Description        string `json:"description"`
	Details            string `json:"details"`
	Severity           string `json:"severity"`
	AffectedActivities int64  `json:"affectedActivities"`
}

// TeacherUtilizationRecord mirrors scheduler.TeacherUtilization on the wire.
type TeacherUtilizationRecord struct {
	TeacherID        string  `json:"teacherId"`
	HoursPerWeek     int     `json:"hoursPerWeek"`
	PercentOfMax     float64 `json:"percentOfMax"`
	DistinctSubjects int     `json:"distinctSubjects"`
	Status           string  `json:"status"`
}

// RoomUtilizationRecord mirrors scheduler.RoomUtilization on the wire.
type RoomUtilizationRecord struct {
	RoomID       string   `json:"roomId"`
	HoursPerWeek int      `json:"hoursPerWeek"`
	Percent      float64  `json:"percent"`
	RoomType     string   `json:"roomType"`
	Capacity     int      `json:"capacity"`
	UsageTypes   []string `json:"usageTypes"`
}

// StatisticsRecord is the aggregate utilization/quality summary block.
type StatisticsRecord struct {
	TeacherUtilization   []TeacherUtilizationRecord `json:"teacherUtilization"`
	RoomUtilization      []RoomUtilizationRecord    `json:"roomUtilization"`
	TotalActivities      int                        `json:"totalActivities"`
	TotalTimeSlots       int                        `json:"totalTimeSlots"`
	UtilizationPercentage float64                   `json:"utilizationPercentage"`
	QualityScore         float64                    `json:"qualityScore"`
}

// ConstraintMetricsRecord mirrors scheduler.ConstraintMetrics on the wire.
type ConstraintMetricsRecord struct {
	HardViolations      int64   `json:"hardViolations"`
	SoftViolations      int64   `json:"softViolations"`
	HardSatisfaction    float64 `json:"hardSatisfaction"`
	SoftSatisfaction    float64 `json:"softSatisfaction"`
	OverallSatisfaction float64 `json:"overallSatisfaction"`
}

// SolveResponse is the full output record returned by a solve call.
type SolveResponse struct {
	Success           bool                    `json:"success"`
	RunID             string                  `json:"runId,omitempty"`
	Timetable         []DayEntry              `json:"timetable"`
	AlgorithmStats    AlgorithmStats          `json:"algorithmStats"`
	Conflicts         []ConflictRecord        `json:"conflicts"`
	Statistics        StatisticsRecord        `json:"statistics"`
	ConstraintMetrics ConstraintMetricsRecord `json:"constraintMetrics"`
	Warnings          []string                `json:"warnings,omitempty"`
}

// JobAccepted is returned by the async solve endpoint.
type JobAccepted struct {
	JobID string `json:"jobId"`
	RunID string `json:"runId"`
}
