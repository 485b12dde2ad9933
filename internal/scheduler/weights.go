package scheduler

// HardWeights holds the penalty weight per hard-constraint category. Any
// single hard violation is meant to dwarf the soft-constraint budget
// combined, hence the 25,000-50,000 default range.
type HardWeights struct {
	TeacherConflict      int64
	StudentConflict      int64
	RoomConflict         int64
	CapacityViolation    int64
	QualificationViolation int64
	RoomTypeViolation    int64
}

// SoftWeights holds the penalty weight per soft-constraint category.
type SoftWeights struct {
	WorkloadViolation     int64
	ConsecutiveViolation  int64
	GapPenalty            int64
	LunchViolation        int64
	PreferenceViolation   int64
	ResearchDayViolation  int64
}

// DefaultHardWeights returns the documented hard-constraint defaults.
func DefaultHardWeights() HardWeights {
	return HardWeights{
		TeacherConflict:        50000,
		StudentConflict:        50000,
		RoomConflict:           50000,
		CapacityViolation:      40000,
		QualificationViolation: 35000,
		RoomTypeViolation:      35000,
	}
}

// DefaultSoftWeights returns the documented soft-constraint defaults.
func DefaultSoftWeights() SoftWeights {
	return SoftWeights{
		WorkloadViolation:    60,
		ConsecutiveViolation: 80,
		GapPenalty:           40,
		LunchViolation:       100,
		PreferenceViolation:  30,
		ResearchDayViolation: 50,
	}
}

// AlgorithmSettings tunes the evolution driver; zero-valued fields are
// replaced by DefaultAlgorithmSettings before a run starts.
type AlgorithmSettings struct {
	PopulationSize           int
	Generations              int
	MutationRate             float64
	CrossoverRate            float64
	EliteSize                int
	TournamentSize           int
	ConvergenceThreshold     int64
	EarlySuccessThreshold    int64
	MaxStagnationGenerations int
	MaxSeedAttempts          int
}

// DefaultAlgorithmSettings returns the documented evolutionary defaults.
func DefaultAlgorithmSettings() AlgorithmSettings {
	return AlgorithmSettings{
		PopulationSize:           60,
		Generations:              150,
		MutationRate:             0.12,
		CrossoverRate:            0.85,
		EliteSize:                6,
		TournamentSize:           4,
		ConvergenceThreshold:     95000,
		EarlySuccessThreshold:    99000,
		MaxStagnationGenerations: 20,
		MaxSeedAttempts:          50,
	}
}

// MaxFitness is the ceiling fitness a perfectly conflict-free chromosome
// scores; every penalty subtracts from it, clamped at zero.
const MaxFitness int64 = 100000

// withDefaults fills zero-valued fields with the documented defaults,
// leaving any caller override in place.
func (a AlgorithmSettings) withDefaults() AlgorithmSettings {
	d := DefaultAlgorithmSettings()
	if a.PopulationSize <= 0 {
		a.PopulationSize = d.PopulationSize
	}
	if a.Generations <= 0 {
		a.Generations = d.Generations
	}
	if a.MutationRate <= 0 {
		a.MutationRate = d.MutationRate
	}
	if a.CrossoverRate <= 0 {
		a.CrossoverRate = d.CrossoverRate
	}
	if a.EliteSize <= 0 {
		a.EliteSize = d.EliteSize
	}
	if a.TournamentSize <= 0 {
		a.TournamentSize = d.TournamentSize
	}
	if a.TournamentSize > a.PopulationSize {
		a.TournamentSize = a.PopulationSize
	}
	if a.ConvergenceThreshold <= 0 {
		a.ConvergenceThreshold = d.ConvergenceThreshold
	}
	if a.EarlySuccessThreshold <= 0 {
		a.EarlySuccessThreshold = d.EarlySuccessThreshold
	}
	if a.MaxStagnationGenerations <= 0 {
		a.MaxStagnationGenerations = d.MaxStagnationGenerations
	}
	if a.MaxSeedAttempts <= 0 {
		a.MaxSeedAttempts = d.MaxSeedAttempts
	}
	return a
}

func (h HardWeights) withDefaults() HardWeights {
	d := DefaultHardWeights()
	if h.TeacherConflict <= 0 {
		h.TeacherConflict = d.TeacherConflict
	}
	if h.StudentConflict <= 0 {
		h.StudentConflict = d.StudentConflict
	}
	if h.RoomConflict <= 0 {
		h.RoomConflict = d.RoomConflict
	}
	if h.CapacityViolation <= 0 {
		h.CapacityViolation = d.CapacityViolation
	}
	if h.QualificationViolation <= 0 {
		h.QualificationViolation = d.QualificationViolation
	}
	if h.RoomTypeViolation <= 0 {
		h.RoomTypeViolation = d.RoomTypeViolation
	}
	return h
}

func (s SoftWeights) withDefaults() SoftWeights {
	d := DefaultSoftWeights()
	if s.WorkloadViolation <= 0 {
		s.WorkloadViolation = d.WorkloadViolation
	}
	if s.ConsecutiveViolation <= 0 {
		s.ConsecutiveViolation = d.ConsecutiveViolation
	}
	if s.GapPenalty <= 0 {
		s.GapPenalty = d.GapPenalty
	}
	if s.LunchViolation <= 0 {
		s.LunchViolation = d.LunchViolation
	}
	if s.PreferenceViolation <= 0 {
		s.PreferenceViolation = d.PreferenceViolation
	}
	if s.ResearchDayViolation <= 0 {
		s.ResearchDayViolation = d.ResearchDayViolation
	}
	return s
}
