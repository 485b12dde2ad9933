package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/campusforge/timetable-scheduler/internal/dto"
	"github.com/campusforge/timetable-scheduler/internal/scheduler"
)

// toSchedulerInput converts a wire-format solve request into the plain Go
// values the scheduler core operates on, applying the service's configured
// defaults wherever the request leaves a weight or setting at its zero value.
func toSchedulerInput(req dto.SolveRequest, cfg TimetableServiceConfig) scheduler.Input {
	return scheduler.Input{
		WorkingDays: req.BasicInfo.WorkingDays,
		LunchWindow: scheduler.LunchWindow{
			Start: req.BasicInfo.LunchBreakStart,
			End:   req.BasicInfo.LunchBreakEnd,
		},
		TimeSlots:   toTimeSlots(req.TimeSlots),
		Teachers:    toTeachers(req.Teachers),
		Subjects:    toSubjects(req.Subjects),
		Rooms:       toRooms(req.Rooms),
		Groups:      toGroups(req.Students),
		HardWeights: toHardWeights(req.Constraints.Hard, cfg.HardWeights),
		SoftWeights: toSoftWeights(req.Constraints.Soft, cfg.SoftWeights),
		Settings:    toAlgorithmSettings(req.AlgorithmSettings, cfg.AlgorithmSettings),
		Seed:        req.AlgorithmSettings.Seed,
	}
}

// normalizeSlotID stringifies a slot id that may have arrived as a JSON
// number or a JSON string, so every downstream lookup works off one type.
func normalizeSlotID(raw any) scheduler.SlotID {
	switch v := raw.(type) {
	case string:
		return scheduler.SlotID(v)
	case float64:
		if v == float64(int64(v)) {
			return scheduler.SlotID(fmt.Sprintf("%d", int64(v)))
		}
		return scheduler.SlotID(fmt.Sprintf("%v", v))
	default:
		return scheduler.SlotID(fmt.Sprintf("%v", v))
	}
}

func toTimeSlots(in []dto.TimeSlotRequest) []scheduler.TimeSlot {
	out := make([]scheduler.TimeSlot, 0, len(in))
	for _, t := range in {
		out = append(out, scheduler.TimeSlot{
			ID:        normalizeSlotID(t.ID),
			StartTime: t.StartTime,
			EndTime:   t.EndTime,
		})
	}
	return out
}

func toTeachers(in []dto.TeacherRequest) []scheduler.Teacher {
	out := make([]scheduler.Teacher, 0, len(in))
	for _, t := range in {
		research := make(map[string]bool, len(t.ResearchDays))
		for _, d := range t.ResearchDays {
			research[d] = true
		}
		out = append(out, scheduler.Teacher{
			ID:                  scheduler.TeacherID(t.ID),
			Name:                t.Name,
			TeachableSubjects:   t.TeachableSubjects,
			MinHoursPerWeek:     t.MinHoursPerWeek,
			MaxHoursPerWeek:     t.MaxHoursPerWeek,
			ResearchDays:        research,
			PreferredDays:       t.PreferredDays,
			MaxConsecutiveHours: t.MaxConsecutiveHours,
		})
	}
	return out
}

func toSubjects(in []dto.SubjectRequest) []scheduler.Subject {
	out := make([]scheduler.Subject, 0, len(in))
	for _, s := range in {
		out = append(out, scheduler.Subject{
			ID:               scheduler.SubjectID(s.ID),
			Name:             s.Name,
			Code:             s.Code,
			Kind:             scheduler.SubjectKind(s.Kind),
			HoursPerWeek:     s.HoursPerWeek,
			SessionDuration:  s.SessionDuration,
			RequiredRoomType: scheduler.RoomType(s.RequiredRoomType),
		})
	}
	return out
}

func toRooms(in []dto.RoomRequest) []scheduler.Room {
	out := make([]scheduler.Room, 0, len(in))
	for _, r := range in {
		out = append(out, scheduler.Room{
			ID:       scheduler.RoomID(r.ID),
			Name:     r.Name,
			RoomType: scheduler.RoomType(r.RoomType),
			Capacity: r.Capacity,
		})
	}
	return out
}

func toGroups(in []dto.StudentGroupRequest) []scheduler.StudentGroup {
	out := make([]scheduler.StudentGroup, 0, len(in))
	for _, g := range in {
		subjects := make([]scheduler.SubjectID, 0, len(g.EnrolledSubjects))
		for _, s := range g.EnrolledSubjects {
			subjects = append(subjects, scheduler.SubjectID(s))
		}
		out = append(out, scheduler.StudentGroup{
			ID:               scheduler.GroupID(g.ID),
			CohortLabel:      g.CohortLabel,
			SectionLabel:     g.SectionLabel,
			StudentCount:     g.StudentCount,
			EnrolledSubjects: subjects,
		})
	}
	return out
}

func toHardWeights(req dto.PenaltyWeightsRequest, fallback scheduler.HardWeights) scheduler.HardWeights {
	w := scheduler.HardWeights{
		TeacherConflict:        req.TeacherConflict,
		StudentConflict:        req.StudentConflict,
		RoomConflict:           req.RoomConflict,
		CapacityViolation:      req.CapacityViolation,
		QualificationViolation: req.QualificationViolation,
		RoomTypeViolation:      req.RoomTypeViolation,
	}
	if w.TeacherConflict <= 0 {
		w.TeacherConflict = fallback.TeacherConflict
	}
	if w.StudentConflict <= 0 {
		w.StudentConflict = fallback.StudentConflict
	}
	if w.RoomConflict <= 0 {
		w.RoomConflict = fallback.RoomConflict
	}
	if w.CapacityViolation <= 0 {
		w.CapacityViolation = fallback.CapacityViolation
	}
	if w.QualificationViolation <= 0 {
		w.QualificationViolation = fallback.QualificationViolation
	}
	if w.RoomTypeViolation <= 0 {
		w.RoomTypeViolation = fallback.RoomTypeViolation
	}
	return w
}

func toSoftWeights(req dto.PenaltyWeightsRequest, fallback scheduler.SoftWeights) scheduler.SoftWeights {
	w := scheduler.SoftWeights{
		WorkloadViolation:    req.WorkloadViolation,
		ConsecutiveViolation: req.ConsecutiveViolation,
		GapPenalty:           req.GapPenalty,
		LunchViolation:       req.LunchViolation,
		PreferenceViolation:  req.PreferenceViolation,
		ResearchDayViolation: req.ResearchDayViolation,
	}
	if w.WorkloadViolation <= 0 {
		w.WorkloadViolation = fallback.WorkloadViolation
	}
	if w.ConsecutiveViolation <= 0 {
		w.ConsecutiveViolation = fallback.ConsecutiveViolation
	}
	if w.GapPenalty <= 0 {
		w.GapPenalty = fallback.GapPenalty
	}
	if w.LunchViolation <= 0 {
		w.LunchViolation = fallback.LunchViolation
	}
	if w.PreferenceViolation <= 0 {
		w.PreferenceViolation = fallback.PreferenceViolation
	}
	if w.ResearchDayViolation <= 0 {
		w.ResearchDayViolation = fallback.ResearchDayViolation
	}
	return w
}

func toAlgorithmSettings(req dto.AlgorithmSettingsRequest, fallback scheduler.AlgorithmSettings) scheduler.AlgorithmSettings {
	s := scheduler.AlgorithmSettings{
		PopulationSize:           req.PopulationSize,
		Generations:              req.Generations,
		MutationRate:             req.MutationRate,
		CrossoverRate:            req.CrossoverRate,
		EliteSize:                req.EliteSize,
		TournamentSize:           req.TournamentSize,
		ConvergenceThreshold:     req.ConvergenceThreshold,
		EarlySuccessThreshold:    fallback.EarlySuccessThreshold,
		MaxStagnationGenerations: req.MaxStagnationGenerations,
		MaxSeedAttempts:          fallback.MaxSeedAttempts,
	}
	if s.PopulationSize <= 0 {
		s.PopulationSize = fallback.PopulationSize
	}
	if s.Generations <= 0 {
		s.Generations = fallback.Generations
	}
	if s.MutationRate <= 0 {
		s.MutationRate = fallback.MutationRate
	}
	if s.CrossoverRate <= 0 {
		s.CrossoverRate = fallback.CrossoverRate
	}
	if s.EliteSize <= 0 {
		s.EliteSize = fallback.EliteSize
	}
	if s.TournamentSize <= 0 {
		s.TournamentSize = fallback.TournamentSize
	}
	if s.ConvergenceThreshold <= 0 {
		s.ConvergenceThreshold = fallback.ConvergenceThreshold
	}
	if s.MaxStagnationGenerations <= 0 {
		s.MaxStagnationGenerations = fallback.MaxStagnationGenerations
	}
	return s
}

// fromSchedulerOutput converts the solver's plain Go result into the
// wire-format response, resolving human-readable names through the run's
// own indices rather than re-querying anything.
func fromSchedulerOutput(out scheduler.Output) dto.SolveResponse {
	return dto.SolveResponse{
		Timetable:         toTimetable(out),
		AlgorithmStats:    toAlgorithmStats(out.Stats),
		Conflicts:         toConflictRecords(out.Diagnostics.Conflicts),
		Statistics:        toStatisticsRecord(out),
		ConstraintMetrics: toConstraintMetricsRecord(out.Diagnostics.Metrics),
	}
}

func toTimetable(out scheduler.Output) []dto.DayEntry {
	byDay := make(map[string][]dto.ActivityBlock)

	for _, a := range out.Activities {
		if !a.Assigned() {
			continue
		}
		subj := out.Indices.SubjectByID[a.SubjectID]
		teacher := out.Indices.TeacherByID[a.TeacherID]
		room := out.Indices.RoomByID[a.RoomID]

		byDay[a.Day] = append(byDay[a.Day], dto.ActivityBlock{
			ActivityID:    a.ID,
			SubjectID:     string(a.SubjectID),
			SubjectName:   subj.Name,
			GroupID:       string(a.GroupID),
			TeacherID:     string(a.TeacherID),
			TeacherName:   teacher.Name,
			RoomID:        string(a.RoomID),
			RoomName:      room.Name,
			SlotID:        string(a.SlotID),
			SessionNumber: a.SessionNumber,
			TotalSessions: a.TotalSessions,
		})
	}

	entries := make([]dto.DayEntry, 0, len(out.Indices.WorkingDays))
	for _, day := range out.Indices.WorkingDays {
		periods := byDay[day]
		sort.Slice(periods, func(i, j int) bool {
			return slotOrdinal(out.Indices, periods[i].SlotID) < slotOrdinal(out.Indices, periods[j].SlotID)
		})
		entries = append(entries, dto.DayEntry{Day: day, Periods: periods})
	}
	return entries
}

func slotOrdinal(idx *scheduler.Indices, slotID string) int {
	if ord, ok := idx.SlotIndex[scheduler.SlotID(slotID)]; ok {
		return ord
	}
	return len(idx.SlotOrder)
}

func toAlgorithmStats(s scheduler.Stats) dto.AlgorithmStats {
	return dto.AlgorithmStats{
		GenerationsRun:      s.GenerationsRun,
		FinalFitness:        s.FinalFitness,
		PopulationSize:      s.PopulationSize,
		ActivityCount:       s.ActivityCount,
		ExecutionTimeMillis: s.ExecutionTime.Milliseconds(),
		StagnationAtExit:    s.StagnationAtExit,
		FitnessHistory:      s.FitnessHistory,
		ConvergenceAchieved: s.ConvergenceAchieved,
		EarlyStop:           s.EarlyStop,
	}
}

func toConflictRecords(in []scheduler.Conflict) []dto.ConflictRecord {
	out := make([]dto.ConflictRecord, 0, len(in))
	for _, c := range in {
		out = append(out, dto.ConflictRecord{
			Type:               string(c.Kind),
			Category:           c.Category,
			Description:        c.Description,
			Details:            c.Details,
			Severity:           string(c.Severity),
			AffectedActivities: c.AffectedActivities,
		})
	}
	return out
}

func toStatisticsRecord(out scheduler.Output) dto.StatisticsRecord {
	teacherRecords := make([]dto.TeacherUtilizationRecord, 0, len(out.Diagnostics.TeacherUtilization))
	for _, t := range out.Diagnostics.TeacherUtilization {
		teacherRecords = append(teacherRecords, dto.TeacherUtilizationRecord{
			TeacherID:        string(t.TeacherID),
			HoursPerWeek:     t.HoursPerWeek,
			PercentOfMax:     t.PercentOfMax,
			DistinctSubjects: t.DistinctSubjects,
			Status:           t.Status,
		})
	}

	roomRecords := make([]dto.RoomUtilizationRecord, 0, len(out.Diagnostics.RoomUtilization))
	totalPossibleHours := 0
	bookedHours := 0
	for _, r := range out.Diagnostics.RoomUtilization {
		roomRecords = append(roomRecords, dto.RoomUtilizationRecord{
			RoomID:       string(r.RoomID),
			HoursPerWeek: r.HoursPerWeek,
			Percent:      r.Percent,
			RoomType:     string(r.RoomType),
			Capacity:     r.Capacity,
			UsageTypes:   r.UsageTypes,
		})
		bookedHours += r.HoursPerWeek
	}
	totalPossibleHours = len(out.Indices.WorkingDays) * len(out.Indices.SlotOrder) * len(out.Indices.RoomByID)

	utilizationPercentage := 0.0
	if totalPossibleHours > 0 {
		utilizationPercentage = float64(bookedHours) / float64(totalPossibleHours) * 100
	}

	return dto.StatisticsRecord{
		TeacherUtilization:    teacherRecords,
		RoomUtilization:       roomRecords,
		TotalActivities:       len(out.Activities),
		TotalTimeSlots:        len(out.Indices.SlotOrder),
		UtilizationPercentage: utilizationPercentage,
		QualityScore:          qualityScore(out.Stats.FinalFitness),
	}
}

// qualityScore rounds a run's best fitness down to a 0-100 scale, two
// decimal places: fitness is out of scheduler.MaxFitness (100000), so this
// is bestFitness/1000 rounded to 2dp.
func qualityScore(bestFitness int64) float64 {
	return math.Round(float64(bestFitness)/1000*100) / 100
}

func toConstraintMetricsRecord(m scheduler.ConstraintMetrics) dto.ConstraintMetricsRecord {
	return dto.ConstraintMetricsRecord{
		HardViolations:      m.HardViolations,
		SoftViolations:      m.SoftViolations,
		HardSatisfaction:    m.HardSatisfaction,
		SoftSatisfaction:    m.SoftSatisfaction,
		OverallSatisfaction: m.OverallSatisfaction,
	}
}
