package scheduler

import "sort"

// Severity classifies how disruptive a reported conflict is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ConflictKind separates hard-constraint violations (correctness) from
// soft-constraint ones (preference).
type ConflictKind string

const (
	ConflictHard ConflictKind = "hard_constraint"
	ConflictSoft ConflictKind = "soft_constraint"
)

// Conflict is one reported violation category, covering every affected
// activity rather than one record per activity.
type Conflict struct {
	Kind               ConflictKind
	Category           string
	Description        string
	Details            string
	Severity           Severity
	AffectedActivities int64
}

// TeacherUtilization reports one teacher's workload against their ceiling.
type TeacherUtilization struct {
	TeacherID         TeacherID
	HoursPerWeek      int
	PercentOfMax      float64
	DistinctSubjects  int
	Status            string // optimal | underutilised | overloaded
}

// RoomUtilization reports one room's booked hours against total capacity.
type RoomUtilization struct {
	RoomID     RoomID
	HoursPerWeek int
	Percent    float64
	RoomType   RoomType
	Capacity   int
	UsageTypes []string
}

// ConstraintMetrics summarises violation totals into satisfaction
// percentages, following the documented formulas exactly.
type ConstraintMetrics struct {
	HardViolations      int64
	SoftViolations      int64
	HardSatisfaction    float64
	SoftSatisfaction    float64
	OverallSatisfaction float64
}

// Diagnostics is the full post-run report over the winning chromosome.
type Diagnostics struct {
	Conflicts          []Conflict
	TeacherUtilization []TeacherUtilization
	RoomUtilization    []RoomUtilization
	Metrics            ConstraintMetrics
}

// Diagnose builds the post-run report. It re-derives everything from the
// evaluator's raw violation counts so the reported conflicts and the
// fitness score can never disagree.
func Diagnose(c Chromosome, activities []Activity, idx *Indices, eval *Evaluator) Diagnostics {
	counts := eval.Evaluate(c)

	d := Diagnostics{
		Conflicts:          conflictRecords(counts),
		TeacherUtilization: teacherUtilization(c, activities, idx),
		RoomUtilization:    roomUtilization(c, activities, idx),
		Metrics:            constraintMetrics(counts, len(activities)),
	}
	return d
}

func conflictRecords(v ViolationCounts) []Conflict {
	var out []Conflict

	add := func(kind ConflictKind, category, description, details string, severity Severity, count int64) {
		if count <= 0 {
			return
		}
		out = append(out, Conflict{
			Kind:               kind,
			Category:           category,
			Description:        description,
			Details:            details,
			Severity:           severity,
			AffectedActivities: count,
		})
	}

	add(ConflictHard, "teacher_conflict", "A teacher is booked into more than one activity at the same time", "overlapping (teacher, day, slot) bookings", SeverityCritical, v.TeacherConflict)
	add(ConflictHard, "student_conflict", "A student group has two activities scheduled simultaneously", "overlapping (group, day, slot) bookings", SeverityCritical, v.StudentConflict)
	add(ConflictHard, "room_conflict", "A room is double-booked at the same time", "overlapping (room, day, slot) bookings", SeverityCritical, v.RoomConflict)
	add(ConflictHard, "capacity_violation", "An activity's enrolment exceeds its assigned room's capacity", "student count greater than room capacity", SeverityHigh, v.CapacityViolation)
	add(ConflictHard, "qualification_violation", "An activity is taught by a teacher not qualified for its subject", "teacher not in the subject's qualified list", SeverityHigh, v.QualificationViolation)
	add(ConflictHard, "room_type_violation", "A lab session is not assigned to a laboratory room", "required room type mismatch", SeverityHigh, v.RoomTypeViolation)

	add(ConflictSoft, "workload_violation", "A teacher's weekly hours fall outside their declared min/max range", "hours below minimum or above maximum", SeverityMedium, v.WorkloadViolation)
	add(ConflictSoft, "consecutive_violation", "A teacher is scheduled beyond their maximum consecutive teaching hours", "longest same-day slot run exceeds the limit", SeverityMedium, v.ConsecutiveViolation)
	add(ConflictSoft, "gap_penalty", "A teacher has idle gaps between same-day sessions", "non-adjacent slot indices on the same day", SeverityLow, v.GapPenalty)
	add(ConflictSoft, "lunch_violation", "An activity overlaps the lunch window", "slot time range intersects lunchBreakStart/End", SeverityMedium, v.LunchViolation)
	add(ConflictSoft, "preference_violation", "An activity falls outside a teacher's preferred days", "day not in teacher's preferredDays", SeverityLow, v.PreferenceViolation)
	add(ConflictSoft, "research_day_violation", "An activity is scheduled on a teacher's research day", "day present in teacher's researchDays", SeverityMedium, v.ResearchDayViolation)

	return out
}

func teacherUtilization(c Chromosome, activities []Activity, idx *Indices) []TeacherUtilization {
	hours := make(map[TeacherID]int)
	subjects := make(map[TeacherID]map[SubjectID]bool)

	n := len(activities)
	if len(c.Genes) < n {
		n = len(c.Genes)
	}
	for i := 0; i < n; i++ {
		g := c.Genes[i]
		a := activities[i]
		if g.TeacherID == "" {
			continue
		}
		hours[g.TeacherID] += a.Duration / 60
		if subjects[g.TeacherID] == nil {
			subjects[g.TeacherID] = make(map[SubjectID]bool)
		}
		subjects[g.TeacherID][a.SubjectID] = true
	}

	ids := allTeacherIDs(idx)
	out := make([]TeacherUtilization, 0, len(ids))
	for _, tid := range ids {
		teacher := idx.TeacherByID[tid]
		h := hours[tid]
		percent := 0.0
		if teacher.MaxHoursPerWeek > 0 {
			percent = float64(h) / float64(teacher.MaxHoursPerWeek) * 100
		}
		status := "optimal"
		switch {
		case h == 0:
			status = "underutilised"
		case teacher.MinHoursPerWeek > 0 && h < teacher.MinHoursPerWeek:
			status = "underutilised"
		case teacher.MaxHoursPerWeek > 0 && h > teacher.MaxHoursPerWeek:
			status = "overloaded"
		}
		out = append(out, TeacherUtilization{
			TeacherID:        tid,
			HoursPerWeek:     h,
			PercentOfMax:     percent,
			DistinctSubjects: len(subjects[tid]),
			Status:           status,
		})
	}
	return out
}

func roomUtilization(c Chromosome, activities []Activity, idx *Indices) []RoomUtilization {
	hours := make(map[RoomID]int)
	usageTypes := make(map[RoomID]map[RoomType]bool)
	totalPossibleHours := len(idx.WorkingDays) * len(idx.SlotOrder)

	n := len(activities)
	if len(c.Genes) < n {
		n = len(c.Genes)
	}
	for i := 0; i < n; i++ {
		g := c.Genes[i]
		a := activities[i]
		if g.RoomID == "" {
			continue
		}
		hours[g.RoomID] += a.Duration / 60
		if usageTypes[g.RoomID] == nil {
			usageTypes[g.RoomID] = make(map[RoomType]bool)
		}
		usageTypes[g.RoomID][a.RequiredRoomType] = true
	}

	ids := allRoomIDs(idx)
	out := make([]RoomUtilization, 0, len(ids))
	for _, rid := range ids {
		room := idx.RoomByID[rid]
		h := hours[rid]
		percent := 0.0
		if totalPossibleHours > 0 {
			percent = float64(h) / float64(totalPossibleHours) * 100
		}
		types := make([]string, 0, len(usageTypes[rid]))
		for t := range usageTypes[rid] {
			types = append(types, string(t))
		}
		sort.Strings(types)
		out = append(out, RoomUtilization{
			RoomID:       rid,
			HoursPerWeek: h,
			Percent:      percent,
			RoomType:     room.RoomType,
			Capacity:     room.Capacity,
			UsageTypes:   types,
		})
	}
	return out
}

func constraintMetrics(v ViolationCounts, activityCount int) ConstraintMetrics {
	hard := v.hardTotal()
	soft := v.softTotal()

	if activityCount <= 0 {
		return ConstraintMetrics{HardViolations: hard, SoftViolations: soft, HardSatisfaction: 100, SoftSatisfaction: 100, OverallSatisfaction: 100}
	}

	n := float64(activityCount)

	hardSatisfaction := (1 - min1(float64(hard)/n)) * 100
	softSatisfaction := max0(100 - (float64(soft)/n)*10)
	overall := (1 - min1((10*float64(hard)+float64(soft))/(10*n))) * 100

	return ConstraintMetrics{
		HardViolations:      hard,
		SoftViolations:      soft,
		HardSatisfaction:    hardSatisfaction,
		SoftSatisfaction:    softSatisfaction,
		OverallSatisfaction: overall,
	}
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
