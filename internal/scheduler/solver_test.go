package scheduler

import (
	"context"
	"testing"
)

func fiveByFiveSchedule() ([]TimeSlot, []string) {
	slots := []TimeSlot{
		{ID: "1", StartTime: "08:00", EndTime: "09:00"},
		{ID: "2", StartTime: "09:00", EndTime: "10:00"},
		{ID: "3", StartTime: "10:00", EndTime: "11:00"},
		{ID: "4", StartTime: "11:00", EndTime: "12:00"},
		{ID: "5", StartTime: "13:00", EndTime: "14:00"},
	}
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	return slots, days
}

// S1 — Single activity, single resource.
func TestSolveS1SingleActivitySingleResource(t *testing.T) {
	slots, days := fiveByFiveSchedule()
	in := Input{
		WorkingDays: days,
		TimeSlots:   slots,
		Teachers:    []Teacher{{ID: "t1", TeachableSubjects: []string{"Algo"}, MaxHoursPerWeek: 20}},
		Subjects:    []Subject{{ID: "s1", Code: "Algo", Name: "Algo", Kind: SubjectTheory, HoursPerWeek: 1, SessionDuration: 60, RequiredRoomType: RoomClassroom}},
		Rooms:       []Room{{ID: "r1", RoomType: RoomClassroom, Capacity: 50}},
		Groups:      []StudentGroup{{ID: "g1", StudentCount: 30, EnrolledSubjects: []SubjectID{"s1"}}},
		Settings:    AlgorithmSettings{PopulationSize: 20, Generations: 30, EliteSize: 4, TournamentSize: 4},
		Seed:        1,
	}

	out, err := Solve(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected structural error: %v", err)
	}
	if out.Stats.FinalFitness != MaxFitness {
		t.Fatalf("expected max fitness, got %d", out.Stats.FinalFitness)
	}
	if len(out.Activities) != 1 {
		t.Fatalf("expected exactly one placed activity, got %d", len(out.Activities))
	}
	if len(out.Diagnostics.Conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %+v", out.Diagnostics.Conflicts)
	}
}

// S2 — Forced teacher conflict. Only one (day, slot) combination exists in
// the whole input, so two activities sharing a group can never avoid
// colliding on at least one of teacher/student/room occupancy.
func TestSolveS2ForcedTeacherConflict(t *testing.T) {
	in := Input{
		WorkingDays: []string{"Monday"},
		TimeSlots:   []TimeSlot{{ID: "1", StartTime: "08:00", EndTime: "09:00"}},
		Teachers:    []Teacher{{ID: "t1", TeachableSubjects: []string{"A", "B"}, MaxHoursPerWeek: 20}},
		Subjects: []Subject{
			{ID: "s1", Code: "A", Kind: SubjectTheory, HoursPerWeek: 1, SessionDuration: 60, RequiredRoomType: RoomClassroom},
			{ID: "s2", Code: "B", Kind: SubjectTheory, HoursPerWeek: 1, SessionDuration: 60, RequiredRoomType: RoomClassroom},
		},
		Rooms:    []Room{{ID: "r1", RoomType: RoomClassroom, Capacity: 50}},
		Groups:   []StudentGroup{{ID: "g1", StudentCount: 30, EnrolledSubjects: []SubjectID{"s1", "s2"}}},
		Settings: AlgorithmSettings{PopulationSize: 20, Generations: 30, EliteSize: 4, TournamentSize: 4},
		Seed:     2,
	}

	out, err := Solve(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected structural error: %v", err)
	}
	if out.Stats.FinalFitness > MaxFitness-50000 {
		t.Fatalf("expected a forced hard-conflict penalty of at least 50000, got fitness %d", out.Stats.FinalFitness)
	}

	foundHardConflict := false
	for _, c := range out.Diagnostics.Conflicts {
		if c.Category == "student_conflict" || c.Category == "teacher_conflict" {
			foundHardConflict = true
		}
	}
	if !foundHardConflict {
		t.Fatalf("expected a student_conflict or teacher_conflict diagnostic, got %+v", out.Diagnostics.Conflicts)
	}
}

// S3 — Lab requires lab room.
func TestSolveS3LabRequiresLabRoom(t *testing.T) {
	in := Input{
		WorkingDays: []string{"Monday"},
		TimeSlots:   []TimeSlot{{ID: "1", StartTime: "08:00", EndTime: "10:00"}},
		Teachers:    []Teacher{{ID: "t1", TeachableSubjects: []string{"DBL"}, MaxHoursPerWeek: 20}},
		Subjects:    []Subject{{ID: "s1", Code: "DBL", Kind: SubjectLab, HoursPerWeek: 2, SessionDuration: 120, RequiredRoomType: RoomLaboratory}},
		Rooms:       []Room{{ID: "r1", RoomType: RoomClassroom, Capacity: 50}},
		Groups:      []StudentGroup{{ID: "g1", StudentCount: 20, EnrolledSubjects: []SubjectID{"s1"}}},
		Settings:    AlgorithmSettings{PopulationSize: 10, Generations: 10, EliteSize: 2, TournamentSize: 3},
		Seed:        3,
	}

	// A lab subject with zero lab rooms in the whole input is not a
	// structural rejection: the seeder falls back to the classroom and the
	// evaluator reports the mismatch as a room_type_violation.
	out, err := Solve(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected structural error: %v", err)
	}
	if out.Stats.FinalFitness > MaxFitness-35000 {
		t.Fatalf("expected a room_type_violation penalty of at least 35000, got fitness %d", out.Stats.FinalFitness)
	}

	foundRoomTypeViolation := false
	for _, c := range out.Diagnostics.Conflicts {
		if c.Category == "room_type_violation" {
			foundRoomTypeViolation = true
			if c.AffectedActivities != 1 {
				t.Fatalf("expected room_type_violation count of 1, got %d", c.AffectedActivities)
			}
		}
	}
	if !foundRoomTypeViolation {
		t.Fatalf("expected a room_type_violation diagnostic, got %+v", out.Diagnostics.Conflicts)
	}
}

// S4 — Session expansion.
func TestSolveS4SessionExpansion(t *testing.T) {
	subjects := []Subject{
		{ID: "theory", Kind: SubjectTheory, HoursPerWeek: 3, SessionDuration: 60},
		{ID: "lab", Kind: SubjectLab, HoursPerWeek: 2, SessionDuration: 120},
	}
	idx := BuildIndices(nil, subjects, nil, nil, nil, LunchWindow{})
	groups := []StudentGroup{{ID: "g1", StudentCount: 10, EnrolledSubjects: []SubjectID{"theory", "lab"}}}

	activities := ExpandActivities(groups, idx)
	theoryCount, labCount := 0, 0
	for _, a := range activities {
		switch a.SubjectID {
		case "theory":
			theoryCount++
			if a.TotalSessions != 3 {
				t.Fatalf("expected theory totalSessions=3, got %d", a.TotalSessions)
			}
		case "lab":
			labCount++
			if a.TotalSessions != 1 {
				t.Fatalf("expected lab totalSessions=1, got %d", a.TotalSessions)
			}
		}
	}
	if theoryCount != 3 {
		t.Fatalf("expected 3 theory activities, got %d", theoryCount)
	}
	if labCount != 1 {
		t.Fatalf("expected 1 lab activity, got %d", labCount)
	}
}

// S5 — Research-day avoidance by seeder (re-verified at the Solve level,
// see TestSeedResearchDayAvoidanceBias for the seeder-level statistics).
func TestSolveS5ResearchDayAvoidanceSurfacesInDiagnostics(t *testing.T) {
	in := Input{
		WorkingDays: []string{"Monday", "Tuesday", "Wednesday"},
		TimeSlots:   []TimeSlot{{ID: "1", StartTime: "08:00", EndTime: "09:00"}},
		Teachers:    []Teacher{{ID: "t1", TeachableSubjects: []string{"A"}, MaxHoursPerWeek: 20, ResearchDays: map[string]bool{"Monday": true}}},
		Subjects:    []Subject{{ID: "s1", Code: "A", Kind: SubjectTheory, HoursPerWeek: 1, SessionDuration: 60, RequiredRoomType: RoomClassroom}},
		Rooms:       []Room{{ID: "r1", RoomType: RoomClassroom, Capacity: 50}},
		Groups:      []StudentGroup{{ID: "g1", StudentCount: 10, EnrolledSubjects: []SubjectID{"s1"}}},
		Settings:    AlgorithmSettings{PopulationSize: 10, Generations: 10, EliteSize: 2, TournamentSize: 3},
		Seed:        5,
	}

	out, err := Solve(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Activities[0].Day == "" {
		t.Fatalf("expected the single activity to be placed")
	}
	if out.Activities[0].Day == "Monday" {
		t.Fatalf("expected the activity to avoid the teacher's Monday research day")
	}
	for _, c := range out.Diagnostics.Conflicts {
		if c.Category == "research_day_violation" {
			t.Fatalf("expected no research_day_violation in diagnostics, got %+v", c)
		}
	}
}

// S6 — Convergence cap: early success stops before exhausting generations.
func TestSolveS6ConvergenceCap(t *testing.T) {
	slots, days := fiveByFiveSchedule()
	in := Input{
		WorkingDays: days,
		TimeSlots:   slots,
		Teachers:    []Teacher{{ID: "t1", TeachableSubjects: []string{"Algo"}, MaxHoursPerWeek: 20}},
		Subjects:    []Subject{{ID: "s1", Code: "Algo", Kind: SubjectTheory, HoursPerWeek: 1, SessionDuration: 60, RequiredRoomType: RoomClassroom}},
		Rooms:       []Room{{ID: "r1", RoomType: RoomClassroom, Capacity: 50}},
		Groups:      []StudentGroup{{ID: "g1", StudentCount: 30, EnrolledSubjects: []SubjectID{"s1"}}},
		Settings:    AlgorithmSettings{PopulationSize: 20, Generations: 150, EliteSize: 4, TournamentSize: 4},
		Seed:        6,
	}

	out, err := Solve(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Stats.ConvergenceAchieved {
		t.Fatalf("expected convergenceAchieved=true once best fitness reaches the threshold")
	}
	if out.Stats.GenerationsRun >= 150 {
		t.Fatalf("expected an early stop well before exhausting all 150 generations, ran %d", out.Stats.GenerationsRun)
	}
}

func TestSolveRejectsUnknownSubjectReference(t *testing.T) {
	in := Input{
		WorkingDays: []string{"Monday"},
		TimeSlots:   []TimeSlot{{ID: "1", StartTime: "08:00", EndTime: "09:00"}},
		Teachers:    []Teacher{{ID: "t1", TeachableSubjects: []string{"A"}}},
		Subjects:    []Subject{{ID: "s1", Code: "A", Kind: SubjectTheory, HoursPerWeek: 1, SessionDuration: 60}},
		Rooms:       []Room{{ID: "r1", RoomType: RoomClassroom, Capacity: 50}},
		Groups:      []StudentGroup{{ID: "g1", StudentCount: 10, EnrolledSubjects: []SubjectID{"unknown"}}},
	}

	_, err := Solve(context.Background(), in)
	if err == nil {
		t.Fatalf("expected a structural error for an unknown subject reference")
	}
}

func TestSolveRejectsSubjectWithNoQualifiedTeacher(t *testing.T) {
	in := Input{
		WorkingDays: []string{"Monday"},
		TimeSlots:   []TimeSlot{{ID: "1", StartTime: "08:00", EndTime: "09:00"}},
		Teachers:    []Teacher{{ID: "t1", TeachableSubjects: []string{"OTHER"}}},
		Subjects:    []Subject{{ID: "s1", Code: "A", Kind: SubjectTheory, HoursPerWeek: 1, SessionDuration: 60, RequiredRoomType: RoomClassroom}},
		Rooms:       []Room{{ID: "r1", RoomType: RoomClassroom, Capacity: 50}},
		Groups:      []StudentGroup{{ID: "g1", StudentCount: 10, EnrolledSubjects: []SubjectID{"s1"}}},
	}

	_, err := Solve(context.Background(), in)
	if err == nil {
		t.Fatalf("expected a structural error when no teacher is qualified for a referenced subject")
	}
}
