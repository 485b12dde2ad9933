package scheduler

import (
	"context"
	"fmt"
	"time"
)

// Input is everything one Solve invocation needs, already mapped from the
// wire-format DTOs into plain scheduler values.
type Input struct {
	WorkingDays []string
	LunchWindow LunchWindow
	TimeSlots   []TimeSlot
	Teachers    []Teacher
	Subjects    []Subject
	Rooms       []Room
	Groups      []StudentGroup

	HardWeights HardWeights
	SoftWeights SoftWeights
	Settings    AlgorithmSettings

	// Seed fixes the run's randomness for reproducible output; zero means
	// "derive a fresh seed" and Solve will not be reproducible across calls.
	Seed int64
}

// Output is Solve's full return value: the realised activities (identity
// plus final assignment), run statistics, and the diagnostic report.
type Output struct {
	Activities  []Activity
	Stats       Stats
	Diagnostics Diagnostics
	Indices     *Indices
}

// StructuralError describes why an input was rejected before solving ever
// began — it is returned as a value, never a panic, per the documented
// error-handling policy.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string { return e.Reason }

// Solve is the one authoritative entrypoint: validate structurally, build
// indices, expand activities, seed and evolve a population, then produce
// diagnostics over the winner. ctx cancellation is honoured by the
// evolution loop (evolution.go); a cancelled context still returns the best
// chromosome found so far, never a partial or truncated result.
func Solve(ctx context.Context, in Input) (*Output, error) {
	if err := validateStructural(in); err != nil {
		return nil, err
	}

	idx := BuildIndices(in.Teachers, in.Subjects, in.Rooms, in.TimeSlots, in.WorkingDays, in.LunchWindow)
	activities := ExpandActivities(in.Groups, idx)
	if len(activities) == 0 {
		return nil, &StructuralError{Reason: "no activities could be derived from the supplied student groups and subjects"}
	}

	eval := NewEvaluator(idx, activities, in.HardWeights, in.SoftWeights)

	seed := in.Seed
	if seed == 0 {
		seed = defaultSeed()
	}

	result := Evolve(ctx, activities, idx, eval, in.Settings, seed)

	realised := realiseActivities(activities, result.Best)
	diag := Diagnose(result.Best, activities, idx, eval)

	return &Output{
		Activities:  realised,
		Stats:       result.Stats,
		Diagnostics: diag,
		Indices:     idx,
	}, nil
}

// realiseActivities folds a chromosome's genes back onto the activity
// descriptor table, producing the fully-assigned activities the output
// record reports.
func realiseActivities(activities []Activity, c Chromosome) []Activity {
	out := make([]Activity, len(activities))
	for i, a := range activities {
		out[i] = a
		if i < len(c.Genes) {
			g := c.Genes[i]
			out[i].TeacherID = g.TeacherID
			out[i].RoomID = g.RoomID
			out[i].Day = g.Day
			out[i].SlotID = g.SlotID
		}
	}
	return out
}

// validateStructural rejects inputs that no amount of searching could ever
// solve: a missing required section, an unknown subject reference, a
// subject with no qualified teacher, or a cohort no room is big enough for.
// A Lab subject with no Laboratory room anywhere in the input is not
// rejected here — the Seeder falls back to any room and the Evaluator
// counts a room_type_violation, so the GA still returns a diagnosable
// result instead of refusing to run.
func validateStructural(in Input) error {
	if len(in.WorkingDays) == 0 {
		return &StructuralError{Reason: "workingDays must not be empty"}
	}
	if len(in.TimeSlots) == 0 {
		return &StructuralError{Reason: "timeSlots must not be empty"}
	}
	if len(in.Teachers) == 0 {
		return &StructuralError{Reason: "teachers must not be empty"}
	}
	if len(in.Rooms) == 0 {
		return &StructuralError{Reason: "rooms must not be empty"}
	}
	if len(in.Groups) == 0 {
		return &StructuralError{Reason: "students must not be empty"}
	}

	subjectByID := make(map[SubjectID]Subject, len(in.Subjects))
	for _, s := range in.Subjects {
		subjectByID[s.ID] = s
	}

	maxCapacity := 0
	for _, r := range in.Rooms {
		if r.Capacity > maxCapacity {
			maxCapacity = r.Capacity
		}
	}

	for _, g := range in.Groups {
		for _, subjectID := range g.EnrolledSubjects {
			if _, ok := subjectByID[subjectID]; !ok {
				return &StructuralError{Reason: fmt.Sprintf("student group %s references unknown subject %s", g.ID, subjectID)}
			}
			if g.StudentCount > maxCapacity {
				return &StructuralError{Reason: fmt.Sprintf("student group %s (%d students) exceeds every room's capacity", g.ID, g.StudentCount)}
			}
		}
	}

	idx := BuildIndices(in.Teachers, in.Subjects, in.Rooms, in.TimeSlots, in.WorkingDays, in.LunchWindow)
	for _, subj := range in.Subjects {
		if len(idx.QualifiedTeachersFor(subj.ID)) == 0 && subjectIsEnrolled(in.Groups, subj.ID) {
			return &StructuralError{Reason: fmt.Sprintf("subject %s has no qualified teacher", subj.Name)}
		}
	}

	return nil
}

func subjectIsEnrolled(groups []StudentGroup, subjectID SubjectID) bool {
	for _, g := range groups {
		for _, s := range g.EnrolledSubjects {
			if s == subjectID {
				return true
			}
		}
	}
	return false
}

// defaultSeed is used only when the caller supplies none. Output is only
// guaranteed reproducible across calls when a seed was explicitly supplied,
// so this simply draws from the wall clock.
func defaultSeed() int64 {
	return time.Now().UnixNano()
}
