package scheduler

import (
	"math/rand"
	"testing"
)

func seedFixture() (*Indices, []Activity) {
	teachers := []Teacher{
		{ID: "t1", TeachableSubjects: []string{"ALG"}, MaxHoursPerWeek: 40},
		{ID: "t2", TeachableSubjects: []string{"ALG"}, MaxHoursPerWeek: 40},
	}
	subjects := []Subject{
		{ID: "s1", Code: "ALG", Kind: SubjectTheory, HoursPerWeek: 2, SessionDuration: 60, RequiredRoomType: RoomClassroom},
	}
	rooms := []Room{{ID: "r1", RoomType: RoomClassroom, Capacity: 50}, {ID: "r2", RoomType: RoomClassroom, Capacity: 50}}
	slots := []TimeSlot{
		{ID: "1", StartTime: "08:00", EndTime: "09:00"},
		{ID: "2", StartTime: "09:00", EndTime: "10:00"},
		{ID: "3", StartTime: "10:00", EndTime: "11:00"},
	}
	days := []string{"Monday", "Tuesday", "Wednesday"}
	idx := BuildIndices(teachers, subjects, rooms, slots, days, LunchWindow{})

	groups := []StudentGroup{{ID: "g1", StudentCount: 30, EnrolledSubjects: []SubjectID{"s1"}}}
	activities := ExpandActivities(groups, idx)
	return idx, activities
}

func TestSeedProducesNoNullAssignments(t *testing.T) {
	idx, activities := seedFixture()
	rng := rand.New(rand.NewSource(1))

	c := Seed(rng, activities, idx, 50)
	if len(c.Genes) != len(activities) {
		t.Fatalf("expected %d genes, got %d", len(activities), len(c.Genes))
	}
	for i, g := range c.Genes {
		if !g.isAssigned() {
			t.Fatalf("gene %d left unassigned: %+v", i, g)
		}
	}
}

func TestSeedPreservesActivityPositionalOrder(t *testing.T) {
	idx, activities := seedFixture()
	rng := rand.New(rand.NewSource(7))

	c := Seed(rng, activities, idx, 50)
	// gene at position i must belong to activities[i] (same id-1 index).
	if len(c.Genes) != len(activities) {
		t.Fatalf("length mismatch")
	}

	// Seeding visits lab activities first; a theory activity listed before a
	// lab one must still own the gene at its own position.
	teachers := []Teacher{{ID: "t1", TeachableSubjects: []string{"ALG", "NET"}, MaxHoursPerWeek: 40}}
	subjects := []Subject{
		{ID: "s1", Code: "ALG", Kind: SubjectTheory, HoursPerWeek: 1, SessionDuration: 60, RequiredRoomType: RoomClassroom},
		{ID: "s2", Code: "NET", Kind: SubjectLab, HoursPerWeek: 1, SessionDuration: 60, RequiredRoomType: RoomLaboratory},
	}
	rooms := []Room{{ID: "class", RoomType: RoomClassroom, Capacity: 50}, {ID: "lab", RoomType: RoomLaboratory, Capacity: 50}}
	slots := []TimeSlot{{ID: "1", StartTime: "08:00", EndTime: "09:00"}, {ID: "2", StartTime: "09:00", EndTime: "10:00"}}
	mixedIdx := BuildIndices(teachers, subjects, rooms, slots, []string{"Monday"}, LunchWindow{})
	mixed := ExpandActivities([]StudentGroup{{ID: "g1", StudentCount: 10, EnrolledSubjects: []SubjectID{"s1", "s2"}}}, mixedIdx)
	mc := Seed(rng, mixed, mixedIdx, 50)
	for i, a := range mixed {
		want := RoomID("class")
		if a.RequiredRoomType == RoomLaboratory {
			want = "lab"
		}
		if mc.Genes[i].RoomID != want {
			t.Fatalf("gene %d placed in room %s, expected %s for activity %d", i, mc.Genes[i].RoomID, want, a.ID)
		}
	}
}

func TestSeedResearchDayAvoidanceBias(t *testing.T) {
	teachers := []Teacher{{ID: "t1", TeachableSubjects: []string{"ALG"}, MaxHoursPerWeek: 40, ResearchDays: map[string]bool{"Monday": true}}}
	subjects := []Subject{{ID: "s1", Code: "ALG", Kind: SubjectTheory, HoursPerWeek: 1, SessionDuration: 60, RequiredRoomType: RoomClassroom}}
	rooms := []Room{{ID: "r1", RoomType: RoomClassroom, Capacity: 50}}
	slots := []TimeSlot{{ID: "1", StartTime: "08:00", EndTime: "09:00"}}
	days := []string{"Monday", "Tuesday"}
	idx := BuildIndices(teachers, subjects, rooms, slots, days, LunchWindow{})

	groups := []StudentGroup{{ID: "g1", StudentCount: 10, EnrolledSubjects: []SubjectID{"s1"}}}
	activities := ExpandActivities(groups, idx)

	mondayCount := 0
	trials := 100
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < trials; i++ {
		c := Seed(rng, activities, idx, 50)
		if c.Genes[0].Day == "Monday" {
			mondayCount++
		}
	}

	if float64(mondayCount)/float64(trials) >= 0.10 {
		t.Fatalf("expected research-day avoidance bias, got monday fraction %f", float64(mondayCount)/float64(trials))
	}
}

func TestSeedFallsBackArbitrarilyWhenNoQualifiedTeacher(t *testing.T) {
	teachers := []Teacher{{ID: "t1", TeachableSubjects: []string{"OTHER"}, MaxHoursPerWeek: 40}}
	subjects := []Subject{{ID: "s1", Code: "ALG", Kind: SubjectTheory, HoursPerWeek: 1, SessionDuration: 60, RequiredRoomType: RoomClassroom}}
	rooms := []Room{{ID: "r1", RoomType: RoomClassroom, Capacity: 50}}
	slots := []TimeSlot{{ID: "1", StartTime: "08:00", EndTime: "09:00"}}
	idx := BuildIndices(teachers, subjects, rooms, slots, []string{"Monday"}, LunchWindow{})

	groups := []StudentGroup{{ID: "g1", StudentCount: 10, EnrolledSubjects: []SubjectID{"s1"}}}
	activities := ExpandActivities(groups, idx)

	rng := rand.New(rand.NewSource(3))
	c := Seed(rng, activities, idx, 50)
	if !c.Genes[0].isAssigned() {
		t.Fatalf("expected a fallback placement even without a qualified teacher, got %+v", c.Genes[0])
	}
	if c.Genes[0].TeacherID != "t1" {
		t.Fatalf("expected fallback to pick the only available teacher, got %s", c.Genes[0].TeacherID)
	}
}
