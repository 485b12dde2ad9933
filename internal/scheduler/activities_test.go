package scheduler

import "testing"

func TestExpandActivitiesTheorySessionCount(t *testing.T) {
	subjects := []Subject{
		{ID: "s1", Code: "ALG", Name: "Algorithms", Kind: SubjectTheory, HoursPerWeek: 3, SessionDuration: 60},
	}
	groups := []StudentGroup{
		{ID: "g1", StudentCount: 30, EnrolledSubjects: []SubjectID{"s1"}},
	}
	idx := BuildIndices(nil, subjects, nil, nil, nil, LunchWindow{})

	activities := ExpandActivities(groups, idx)
	if len(activities) != 3 {
		t.Fatalf("expected 3 activities, got %d", len(activities))
	}
	for i, a := range activities {
		if a.SessionNumber != i+1 || a.TotalSessions != 3 {
			t.Fatalf("activity %d has wrong session metadata: %+v", i, a)
		}
	}
}

func TestExpandActivitiesLabLongDurationSingleSession(t *testing.T) {
	subjects := []Subject{
		{ID: "s2", Code: "DBL", Name: "Databases Lab", Kind: SubjectLab, HoursPerWeek: 2, SessionDuration: 120},
	}
	groups := []StudentGroup{
		{ID: "g1", StudentCount: 25, EnrolledSubjects: []SubjectID{"s2"}},
	}
	idx := BuildIndices(nil, subjects, nil, nil, nil, LunchWindow{})

	activities := ExpandActivities(groups, idx)
	if len(activities) != 1 {
		t.Fatalf("expected exactly 1 activity for a long lab session, got %d", len(activities))
	}
	if activities[0].SessionNumber != 1 || activities[0].TotalSessions != 1 {
		t.Fatalf("expected session 1/1, got %+v", activities[0])
	}
}

func TestExpandActivitiesSkipsUnknownSubjectReference(t *testing.T) {
	subjects := []Subject{{ID: "s1", Kind: SubjectTheory, HoursPerWeek: 1, SessionDuration: 60}}
	groups := []StudentGroup{{ID: "g1", StudentCount: 10, EnrolledSubjects: []SubjectID{"s1", "unknown"}}}
	idx := BuildIndices(nil, subjects, nil, nil, nil, LunchWindow{})

	activities := ExpandActivities(groups, idx)
	if len(activities) != 1 {
		t.Fatalf("expected the unknown subject to be skipped, got %d activities", len(activities))
	}
}

func TestExpandActivitiesIDsAreDenseAndSequential(t *testing.T) {
	subjects := []Subject{
		{ID: "s1", Kind: SubjectTheory, HoursPerWeek: 2, SessionDuration: 60},
		{ID: "s2", Kind: SubjectTheory, HoursPerWeek: 2, SessionDuration: 60},
	}
	groups := []StudentGroup{
		{ID: "g1", StudentCount: 10, EnrolledSubjects: []SubjectID{"s1", "s2"}},
	}
	idx := BuildIndices(nil, subjects, nil, nil, nil, LunchWindow{})

	activities := ExpandActivities(groups, idx)
	for i, a := range activities {
		if a.ID != i+1 {
			t.Fatalf("expected dense 1-based ids, got %+v", activities)
		}
	}
}
