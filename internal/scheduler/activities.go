package scheduler

// ExpandActivities turns every (student-group, enrolled-subject) pair into
// the flat list of atomic Activity records the rest of the core operates
// on. Activity ids are dense and 1-based, assigned sequentially across the
// whole expansion; the assignment fields are left zero-valued (Solve fills
// them from the best chromosome's genes once the search ends).
//
// An enrolled subject id unknown to the subject index is skipped; this
// function never aborts on a single bad reference. Solve's structural
// validation rejects such inputs before expansion runs.
func ExpandActivities(groups []StudentGroup, idx *Indices) []Activity {
	activities := make([]Activity, 0, len(groups)*4)
	nextID := 1

	for _, group := range groups {
		for _, subjectID := range group.EnrolledSubjects {
			subj, ok := idx.SubjectByID[subjectID]
			if !ok {
				continue
			}
			sessions := sessionsNeeded(subj)
			for session := 1; session <= sessions; session++ {
				activities = append(activities, Activity{
					ID:               nextID,
					SubjectID:        subj.ID,
					GroupID:          group.ID,
					Duration:         subj.SessionDuration,
					StudentCount:     group.StudentCount,
					RequiredRoomType: requiredRoomType(subj),
					SessionNumber:    session,
					TotalSessions:    sessions,
				})
				nextID++
			}
		}
	}

	return activities
}

// sessionsNeeded returns the weekly session count: a Lab subject whose
// session runs longer than an hour meets once a week regardless of
// hoursPerWeek; every other subject meets once per declared weekly hour.
func sessionsNeeded(subj Subject) int {
	if subj.Kind == SubjectLab && subj.SessionDuration > 60 {
		return 1
	}
	if subj.HoursPerWeek <= 0 {
		return 0
	}
	return subj.HoursPerWeek
}

func requiredRoomType(subj Subject) RoomType {
	if subj.RequiredRoomType != "" {
		return subj.RequiredRoomType
	}
	return RoomClassroom
}
