package scheduler

// Indices are the immutable lookup tables every downstream component reads.
// Built once per run from the raw input and never mutated afterward.
type Indices struct {
	TeacherByID map[TeacherID]Teacher
	SubjectByID map[SubjectID]Subject
	RoomByID    map[RoomID]Room
	SlotByID    map[SlotID]TimeSlot

	// SlotOrder lists slot ids in working display order; SlotIndex maps a
	// slot id to its 0-based ordinal position in that order. All
	// adjacency/gap arithmetic uses the ordinal, never the slot id itself.
	SlotOrder []SlotID
	SlotIndex map[SlotID]int

	// QualifiedTeachers maps a subject key (code OR name) to the list of
	// teacher ids declaring that key. The map is symmetric: a teacher who
	// names a subject's code is also registered under its name, and vice
	// versa. Duplicates are permitted — the list backs random-choice pools,
	// not set membership.
	QualifiedTeachers map[string][]TeacherID

	// RoomsByType maps a room type to room ids of that type, including
	// cross-compatibility: Auditorium rooms are also registered under
	// Classroom, and Classroom rooms additionally under Theory. Laboratory
	// rooms are registered only under Laboratory.
	RoomsByType map[RoomType][]RoomID

	// rawRoomsByType is the same partition without cross-registration, in
	// input order — used where the exact type (not a compatible substitute)
	// is required, keeping random-choice pools stable across runs.
	rawRoomsByType map[RoomType][]RoomID

	WorkingDays []string
	LunchWindow LunchWindow
}

// BuildIndices constructs every lookup table from the raw entity lists.
func BuildIndices(teachers []Teacher, subjects []Subject, rooms []Room, slots []TimeSlot, workingDays []string, lunch LunchWindow) *Indices {
	idx := &Indices{
		TeacherByID:       make(map[TeacherID]Teacher, len(teachers)),
		SubjectByID:       make(map[SubjectID]Subject, len(subjects)),
		RoomByID:          make(map[RoomID]Room, len(rooms)),
		SlotByID:          make(map[SlotID]TimeSlot, len(slots)),
		SlotOrder:         make([]SlotID, 0, len(slots)),
		SlotIndex:         make(map[SlotID]int, len(slots)),
		QualifiedTeachers: make(map[string][]TeacherID),
		RoomsByType:       make(map[RoomType][]RoomID),
		rawRoomsByType:    make(map[RoomType][]RoomID),
		WorkingDays:       workingDays,
		LunchWindow:       lunch,
	}

	for _, t := range teachers {
		idx.TeacherByID[t.ID] = t
	}
	for _, s := range subjects {
		idx.SubjectByID[s.ID] = s
	}
	for _, r := range rooms {
		idx.RoomByID[r.ID] = r
	}
	for i, s := range slots {
		idx.SlotByID[s.ID] = s
		idx.SlotOrder = append(idx.SlotOrder, s.ID)
		idx.SlotIndex[s.ID] = i
	}

	idx.buildQualifiedTeachers(teachers, subjects)
	idx.buildRoomsByType(rooms)

	return idx
}

// subjectKeyPair returns the code/name pair a subject is addressable by, so
// a declared teachable-identifier can be cross-registered under both.
func subjectKeyPair(subjects []Subject, declared string) (matchedCode, matchedName string, found bool) {
	for _, s := range subjects {
		if s.Code == declared || s.Name == declared {
			return s.Code, s.Name, true
		}
	}
	return "", "", false
}

func (idx *Indices) buildQualifiedTeachers(teachers []Teacher, subjects []Subject) {
	for _, t := range teachers {
		for _, declared := range t.TeachableSubjects {
			if declared == "" {
				continue
			}
			idx.QualifiedTeachers[declared] = append(idx.QualifiedTeachers[declared], t.ID)
			code, name, found := subjectKeyPair(subjects, declared)
			if !found {
				continue
			}
			if code != "" && code != declared {
				idx.QualifiedTeachers[code] = append(idx.QualifiedTeachers[code], t.ID)
			}
			if name != "" && name != declared {
				idx.QualifiedTeachers[name] = append(idx.QualifiedTeachers[name], t.ID)
			}
		}
	}
}

func (idx *Indices) buildRoomsByType(rooms []Room) {
	for _, r := range rooms {
		idx.rawRoomsByType[r.RoomType] = append(idx.rawRoomsByType[r.RoomType], r.ID)
		idx.RoomsByType[r.RoomType] = append(idx.RoomsByType[r.RoomType], r.ID)
		switch r.RoomType {
		case RoomAuditorium:
			idx.RoomsByType[RoomClassroom] = append(idx.RoomsByType[RoomClassroom], r.ID)
			idx.RoomsByType[RoomType("Theory")] = append(idx.RoomsByType[RoomType("Theory")], r.ID)
		case RoomClassroom:
			idx.RoomsByType[RoomType("Theory")] = append(idx.RoomsByType[RoomType("Theory")], r.ID)
		}
	}
}

// QualifiedTeachersFor looks up qualified teachers for a subject, trying the
// code then the name, so either identifier resolves the same pool.
func (idx *Indices) QualifiedTeachersFor(subjectID SubjectID) []TeacherID {
	subj, ok := idx.SubjectByID[subjectID]
	if !ok {
		return nil
	}
	if list, ok := idx.QualifiedTeachers[subj.Code]; ok && len(list) > 0 {
		return list
	}
	return idx.QualifiedTeachers[subj.Name]
}

// SuitableRoomsFor returns rooms matching requiredType and capacity ≥
// studentCount. A Laboratory requirement only ever considers Laboratory
// rooms; every other requirement draws from the union of Classroom,
// Auditorium and Seminar Room, since a room may host many non-lab subjects
// regardless of which of those three types it was requested as.
func (idx *Indices) SuitableRoomsFor(requiredType RoomType, studentCount int) []RoomID {
	var candidates []RoomID
	if requiredType == RoomLaboratory {
		candidates = idx.rawRoomsByType[RoomLaboratory]
	} else {
		seen := make(map[RoomID]bool)
		for _, t := range []RoomType{RoomClassroom, RoomAuditorium, RoomSeminarRoom} {
			for _, rid := range idx.rawRoomsByType[t] {
				if !seen[rid] {
					seen[rid] = true
					candidates = append(candidates, rid)
				}
			}
		}
	}
	out := make([]RoomID, 0, len(candidates))
	for _, rid := range candidates {
		room, ok := idx.RoomByID[rid]
		if !ok {
			continue
		}
		if room.Capacity >= studentCount {
			out = append(out, rid)
		}
	}
	return out
}

// RoomByType returns the rooms actually built with the given type (no
// cross-registration, input order).
func (idx *Indices) RoomByType(t RoomType) []RoomID {
	return idx.rawRoomsByType[t]
}
