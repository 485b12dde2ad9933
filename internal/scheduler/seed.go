package scheduler

import (
	"math/rand"
	"sort"
)

// occupancy tracks in-progress (entity, day, slot) bookings during seeding.
// A fresh set is built per chromosome — seeding never shares state across
// seed attempts, so there are no back-pointers between activities and
// teacher/room schedules.
type occupancy struct {
	teacher map[string]bool
	room    map[string]bool
	group   map[string]bool
}

func newOccupancy() *occupancy {
	return &occupancy{
		teacher: make(map[string]bool),
		room:    make(map[string]bool),
		group:   make(map[string]bool),
	}
}

func (o *occupancy) conflicts(teacherKey, roomKey, groupKey string) bool {
	return o.teacher[teacherKey] || o.room[roomKey] || o.group[groupKey]
}

func (o *occupancy) reserve(teacherKey, roomKey, groupKey string) {
	o.teacher[teacherKey] = true
	o.room[roomKey] = true
	o.group[groupKey] = true
}

// Seed produces one initial chromosome via greedy conflict-avoiding
// placement. It is biased toward feasibility, not optimality — the
// evolutionary loop is responsible for the rest of the climb.
func Seed(rng *rand.Rand, activities []Activity, idx *Indices, maxAttempts int) Chromosome {
	if maxAttempts <= 0 {
		maxAttempts = 50
	}

	ordered := sortedForSeeding(activities)
	genes := make([]Gene, len(activities))
	occ := newOccupancy()

	for _, a := range ordered {
		qualified := idx.QualifiedTeachersFor(a.SubjectID)
		rooms := idx.SuitableRoomsFor(a.RequiredRoomType, a.StudentCount)

		gene, ok := attemptPlacement(rng, a, idx, qualified, rooms, occ, maxAttempts)
		if !ok {
			gene = arbitraryPlacement(rng, a, idx, qualified, rooms)
		}

		genes[a.ID-1] = gene
		occ.reserve(
			teacherSlotKey(gene.TeacherID, gene.Day, gene.SlotID),
			roomSlotKey(gene.RoomID, gene.Day, gene.SlotID),
			groupSlotKey(a.GroupID, gene.Day, gene.SlotID),
		)
	}

	return Chromosome{Genes: genes}
}

// sortedForSeeding orders Lab sessions and large cohorts first, since they
// have the smallest feasible option set and should claim scarce resources
// before the easier-to-place activities arrive.
func sortedForSeeding(activities []Activity) []Activity {
	ordered := append([]Activity(nil), activities...)
	sort.SliceStable(ordered, func(i, j int) bool {
		iLab := ordered[i].RequiredRoomType == RoomLaboratory
		jLab := ordered[j].RequiredRoomType == RoomLaboratory
		if iLab != jLab {
			return iLab
		}
		return ordered[i].StudentCount > ordered[j].StudentCount
	})
	return ordered
}

// attemptPlacement tries up to maxAttempts random placements, rejecting
// research-day conflicts in the first half of attempts, and accepts the
// first placement clear of every occupancy set.
func attemptPlacement(rng *rand.Rand, a Activity, idx *Indices, qualified []TeacherID, rooms []RoomID, occ *occupancy, maxAttempts int) (Gene, bool) {
	if len(qualified) == 0 || len(rooms) == 0 || len(idx.WorkingDays) == 0 || len(idx.SlotOrder) == 0 {
		return Gene{}, false
	}

	avoidResearchDayUntil := maxAttempts / 2

	for attempt := 0; attempt < maxAttempts; attempt++ {
		teacherID := qualified[rng.Intn(len(qualified))]
		roomID := rooms[rng.Intn(len(rooms))]
		day := idx.WorkingDays[rng.Intn(len(idx.WorkingDays))]
		slot := idx.SlotOrder[rng.Intn(len(idx.SlotOrder))]

		if attempt < avoidResearchDayUntil {
			if teacher, ok := idx.TeacherByID[teacherID]; ok && teacher.ResearchDays[day] {
				continue
			}
		}

		teacherKey := teacherSlotKey(teacherID, day, slot)
		roomKey := roomSlotKey(roomID, day, slot)
		groupKey := groupSlotKey(a.GroupID, day, slot)

		if occ.conflicts(teacherKey, roomKey, groupKey) {
			continue
		}

		return Gene{TeacherID: teacherID, RoomID: roomID, Day: day, SlotID: slot}, true
	}

	return Gene{}, false
}

// arbitraryPlacement commits a placement even if it conflicts, because an
// activity left ungened would break every invariant downstream — the
// evolutionary loop can repair conflicts but never a missing gene. When the
// qualified or suitable pool is empty it falls back to the full teacher or
// room list so it never index-zeros an empty slice, instead letting the
// resulting hard violation surface through the fitness score.
func arbitraryPlacement(rng *rand.Rand, a Activity, idx *Indices, qualified []TeacherID, rooms []RoomID) Gene {
	teacherPool := qualified
	if len(teacherPool) == 0 {
		teacherPool = allTeacherIDs(idx)
	}
	roomPool := rooms
	if len(roomPool) == 0 {
		roomPool = allRoomIDs(idx)
	}

	var gene Gene
	if len(teacherPool) > 0 {
		gene.TeacherID = teacherPool[rng.Intn(len(teacherPool))]
	}
	if len(roomPool) > 0 {
		gene.RoomID = roomPool[rng.Intn(len(roomPool))]
	}
	if len(idx.WorkingDays) > 0 {
		gene.Day = idx.WorkingDays[rng.Intn(len(idx.WorkingDays))]
	}
	if len(idx.SlotOrder) > 0 {
		gene.SlotID = idx.SlotOrder[rng.Intn(len(idx.SlotOrder))]
	}
	return gene
}

func allTeacherIDs(idx *Indices) []TeacherID {
	ids := make([]TeacherID, 0, len(idx.TeacherByID))
	for id := range idx.TeacherByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func allRoomIDs(idx *Indices) []RoomID {
	ids := make([]RoomID, 0, len(idx.RoomByID))
	for id := range idx.RoomByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
