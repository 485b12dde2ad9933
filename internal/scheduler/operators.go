package scheduler

import "math/rand"

// TournamentSelect samples k distinct candidates uniformly without
// replacement and returns the fittest. k is capped by the population size.
func TournamentSelect(rng *rand.Rand, population []Chromosome, fitness []int64, k int) Chromosome {
	if k <= 0 || k > len(population) {
		k = len(population)
	}

	indices := rng.Perm(len(population))[:k]
	bestIdx := indices[0]
	for _, i := range indices[1:] {
		if fitness[i] > fitness[bestIdx] {
			bestIdx = i
		}
	}
	return population[bestIdx]
}

// Crossover produces one child via assignment-wise recombination. With
// probability 1-rate it returns a clone of parent1 untouched. Otherwise,
// for each gene position, if exactly one parent's gene is feasible for that
// activity the child inherits that one; if both or neither are feasible the
// gene is chosen uniformly at random between the two.
func Crossover(rng *rand.Rand, parent1, parent2 Chromosome, activities []Activity, eval *Evaluator, rate float64) Chromosome {
	if rng.Float64() >= rate {
		return parent1.Clone()
	}

	n := len(parent1.Genes)
	child := Chromosome{Genes: make([]Gene, n)}

	for i := 0; i < n; i++ {
		g1, g2 := parent1.Genes[i], parent2.Genes[i]
		a := activities[i]

		f1 := eval.IsFeasible(a, g1)
		f2 := eval.IsFeasible(a, g2)

		switch {
		case f1 && !f2:
			child.Genes[i] = g1
		case f2 && !f1:
			child.Genes[i] = g2
		default:
			if rng.Intn(2) == 0 {
				child.Genes[i] = g1
			} else {
				child.Genes[i] = g2
			}
		}
	}

	return child
}

type mutationAxis int

const (
	axisTeacher mutationAxis = iota
	axisRoom
	axisTime
	axisDay
)

// Mutate resamples one axis on each gene independently with probability
// rate. Mutation never checks for resulting conflicts; the evaluator
// penalises whatever it produces.
func Mutate(rng *rand.Rand, c Chromosome, activities []Activity, idx *Indices, rate float64) Chromosome {
	mutated := c.Clone()

	for i := range mutated.Genes {
		if rng.Float64() >= rate {
			continue
		}
		a := activities[i]
		axis := mutationAxis(rng.Intn(4))
		mutateGene(rng, &mutated.Genes[i], a, idx, axis)
	}

	return mutated
}

func mutateGene(rng *rand.Rand, g *Gene, a Activity, idx *Indices, axis mutationAxis) {
	switch axis {
	case axisTeacher:
		if pool := idx.QualifiedTeachersFor(a.SubjectID); len(pool) > 0 {
			g.TeacherID = pool[rng.Intn(len(pool))]
		}
	case axisRoom:
		if pool := idx.SuitableRoomsFor(a.RequiredRoomType, a.StudentCount); len(pool) > 0 {
			g.RoomID = pool[rng.Intn(len(pool))]
		}
	case axisTime:
		if len(idx.SlotOrder) > 0 {
			g.SlotID = idx.SlotOrder[rng.Intn(len(idx.SlotOrder))]
		}
	case axisDay:
		g.Day = randomWorkingDay(rng, idx, g.TeacherID)
	}
}

// randomWorkingDay prefers a non-research day for the gene's teacher; if
// every working day is a research day for them it falls back to uniform
// choice over all working days.
func randomWorkingDay(rng *rand.Rand, idx *Indices, teacherID TeacherID) string {
	if len(idx.WorkingDays) == 0 {
		return ""
	}
	teacher, ok := idx.TeacherByID[teacherID]
	if !ok || len(teacher.ResearchDays) == 0 {
		return idx.WorkingDays[rng.Intn(len(idx.WorkingDays))]
	}

	candidates := make([]string, 0, len(idx.WorkingDays))
	for _, d := range idx.WorkingDays {
		if !teacher.ResearchDays[d] {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return idx.WorkingDays[rng.Intn(len(idx.WorkingDays))]
	}
	return candidates[rng.Intn(len(candidates))]
}
