package scheduler

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"
)

// Stats reports the evolution driver's run-level outcome, independent of
// the winning chromosome's content.
type Stats struct {
	GenerationsRun       int
	FinalFitness         int64
	PopulationSize       int
	ActivityCount        int
	ExecutionTime        time.Duration
	StagnationAtExit     int
	FitnessHistory       []int64 // last 10 generation-best values
	ConvergenceAchieved  bool
	EarlyStop            bool
}

// Result is the evolution driver's return value: the best chromosome found,
// its fitness, and the run statistics.
type Result struct {
	Best    Chromosome
	Fitness int64
	Stats   Stats
}

// Evolve runs the population loop: evaluate, track the global best, check
// stop conditions, then replace the population via elitism plus
// tournament-select/crossover/mutate until the loop's stop conditions fire
// or generations is exhausted. ctx is checked at the top of every
// generation; a cancelled context returns the current best with a
// truncated stats record rather than advancing a partial generation.
func Evolve(ctx context.Context, activities []Activity, idx *Indices, eval *Evaluator, settings AlgorithmSettings, baseSeed int64) Result {
	settings = settings.withDefaults()

	population := make([]Chromosome, settings.PopulationSize)
	seedRNG := generationRNG(baseSeed, -1)
	for i := range population {
		population[i] = Seed(seedRNG, activities, idx, settings.MaxSeedAttempts)
	}

	var (
		bestChromosome Chromosome
		bestFitness    int64 = -1
		stagnation     int
		history        []int64
		generationsRun int
		convergence    bool
		earlyStop      bool
	)

	start := time.Now()

	for gen := 0; gen < settings.Generations; gen++ {
		if ctx.Err() != nil {
			break
		}

		generationsRun = gen + 1
		fitness := evaluatePopulation(population, eval)

		genBestIdx := 0
		for i := 1; i < len(fitness); i++ {
			if fitness[i] > fitness[genBestIdx] {
				genBestIdx = i
			}
		}
		genBest := fitness[genBestIdx]
		history = append(history, genBest)
		if len(history) > 10 {
			history = history[len(history)-10:]
		}

		if genBest > bestFitness {
			bestFitness = genBest
			bestChromosome = population[genBestIdx].Clone()
			stagnation = 0
		} else {
			stagnation++
		}

		if bestFitness >= settings.EarlySuccessThreshold {
			earlyStop = true
			break
		}
		if stagnation >= settings.MaxStagnationGenerations {
			break
		}

		population = nextGeneration(generationRNG(baseSeed, gen), population, fitness, activities, idx, eval, settings)
	}

	if bestFitness < 0 && len(population) > 0 {
		// Cancelled before the first generation was scored: the current best
		// is the best seeded chromosome.
		fitness := evaluatePopulation(population, eval)
		bestIdx := 0
		for i := 1; i < len(fitness); i++ {
			if fitness[i] > fitness[bestIdx] {
				bestIdx = i
			}
		}
		bestFitness = fitness[bestIdx]
		bestChromosome = population[bestIdx].Clone()
	}

	convergence = bestFitness >= settings.ConvergenceThreshold

	return Result{
		Best:    bestChromosome,
		Fitness: bestFitness,
		Stats: Stats{
			GenerationsRun:      generationsRun,
			FinalFitness:        bestFitness,
			PopulationSize:      settings.PopulationSize,
			ActivityCount:       len(activities),
			ExecutionTime:       time.Since(start),
			StagnationAtExit:    stagnation,
			FitnessHistory:      history,
			ConvergenceAchieved: convergence,
			EarlyStop:           earlyStop,
		},
	}
}

// evaluatePopulation scores every chromosome. Fitness evaluation across a
// generation is independent per chromosome, so it is parallelised across a
// bounded worker pool sized off the host; the variation operators never
// observe this parallelism since their own RNG streams are derived
// separately (rng.go).
func evaluatePopulation(population []Chromosome, eval *Evaluator) []int64 {
	fitness := make([]int64, len(population))
	workers := runtime.GOMAXPROCS(0)
	if workers > len(population) {
		workers = len(population)
	}
	if workers <= 1 {
		for i, c := range population {
			fitness[i] = eval.Fitness(c)
		}
		return fitness
	}

	jobs := make(chan int, len(population))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fitness[i] = eval.Fitness(population[i])
			}
		}()
	}
	for i := range population {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return fitness
}

// nextGeneration carries the top eliteSize chromosomes over unchanged, then
// fills the remainder via tournament-select/crossover/mutate.
func nextGeneration(rng *rand.Rand, population []Chromosome, fitness []int64, activities []Activity, idx *Indices, eval *Evaluator, settings AlgorithmSettings) []Chromosome {
	order := make([]int, len(population))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return fitness[order[i]] > fitness[order[j]] })

	next := make([]Chromosome, 0, settings.PopulationSize)
	eliteSize := settings.EliteSize
	if eliteSize > len(population) {
		eliteSize = len(population)
	}
	for i := 0; i < eliteSize; i++ {
		next = append(next, population[order[i]].Clone())
	}

	for child := 0; len(next) < settings.PopulationSize; child++ {
		cr := childRNGFrom(rng)
		p1 := TournamentSelect(cr, population, fitness, settings.TournamentSize)
		p2 := TournamentSelect(cr, population, fitness, settings.TournamentSize)
		offspring := Crossover(cr, p1, p2, activities, eval, settings.CrossoverRate)
		offspring = Mutate(cr, offspring, activities, idx, settings.MutationRate)
		next = append(next, offspring)
	}

	return next
}

// childRNGFrom draws a fresh independent stream seeded off the
// generation's RNG, so repeated calls within one generation never replay
// the same sequence while the generation's own seed remains reproducible.
func childRNGFrom(gen *rand.Rand) *rand.Rand {
	return rand.New(rand.NewSource(gen.Int63()))
}
