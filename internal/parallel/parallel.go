// Package parallel provides the bounded chunked-range helper behind the
// data-parallel loops in commitment building, domain transforms and
// constraint evaluation.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Execute splits [0, nbIterations) into contiguous chunks and runs work on
// each chunk concurrently. work must only touch state addressed by its own
// index range; callers rely on the result being bit-identical to a serial
// run.
func Execute(nbIterations int, work func(start, end int), maxCpus ...int) {
	if nbIterations <= 0 {
		return
	}

	nbTasks := runtime.NumCPU()
	if len(maxCpus) == 1 && maxCpus[0] > 0 {
		nbTasks = maxCpus[0]
	}

	nbIterationsPerCpus := nbIterations / nbTasks
	if nbIterationsPerCpus < 1 {
		nbIterationsPerCpus = 1
		nbTasks = nbIterations
	}

	var g errgroup.Group
	g.SetLimit(nbTasks)

	extraTasks := nbIterations - (nbTasks * nbIterationsPerCpus)
	extraTasksOffset := 0

	for i := 0; i < nbTasks; i++ {
		start := i*nbIterationsPerCpus + extraTasksOffset
		end := start + nbIterationsPerCpus
		if extraTasks > 0 {
			end++
			extraTasks--
			extraTasksOffset++
		}
		g.Go(func() error {
			work(start, end)
			return nil
		})
	}

	// The workers never return errors; Wait only joins them.
	_ = g.Wait()
}
