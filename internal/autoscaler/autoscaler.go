// Package autoscaler selects worker counts for batch runs.
package autoscaler

import "runtime"

const perCPU = 2

// Workers returns the number of workers to run a batch of the given
// number of rows with. A configured value greater than zero always wins.
// Otherwise the count scales with the host and is capped by the number
// of rows, so a run never starts idle workers.
func Workers(configured, rows int) int {
	if configured > 0 {
		return configured
	}

	workers := perCPU * runtime.GOMAXPROCS(0)
	if rows > 0 && workers > rows {
		workers = rows
	}
	if workers < 1 {
		workers = 1
	}

	return workers
}
