package autoscaler

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkers(t *testing.T) {
	t.Parallel()
	hostDefault := perCPU * runtime.GOMAXPROCS(0)

	testCases := map[string]struct {
		configured int
		rows       int
		expected   int
	}{
		"configured wins":            {configured: 4, rows: 2, expected: 4},
		"capped by rows":             {configured: 0, rows: 1, expected: 1},
		"defaults to host":           {configured: 0, rows: 1 << 20, expected: hostDefault},
		"negative falls back":        {configured: -3, rows: 1 << 20, expected: hostDefault},
		"no rows still runs one job": {configured: 0, rows: 0, expected: hostDefault},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, Workers(testCase.configured, testCase.rows))
		})
	}
}
