package evalflow

import (
	"encoding/json"
	"strings"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

// calculateMean computes the arithmetic mean of every numeric column of
// the merged evaluator outputs. Metric names are the column names with
// every outputs. occurrence removed. Columns holding anything
// non-numeric are skipped, null cells do not count towards the mean and
// an all-null column produces no metric.
func calculateMean(table *model.Table) map[string]float64 {
	metrics := make(map[string]float64)
	if table == nil {
		return metrics
	}

	for _, col := range table.Columns() {
		mean, ok := columnMean(table.Column(col))
		if !ok {
			continue
		}

		metrics[strings.ReplaceAll(col, model.OutputsPrefix, "")] = mean
	}

	return metrics
}

func columnMean(values []any) (float64, bool) {
	sum := 0.0
	count := 0

	for _, v := range values {
		if v == nil {
			continue
		}

		f, ok := toFloat(v)
		if !ok {
			return 0, false
		}

		sum += f
		count++
	}

	if count == 0 {
		return 0, false
	}

	return sum / float64(count), true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()

		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}

		return 0, true
	default:
		return 0, false
	}
}
