package model

const (
	// InputsPrefix marks columns that came from the dataset or the caller.
	InputsPrefix = "inputs."
	// OutputsPrefix marks columns produced by a run.
	OutputsPrefix = "outputs."

	// LineNumberField is the row index field attached to every run result.
	LineNumberField = "line_number"
	// LineNumberColumn is the prefixed form the field takes in a result table.
	LineNumberColumn = InputsPrefix + LineNumberField
)

// ColumnMapping wires the inputs of a callable to dataset columns or to
// the outputs of a previous run. Keys are destination field names, values
// are expressions such as ${data.question} or ${run.outputs.answer}.
type ColumnMapping map[string]string

// Clone returns a copy of the mapping.
func (m ColumnMapping) Clone() ColumnMapping {
	if m == nil {
		return nil
	}

	out := make(ColumnMapping, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}
