// Package evalflow evaluates a batch of records with user-supplied
// evaluator functions and merges every resulting column, together with
// aggregate metrics, into a single report.
//
// A dataset is loaded from a newline-delimited JSON file into a
// row-indexed table. An optional target callable runs first and
// augments the dataset with generated columns. Every evaluator then
// runs as its own batch job, wired to the dataset and to the target's
// outputs through declarative column mappings such as ${data.question}
// or ${target.answer}. The results are merged strictly by row position:
// the row index assigned at load time is the join key for every merge,
// and a column name shared by two merged tables is always an error,
// never silently resolved.
//
// Evaluator runs are independent of each other and execute
// concurrently. Per-row work inside a run is parallelised as well, with
// the row order of the result reconstructed from the row index rather
// than from completion order. Cancellation of the supplied context
// aborts the remaining work cooperatively.
package evalflow
