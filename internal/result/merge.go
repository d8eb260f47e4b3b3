package result

// Merge unions the file sets of every word across results into a new Result.
// Inputs are not modified. The operation is associative and commutative, so
// the outcome does not depend on how files were batched or in which order
// batches finished.
func Merge(results ...Result) Result {
	out := make(Result)
	for _, r := range results {
		for w, files := range r {
			if len(files) == 0 {
				continue
			}
			set, ok := out[w]
			if !ok {
				set = make(FileSet, len(files))
				out[w] = set
			}
			for f := range files {
				set[f] = struct{}{}
			}
		}
	}
	return out
}

// MergePartials merges the matches of every partial and concatenates their failures.
func MergePartials(partials []Partial) (Result, []Failure) {
	results := make([]Result, 0, len(partials))
	var failures []Failure
	for _, p := range partials {
		results = append(results, p.Matches)
		failures = append(failures, p.Failures...)
	}
	return Merge(results...), failures
}
