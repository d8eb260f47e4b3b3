// Package batch partitions an ordered file list into contiguous work units.
package batch

import "fmt"

// Split cuts files into contiguous batches of at most size entries.
// Batches keep input order, cover every file exactly once, and only the last
// batch may be shorter. The returned batches share files' backing array.
func Split(files []string, size int) ([][]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", size)
	}

	batches := make([][]string, 0, (len(files)+size-1)/size)
	for start := 0; start < len(files); start += size {
		end := min(start+size, len(files))
		batches = append(batches, files[start:end:end])
	}
	return batches, nil
}

// Size derives a batch size for fileCount files spread over workers, giving
// each worker one batch. The result is always at least 1.
func Size(fileCount, workers int) int {
	if workers <= 0 {
		workers = 1
	}
	size := (fileCount + workers - 1) / workers
	if size < 1 {
		return 1
	}
	return size
}
