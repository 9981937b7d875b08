package download

import "runtime"

// MinChunkSize bounds how small a planned chunk can get, which in turn
// bounds the retry cost of any single chunk.
const MinChunkSize int64 = 1024 * 1024

const bytesPerThread int64 = 10 * 1024 * 1024 // one worker per 10MiB

// Chunk is one inclusive byte range assigned to exactly one worker.
type Chunk struct {
	ID    int
	Start int64
	End   int64
}

// selectThreads reconciles the requested worker count against CPU
// availability and data size. Force skips the tuning and takes the
// caller's number as-is.
func selectThreads(requested int, totalSize int64, force bool) int {
	if requested < 1 {
		requested = 1
	}
	if force {
		return requested
	}
	cpuCap := runtime.NumCPU()
	sizeCap := int(totalSize / bytesPerThread)
	limit := min(cpuCap, sizeCap)
	if limit < 1 {
		limit = 1
	}
	return min(requested, limit)
}

// planChunks splits totalSize bytes into at most threads contiguous,
// non-overlapping, ascending inclusive ranges. All but the last chunk get
// max(MinChunkSize, their even share); the last chunk takes whatever
// remains, so small files degrade to fewer, larger chunks.
func planChunks(totalSize int64, threads int) []Chunk {
	if totalSize <= 0 {
		return nil
	}
	maxReasonable := max(totalSize/MinChunkSize, 1)
	n := int64(threads)
	if n < 1 {
		n = 1
	}
	if n > maxReasonable {
		n = maxReasonable
	}
	if cpus := int64(runtime.NumCPU()); n > cpus {
		n = cpus
	}

	chunks := make([]Chunk, 0, n)
	remaining := totalSize
	var start int64 = 0
	for i := int64(0); i < n && remaining > 0; i++ {
		var size int64
		if i == n-1 {
			size = remaining
		} else {
			size = max(remaining/(n-i), MinChunkSize)
			if size > remaining {
				size = remaining
			}
		}
		chunks = append(chunks, Chunk{
			ID:    int(i),
			Start: start,
			End:   start + size - 1,
		})
		start += size
		remaining -= size
	}
	return chunks
}
