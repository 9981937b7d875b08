package download

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectThreadsForce(t *testing.T) {
	assert.Equal(t, 32, selectThreads(32, 1024, true))
	assert.Equal(t, 1, selectThreads(0, 1024, true))
	assert.Equal(t, 1, selectThreads(-3, 1<<30, true))
}

func TestSelectThreadsSmallFile(t *testing.T) {
	// Anything under 10MiB gets exactly one worker.
	assert.Equal(t, 1, selectThreads(8, 5*1024*1024, false))
	assert.Equal(t, 1, selectThreads(100, 0, false))
	assert.Equal(t, 1, selectThreads(1, 1<<40, false))
}

func TestSelectThreadsClamped(t *testing.T) {
	requested := 8
	totalSize := int64(100 * 1024 * 1024) // size cap of 10
	got := selectThreads(requested, totalSize, false)
	expected := min(requested, min(runtime.NumCPU(), 10))
	assert.Equal(t, expected, got)
	assert.GreaterOrEqual(t, got, 1)
	assert.LessOrEqual(t, got, requested)
}

func TestSelectThreadsMonotonic(t *testing.T) {
	// For a fixed request, more bytes never means fewer workers.
	prev := 0
	for _, size := range []int64{1, 10 << 20, 25 << 20, 100 << 20, 1 << 30, 1 << 34} {
		got := selectThreads(4, size, false)
		assert.GreaterOrEqual(t, got, prev, "size %d", size)
		assert.LessOrEqual(t, got, 4)
		prev = got
	}
}

func TestPlanChunksInvariants(t *testing.T) {
	cases := []struct {
		totalSize int64
		threads   int
	}{
		{1, 1},
		{1, 8},
		{MinChunkSize, 4},
		{MinChunkSize + 1, 4},
		{26214400, 2},
		{26214400, 16},
		{1<<30 + 12345, 7},
	}
	for _, tc := range cases {
		chunks := planChunks(tc.totalSize, tc.threads)
		require.NotEmpty(t, chunks, "totalSize=%d threads=%d", tc.totalSize, tc.threads)
		assert.LessOrEqual(t, int64(len(chunks)), min(int64(tc.threads), tc.totalSize))

		assert.Equal(t, int64(0), chunks[0].Start)
		assert.Equal(t, tc.totalSize-1, chunks[len(chunks)-1].End)
		var sum int64
		for i, chunk := range chunks {
			assert.Equal(t, i, chunk.ID)
			assert.LessOrEqual(t, chunk.Start, chunk.End)
			if i > 0 {
				assert.Equal(t, chunks[i-1].End+1, chunk.Start, "chunks must be contiguous")
			}
			sum += chunk.End - chunk.Start + 1
		}
		assert.Equal(t, tc.totalSize, sum, "chunk sizes must cover the file exactly")
	}
}

func TestPlanChunksSmallFileCollapses(t *testing.T) {
	// A file under 2x MinChunkSize can't be split usefully.
	chunks := planChunks(MinChunkSize+512, 8)
	require.Len(t, chunks, 1)
	assert.Equal(t, int64(0), chunks[0].Start)
	assert.Equal(t, MinChunkSize+511, chunks[0].End)
}

func TestPlanChunksBalancedSplit(t *testing.T) {
	if runtime.NumCPU() < 2 {
		t.Skip("needs at least two CPUs for a two-way split")
	}
	chunks := planChunks(26214400, 2) // 25MiB
	require.Len(t, chunks, 2)
	assert.Equal(t, int64(13107200), chunks[0].End-chunks[0].Start+1)
	assert.Equal(t, int64(13107200), chunks[1].End-chunks[1].Start+1)
}

func TestPlanChunksZero(t *testing.T) {
	assert.Empty(t, planChunks(0, 4))
	assert.Empty(t, planChunks(-5, 4))
}
