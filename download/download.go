// Package download implements a concurrent, range-aware HTTP file
// downloader. It probes the origin for byte-range support, partitions the
// transfer into balanced chunks, fetches them in parallel into disjoint
// regions of a preallocated memory-mapped temp file, and atomically
// renames the temp file into place so the destination path never exposes
// a partially written file.
package download

import (
	"fmt"
	"io"
	"net/http"
	u "net/url"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fghdfjhgj/firmget/utils"
)

// TempExtension is appended to the destination name while the transfer is
// in flight. On failure the temp file is left on disk for inspection.
const TempExtension = ".part"

// Do runs one download operation against the given client. The client is
// owned by the caller; this package never constructs or mutates it.
func Do(client *http.Client, req Request) (*Result, error) {
	log := utils.GetLogger("download").With().Str("jobId", uuid.NewString()).Logger()
	if req.Destination == "" {
		return nil, fmt.Errorf("%w: empty destination", ErrInvalidInput)
	}
	if _, err := u.ParseRequestURI(req.URL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = utils.DefaultUserAgent
	}

	outputPath := req.Destination
	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		outputPath = filepath.Join(outputPath, DeriveFilename(req.URL))
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	caps, err := probe(client, req.URL, userAgent)
	if err != nil {
		return nil, err
	}
	pool := NewBufferPool(req.PoolCapacity, req.BufferSize)
	tempPath := outputPath + TempExtension

	tempFile, err := os.OpenFile(tempPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("error creating temp file: %w", err)
	}
	if err := tempFile.Truncate(caps.TotalSize); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("error preallocating temp file: %w", err)
	}

	threadsUsed := 1
	switch {
	case !caps.SupportsRanges:
		log.Debug().Str("url", req.URL).Msg("Server doesn't support ranges, using single stream")
		err = singleStream(client, req.URL, userAgent, tempFile, pool)
	case caps.TotalSize == 0:
		// Nothing to transfer; publish the empty preallocation.
	default:
		threadsUsed, err = parallelDownload(client, req.URL, userAgent, caps.TotalSize, req, tempFile, pool)
	}
	if cerr := tempFile.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("error closing temp file: %w", cerr)
	}
	if err != nil {
		// The temp file stays on disk for caller inspection.
		return nil, err
	}

	if err := validateSize(tempPath, caps.TotalSize); err != nil {
		return nil, err
	}
	if err := os.Rename(tempPath, outputPath); err != nil {
		return nil, fmt.Errorf("error renaming (finalizing) output file: %w", err)
	}
	log.Debug().Str("path", outputPath).Int("threads", threadsUsed).Msg("Download completed")
	return &Result{
		ThreadsUsed: threadsUsed,
		SavePath:    outputPath,
		FileName:    filepath.Base(outputPath),
	}, nil
}

// singleStream copies one unranged GET straight into the temp file,
// bypassing the mapping.
func singleStream(client *http.Client, url string, userAgent string, tempFile *os.File, pool *BufferPool) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("error creating GET request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Connection", "keep-alive")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error executing GET request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	buffer := pool.Acquire()
	defer pool.Release(buffer)
	if _, err := io.CopyBuffer(tempFile, resp.Body, buffer); err != nil {
		return fmt.Errorf("error writing to temp file: %w", err)
	}
	return nil
}

// parallelDownload maps the preallocated temp file, splits the mapping at
// chunk-plan boundaries, and runs one worker per chunk. Every worker runs
// to success or retry exhaustion before the first failure is reported.
func parallelDownload(client *http.Client, url string, userAgent string, totalSize int64, req Request, tempFile *os.File, pool *BufferPool) (int, error) {
	threads := selectThreads(req.Threads, totalSize, req.ForceThreads)
	chunks := planChunks(totalSize, threads)

	mapped, err := mmap.Map(tempFile, mmap.RDWR, 0)
	if err != nil {
		return 0, fmt.Errorf("error mapping temp file: %w", err)
	}

	// Split the mapping once, before any worker starts. Each worker gets
	// a capped sub-slice it exclusively owns; the regions cannot overlap.
	regions := make([][]byte, len(chunks))
	rest := []byte(mapped)
	for i, chunk := range chunks {
		size := chunk.End - chunk.Start + 1
		regions[i] = rest[:size:size]
		rest = rest[size:]
	}

	var eg errgroup.Group
	for i := range chunks {
		chunk, region := chunks[i], regions[i]
		eg.Go(func() error {
			return downloadChunk(client, url, userAgent, chunk, region, pool)
		})
	}
	if err := eg.Wait(); err != nil {
		mapped.Unmap()
		return 0, err
	}
	if err := mapped.Flush(); err != nil {
		mapped.Unmap()
		return 0, fmt.Errorf("error flushing mapped file: %w", err)
	}
	if err := mapped.Unmap(); err != nil {
		return 0, fmt.Errorf("error unmapping temp file: %w", err)
	}
	return len(chunks), nil
}

// validateSize re-reads the file's length from the filesystem and
// requires an exact match with what the server reported.
func validateSize(path string, expected int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error checking temp file: %w", err)
	}
	if info.Size() != expected {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrValidationFailed, expected, info.Size())
	}
	return nil
}
