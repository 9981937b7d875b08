package download

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fghdfjhgj/firmget/utils"
)

const maxChunkRetries = 3

// downloadChunk fetches one byte range into its exclusive region of the
// mapped file, retrying up to maxChunkRetries times. The region is the
// worker's alone; nothing outside it is ever touched.
func downloadChunk(client *http.Client, url string, userAgent string, chunk Chunk, region []byte, pool *BufferPool) error {
	log := utils.GetLogger("chunk").With().Int("chunkId", chunk.ID).Logger()
	expected := chunk.End - chunk.Start + 1
	var lastErr error
	for attempt := 1; attempt <= maxChunkRetries; attempt++ {
		if attempt > 1 {
			log.Debug().Int("attempt", attempt).Int("maxRetries", maxChunkRetries).Msg("Retrying download of chunk")
			time.Sleep(time.Duration(attempt-1) * 500 * time.Millisecond) // Backoff
		}
		written, err := fetchChunk(client, url, userAgent, chunk, region, pool)
		if err == nil && written == expected {
			log.Debug().Int64("bytes", written).Msg("Chunk download completed")
			return nil
		}
		if err == nil {
			err = fmt.Errorf("size mismatch: expected %d bytes, got %d", expected, written)
		}
		lastErr = err
		log.Debug().Err(err).Int("attempt", attempt).Msg("Error downloading chunk")
	}
	return &ChunkError{ID: chunk.ID, Start: chunk.Start, End: chunk.End, Err: lastErr}
}

// fetchChunk performs a single ranged GET attempt, streaming the body
// through a pooled buffer into successive positions of region. It returns
// how many bytes landed in region.
func fetchChunk(client *http.Client, url string, userAgent string, chunk Chunk, region []byte, pool *BufferPool) (int64, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", chunk.Start, chunk.End))
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Connection", "keep-alive")
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusPartialContent {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	buffer := pool.Acquire()
	defer pool.Release(buffer)
	var written int64 = 0
	for {
		bytesRead, err := resp.Body.Read(buffer)
		if bytesRead > 0 {
			if written+int64(bytesRead) > int64(len(region)) {
				return written, errors.New("server returned more bytes than requested range")
			}
			copy(region[written:], buffer[:bytesRead])
			written += int64(bytesRead)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return written, err
		}
	}
	return written, nil
}
