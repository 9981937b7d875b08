package download

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/fghdfjhgj/firmget/utils"
)

// ServerCapabilities is what one HEAD request tells us about the origin.
type ServerCapabilities struct {
	TotalSize      int64
	SupportsRanges bool
}

// probe issues a HEAD request and reads the Accept-Ranges and
// Content-Length headers. A missing or unparsable length is a hard error;
// the engine never starts a transfer of unknown length.
func probe(client *http.Client, url string, userAgent string) (ServerCapabilities, error) {
	log := utils.GetLogger("probe")
	req, err := http.NewRequest("HEAD", url, nil)
	if err != nil {
		return ServerCapabilities{}, fmt.Errorf("error creating HEAD request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return ServerCapabilities{}, fmt.Errorf("error executing HEAD request: %w", err)
	}
	defer resp.Body.Close()

	// Anything other than the literal "bytes" token counts as unsupported.
	caps := ServerCapabilities{
		SupportsRanges: resp.Header.Get("Accept-Ranges") == "bytes",
	}
	contentLength := resp.Header.Get("Content-Length")
	if contentLength == "" {
		return ServerCapabilities{}, ErrMissingLength
	}
	size, err := strconv.ParseInt(contentLength, 10, 64)
	if err != nil || size < 0 {
		return ServerCapabilities{}, ErrMissingLength
	}
	caps.TotalSize = size
	log.Debug().Int64("size", caps.TotalSize).Bool("ranges", caps.SupportsRanges).Msg("Probed server capabilities")
	return caps, nil
}
