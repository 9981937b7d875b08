package download

// Request describes one download operation. It is consumed by a single
// call to Do and never mutated.
type Request struct {
	URL          string
	Destination  string // file path, or an existing directory
	Threads      int
	ForceThreads bool // skip auto-tuning, use Threads as given
	PoolCapacity int  // idle buffers kept by the pool; 0 means default
	BufferSize   int  // bytes per streaming buffer; 0 means default
	UserAgent    string
}

// Result reports a finished download.
type Result struct {
	ThreadsUsed int
	SavePath    string
	FileName    string
}
