package download

// DefaultBufferSize is used when a request doesn't set its own.
const DefaultBufferSize = 1024 * 1024 * 2 // 2MB buffer

// DefaultPoolCapacity is used when a request doesn't set its own.
const DefaultPoolCapacity = 16

// BufferPool is a bounded cache of reusable byte buffers shared by the
// chunk workers. Acquire never blocks (a miss allocates a fresh buffer)
// and Release never fails (a full pool discards the buffer). Overflow is
// a capacity-tuning event, not a download failure.
type BufferPool struct {
	idle       chan []byte
	bufferSize int
}

func NewBufferPool(capacity int, bufferSize int) *BufferPool {
	if capacity < 1 {
		capacity = DefaultPoolCapacity
	}
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	return &BufferPool{
		idle:       make(chan []byte, capacity),
		bufferSize: bufferSize,
	}
}

// Acquire pops an idle buffer, or allocates one on a miss.
func (p *BufferPool) Acquire() []byte {
	select {
	case buf := <-p.idle:
		return buf
	default:
		return make([]byte, p.bufferSize)
	}
}

// Release clears a buffer, restores it to full length, and returns it to
// the idle set. Buffers that don't fit the pool's size, or arrive when
// the pool is full, are dropped for the GC to collect.
func (p *BufferPool) Release(buf []byte) {
	if cap(buf) < p.bufferSize {
		return
	}
	buf = buf[:p.bufferSize]
	clear(buf)
	select {
	case p.idle <- buf:
	default:
	}
}

// BufferSize reports the fixed length of buffers this pool hands out.
func (p *BufferPool) BufferSize() int {
	return p.bufferSize
}
