package clipboard

const (
	// changePropertyHeader is the fixed size of an X11 ChangeProperty request.
	changePropertyHeader = 24
	// incrChunk caps a single INCR chunk.
	incrChunk = 64 * 1024
)

// maxPropertyChunk returns the largest payload one ChangeProperty request may
// carry on a server whose maximum request length is maxReq 4-byte units.
func maxPropertyChunk(maxReq uint16) int {
	n := int(maxReq)*4 - changePropertyHeader
	if n > incrChunk {
		n = incrChunk
	}
	if n < 4 {
		n = 4
	}
	return n
}

// incrTransfer walks data in chunks for the INCR selection protocol. The
// transfer ends with an empty chunk.
type incrTransfer struct {
	data  []byte
	off   int
	chunk int
}

// next returns the following chunk. last is true for the terminating empty
// chunk, after which the transfer is finished.
func (t *incrTransfer) next() (chunk []byte, last bool) {
	if t.off >= len(t.data) {
		return nil, true
	}
	end := t.off + t.chunk
	if end > len(t.data) {
		end = len(t.data)
	}
	chunk = t.data[t.off:end]
	t.off = end
	return chunk, false
}
