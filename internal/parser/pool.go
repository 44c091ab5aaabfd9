package parser

import "sync"

// bytePool holds []byte buffers used to accumulate field content and
// pending leading whitespace.
var bytePool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 64)
		return &b
	},
}

// getBytes gets a []byte buffer from the pool with length 0.
func getBytes() []byte {
	p := bytePool.Get().(*[]byte)
	return (*p)[:0]
}

// putBytes returns a buffer to the pool.
func putBytes(buf []byte) {
	// Do not keep buffers grown by a huge field.
	const maxCapacity = 16384
	if buf == nil || cap(buf) > maxCapacity {
		return
	}
	buf = buf[:0]
	bytePool.Put(&buf)
}
