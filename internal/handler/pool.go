package handler

import (
	"bytes"
	"sync"
)

// responseBufferSize covers a full inventory snapshot response without
// growing in the common case.
const responseBufferSize = 1024

// bufferPool recycles buffers used for JSON response encoding.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, responseBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	bufferPool.Put(buf)
}
