package execshell

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// passthroughWriter forwards subprocess output to the operator and flushes buffered destinations after every chunk.
type passthroughWriter struct {
	destination io.Writer
	mutex       sync.Mutex
}

func newPassthroughWriter(destination io.Writer) io.Writer {
	if destination == nil {
		return nil
	}
	if existing, alreadyWrapped := destination.(*passthroughWriter); alreadyWrapped {
		return existing
	}
	return &passthroughWriter{destination: destination}
}

func (writer *passthroughWriter) Write(data []byte) (int, error) {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if flushableDestination, flushable := writer.destination.(flusher); flushable {
		if flushError := flushableDestination.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}
	return bytesWritten, nil
}
