package variable

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// DefaultChunkSize is the read granularity used when draining a stream.
const DefaultChunkSize = 4 << 10

var errAccumulatorReleased = errors.New("accumulator released")

// accumulator collects ingested chunks. Close releases its memory and must be called on
// every exit path of ingest.
type accumulator interface {
	io.Writer
	Bytes() []byte
	Close() error
}

type memoryAccumulator struct {
	buf *bytes.Buffer
}

func newMemoryAccumulator() accumulator {
	return &memoryAccumulator{buf: new(bytes.Buffer)}
}

func (a *memoryAccumulator) Write(p []byte) (int, error) {
	if a.buf == nil {
		return 0, errAccumulatorReleased
	}
	return a.buf.Write(p)
}

func (a *memoryAccumulator) Bytes() []byte {
	if a.buf == nil {
		return nil
	}
	return a.buf.Bytes()
}

// Close drops the buffer; slices returned by Bytes stay valid.
func (a *memoryAccumulator) Close() error {
	a.buf = nil
	return nil
}

// ingest drains r chunk by chunk until io.EOF. Short and zero-length reads keep the loop
// going. A release failure replaces whatever the loop returned.
func (b *FileValueBuilder) ingest(r io.Reader) (data []byte, err error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil stream", ErrInvalidArgument)
	}

	acc := b.newAccumulator()
	defer func() {
		if closeErr := acc.Close(); closeErr != nil {
			data = nil
			err = fmt.Errorf("%w: release buffer: %w", ErrIngestionFailure, closeErr)
		}
	}()

	chunk := make([]byte, b.chunkSize)
	for {
		n, readErr := r.Read(chunk)
		if n > 0 {
			if _, err := acc.Write(chunk[:n]); err != nil {
				return nil, fmt.Errorf("%w: buffer chunk: %w", ErrIngestionFailure, err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("%w: read stream: %w", ErrIngestionFailure, readErr)
		}
	}

	data = acc.Bytes()
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
