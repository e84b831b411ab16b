package variable

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding"
)

// ObjectSource opens objects held in an object store. The returned body is closed by the
// caller; contentType may be empty.
type ObjectSource interface {
	GetObject(ctx context.Context, bucket, key string) (body io.ReadCloser, contentType string, err error)
}

// Option tunes a FileValueBuilder.
type Option func(*FileValueBuilder)

// WithChunkSize sets the read granularity for stream ingestion. Non-positive sizes keep
// DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(b *FileValueBuilder) {
		if size > 0 {
			b.chunkSize = size
		}
	}
}

// FileValueBuilder assembles a FileValue step by step. Every method returns the builder so
// calls chain; the first failing step is kept and reported by Build, and the steps after it
// do nothing. Input operations are last-write-wins. A builder is single-use and is not safe
// for concurrent use.
type FileValueBuilder struct {
	value          *FileValue
	chunkSize      int
	newAccumulator func() accumulator

	err   error
	spent bool
}

// NewFileValueBuilder starts a file value with the given name. Every name is accepted,
// including the empty string.
func NewFileValueBuilder(name string, opts ...Option) *FileValueBuilder {
	b := &FileValueBuilder{
		chunkSize:      DefaultChunkSize,
		newAccumulator: newMemoryAccumulator,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	b.value = &FileValue{name: name}
	return b
}

// Err returns the failure recorded so far, if any.
func (b *FileValueBuilder) Err() error {
	if b == nil {
		return fmt.Errorf("%w: nil builder", ErrInvalidArgument)
	}
	if b.err == nil && b.spent {
		return ErrBuilderSpent
	}
	return b.err
}

func (b *FileValueBuilder) usable() bool {
	if b.err != nil {
		return false
	}
	if b.spent {
		b.err = ErrBuilderSpent
		return false
	}
	return true
}

// WithMimeType sets or replaces the MIME type. The text is not validated.
func (b *FileValueBuilder) WithMimeType(mimeType string) *FileValueBuilder {
	if b == nil || !b.usable() {
		return b
	}
	b.value.mimeType = mimeType
	return b
}

// WithEncoding sets or replaces the text encoding from a structured handle.
func (b *FileValueBuilder) WithEncoding(enc encoding.Encoding) *FileValueBuilder {
	if b == nil || !b.usable() {
		return b
	}
	name, err := EncodingName(enc)
	if err != nil {
		b.err = err
		return b
	}
	b.value.encoding = name
	return b
}

// WithEncodingName sets or replaces the text encoding by name. The name is stored as given.
func (b *FileValueBuilder) WithEncodingName(name string) *FileValueBuilder {
	if b == nil || !b.usable() {
		return b
	}
	b.value.encoding = name
	return b
}

// WithDetectedMimeType sniffs the MIME type from the payload when a payload is present and
// no MIME type has been set.
func (b *FileValueBuilder) WithDetectedMimeType() *FileValueBuilder {
	if b == nil || !b.usable() {
		return b
	}
	if !b.value.hasPayload || b.value.mimeType != "" {
		return b
	}
	b.value.mimeType = mimetype.Detect(b.value.payload).String()
	return b
}

// FromFile reads the file at path into the payload. The file is opened and closed here.
func (b *FileValueBuilder) FromFile(path string) *FileValueBuilder {
	if b == nil || !b.usable() {
		return b
	}

	file, err := os.Open(path)
	if err != nil {
		b.err = fmt.Errorf("%w: open %q: %w", ErrSourceUnavailable, path, err)
		return b
	}

	data, err := b.ingest(file)
	if closeErr := file.Close(); closeErr != nil {
		err = fmt.Errorf("%w: close %q: %w", ErrIngestionFailure, path, closeErr)
	}
	if err != nil {
		b.err = err
		return b
	}

	return b.FromBytes(data)
}

// FromStream drains r into the payload. Closing r stays with the caller.
func (b *FileValueBuilder) FromStream(r io.Reader) *FileValueBuilder {
	if b == nil || !b.usable() {
		return b
	}

	data, err := b.ingest(r)
	if err != nil {
		b.err = err
		return b
	}

	return b.FromBytes(data)
}

// FromObject drains an object-store object into the payload and closes its body. The
// object's content type is used when no MIME type has been set.
func (b *FileValueBuilder) FromObject(ctx context.Context, src ObjectSource, bucket, key string) *FileValueBuilder {
	if b == nil || !b.usable() {
		return b
	}
	if src == nil {
		b.err = fmt.Errorf("%w: nil object source", ErrInvalidArgument)
		return b
	}

	body, contentType, err := src.GetObject(ctx, bucket, key)
	if err != nil {
		b.err = fmt.Errorf("%w: get s3://%s/%s: %w", ErrSourceUnavailable, bucket, key, err)
		return b
	}
	if body == nil {
		b.err = fmt.Errorf("%w: get s3://%s/%s: no body", ErrSourceUnavailable, bucket, key)
		return b
	}

	data, err := b.ingest(body)
	if closeErr := body.Close(); closeErr != nil {
		err = fmt.Errorf("%w: close s3://%s/%s: %w", ErrIngestionFailure, bucket, key, closeErr)
	}
	if err != nil {
		b.err = err
		return b
	}

	b.FromBytes(data)
	if b.value.mimeType == "" {
		b.value.mimeType = strings.TrimSpace(contentType)
	}
	return b
}

// FromBytes sets the payload to data without copying it; the builder takes ownership.
func (b *FileValueBuilder) FromBytes(data []byte) *FileValueBuilder {
	if b == nil || !b.usable() {
		return b
	}
	b.value.payload = data
	b.value.hasPayload = true
	return b
}

// Build hands out the value and spends the builder. It returns the first recorded failure
// instead of a value when any step failed.
func (b *FileValueBuilder) Build() (*FileValue, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil builder", ErrInvalidArgument)
	}
	if b.err != nil {
		return nil, b.err
	}
	if b.spent {
		return nil, ErrBuilderSpent
	}

	value := b.value
	b.value = nil
	b.spent = true
	return value, nil
}
