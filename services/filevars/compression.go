package filevars

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"

	"filevars/pkg/variable"
)

const (
	CompressionNone = ""
	CompressionZstd = "zstd"
)

func normalizeCompression(c string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(c)) {
	case "", "none", "identity":
		return CompressionNone, nil
	case CompressionZstd:
		return CompressionZstd, nil
	default:
		return "", fmt.Errorf("%w: unsupported compression %q", variable.ErrInvalidArgument, c)
	}
}

// zstdReadCloser decompresses src and closes it along with the decoder.
type zstdReadCloser struct {
	*zstd.Decoder
	src io.Closer
}

func newZstdReadCloser(src io.Reader) (*zstdReadCloser, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd reader: %w", variable.ErrIngestionFailure, err)
	}
	rc := &zstdReadCloser{Decoder: dec}
	if c, ok := src.(io.Closer); ok {
		rc.src = c
	}
	return rc, nil
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	if z.src == nil {
		return nil
	}
	return z.src.Close()
}

// zstdObjects decompresses every object it opens.
type zstdObjects struct {
	inner variable.ObjectSource
}

func (z zstdObjects) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, string, error) {
	body, _, err := z.inner.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, "", err
	}
	rc, err := newZstdReadCloser(body)
	if err != nil {
		_ = body.Close()
		return nil, "", err
	}
	// The stored content type describes the compressed object, not the payload.
	return rc, "", nil
}
