package filevars

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"filevars/pkg/variable"
)

// Request selects one payload source and the metadata of a file value.
type Request struct {
	Name string

	Path   string
	Stream io.Reader
	Bucket string
	Key    string

	MimeType       string
	Encoding       string
	DetectMimeType bool
	Compression    string
}

func (r Request) sources() int {
	n := 0
	if r.Path != "" {
		n++
	}
	if r.Stream != nil {
		n++
	}
	if r.Bucket != "" || r.Key != "" {
		n++
	}
	return n
}

// Service builds file values from requests.
type Service struct {
	objects   variable.ObjectSource
	chunkSize int
}

// NewService creates a Service. objects may be nil when object sources are not configured.
func NewService(objects variable.ObjectSource, chunkSize int) *Service {
	if chunkSize <= 0 {
		chunkSize = variable.DefaultChunkSize
	}
	return &Service{objects: objects, chunkSize: chunkSize}
}

// Ingest builds the file value described by req.
func (s *Service) Ingest(ctx context.Context, req Request) (*variable.FileValue, error) {
	if s == nil {
		return nil, errors.New("nil service")
	}
	if n := req.sources(); n != 1 {
		return nil, fmt.Errorf("%w: exactly one payload source is required, got %d", variable.ErrInvalidArgument, n)
	}
	compression, err := normalizeCompression(req.Compression)
	if err != nil {
		return nil, err
	}

	b := variable.NewFileValueBuilder(req.Name, variable.WithChunkSize(s.chunkSize))
	if req.MimeType != "" {
		b.WithMimeType(req.MimeType)
	}
	if strings.TrimSpace(req.Encoding) != "" {
		enc, err := variable.LookupEncoding(req.Encoding)
		if err != nil {
			return nil, err
		}
		b.WithEncoding(enc)
	}
	if err := b.Err(); err != nil {
		return nil, err
	}

	switch {
	case req.Path != "":
		if err := s.fromPath(b, req.Path, compression); err != nil {
			return nil, err
		}
	case req.Stream != nil:
		if err := s.fromStream(b, req.Stream, compression); err != nil {
			return nil, err
		}
	default:
		if s.objects == nil {
			return nil, fmt.Errorf("%w: object storage is not configured", variable.ErrSourceUnavailable)
		}
		var objects variable.ObjectSource = s.objects
		if compression == CompressionZstd {
			objects = zstdObjects{inner: s.objects}
		}
		b.FromObject(ctx, objects, req.Bucket, req.Key)
	}

	if req.DetectMimeType {
		b.WithDetectedMimeType()
	}
	return b.Build()
}

func (s *Service) fromPath(b *variable.FileValueBuilder, path, compression string) error {
	if compression == CompressionNone {
		b.FromFile(path)
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open %q: %w", variable.ErrSourceUnavailable, path, err)
	}
	rc, err := newZstdReadCloser(file)
	if err != nil {
		_ = file.Close()
		return err
	}
	b.FromStream(rc)
	if err := rc.Close(); err != nil {
		return fmt.Errorf("%w: close %q: %w", variable.ErrIngestionFailure, path, err)
	}
	return nil
}

func (s *Service) fromStream(b *variable.FileValueBuilder, r io.Reader, compression string) error {
	if compression == CompressionNone {
		b.FromStream(r)
		return nil
	}

	dec, err := newZstdReadCloser(io.NopCloser(r))
	if err != nil {
		return err
	}
	defer dec.Close()
	b.FromStream(dec)
	return nil
}
