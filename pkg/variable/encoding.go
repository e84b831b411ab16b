package variable

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// LookupEncoding resolves an IANA charset name or alias (case-insensitive) to a handle.
func LookupEncoding(name string) (encoding.Encoding, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: encoding name is required", ErrInvalidArgument)
	}
	enc, err := ianaindex.IANA.Encoding(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown encoding %q: %w", ErrInvalidArgument, trimmed, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: encoding %q is registered but unsupported", ErrInvalidArgument, trimmed)
	}
	return enc, nil
}

// EncodingName returns the canonical name of a handle, preferring the MIME name.
func EncodingName(enc encoding.Encoding) (string, error) {
	if enc == nil {
		return "", fmt.Errorf("%w: nil encoding", ErrInvalidArgument)
	}
	if name, err := ianaindex.MIME.Name(enc); err == nil && name != "" {
		return name, nil
	}
	name, err := ianaindex.IANA.Name(enc)
	if err != nil {
		return "", fmt.Errorf("%w: encoding has no registered name: %w", ErrInvalidArgument, err)
	}
	return name, nil
}
