// Package variable builds immutable file-valued process variables from paths, streams,
// object-store objects or raw buffers.
package variable

import (
	"bytes"
	"io"

	"golang.org/x/text/encoding"
)

// ValueType names the primitive category of a variable value.
type ValueType string

// TypeFile is the primitive kind carried by every FileValue.
const TypeFile ValueType = "file"

// FileValue is a named binary payload with optional MIME type and text encoding.
// A FileValue returned by FileValueBuilder.Build is never modified again.
type FileValue struct {
	name       string
	payload    []byte
	hasPayload bool
	mimeType   string
	encoding   string
}

// Name returns the identifier the value was constructed with.
func (v *FileValue) Name() string {
	if v == nil {
		return ""
	}
	return v.name
}

// Type always reports TypeFile.
func (v *FileValue) Type() ValueType {
	return TypeFile
}

// HasPayload reports whether one of the input operations ran.
func (v *FileValue) HasPayload() bool {
	return v != nil && v.hasPayload
}

// Payload returns a copy of the payload, or nil when none was set.
func (v *FileValue) Payload() []byte {
	if !v.HasPayload() {
		return nil
	}
	return bytes.Clone(v.payload)
}

// Reader streams the payload without copying it.
func (v *FileValue) Reader() io.Reader {
	if !v.HasPayload() {
		return bytes.NewReader(nil)
	}
	return bytes.NewReader(v.payload)
}

// Size is the payload length in bytes.
func (v *FileValue) Size() int64 {
	if v == nil {
		return 0
	}
	return int64(len(v.payload))
}

// MimeType returns the MIME type, empty when unset.
func (v *FileValue) MimeType() string {
	if v == nil {
		return ""
	}
	return v.mimeType
}

// Encoding returns the text encoding name, empty when unset.
func (v *FileValue) Encoding() string {
	if v == nil {
		return ""
	}
	return v.encoding
}

// EncodingHandle resolves Encoding to a structured handle. It returns nil, nil when no
// encoding was set.
func (v *FileValue) EncodingHandle() (encoding.Encoding, error) {
	if v.Encoding() == "" {
		return nil, nil
	}
	return LookupEncoding(v.encoding)
}

// Text decodes the payload using the value's encoding, or returns it verbatim when no
// encoding was set.
func (v *FileValue) Text() (string, error) {
	enc, err := v.EncodingHandle()
	if err != nil {
		return "", err
	}
	if enc == nil {
		return string(v.Payload()), nil
	}
	decoded, err := enc.NewDecoder().Bytes(v.payload)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
