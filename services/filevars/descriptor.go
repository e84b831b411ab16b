package filevars

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/google/uuid"

	"filevars/pkg/variable"
)

// Descriptor summarises a built file value without carrying its payload.
type Descriptor struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Type       string    `json:"type" yaml:"type"`
	Size       int64     `json:"size" yaml:"size"`
	SHA256     string    `json:"sha256,omitempty" yaml:"sha256,omitempty"`
	MimeType   string    `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	Encoding   string    `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	HasPayload bool      `json:"has_payload" yaml:"has_payload"`
}

// Describe builds a Descriptor for v under a fresh id.
func Describe(v *variable.FileValue) Descriptor {
	d := Descriptor{
		ID:         uuid.New(),
		Name:       v.Name(),
		Type:       string(v.Type()),
		Size:       v.Size(),
		MimeType:   v.MimeType(),
		Encoding:   v.Encoding(),
		HasPayload: v.HasPayload(),
	}
	if d.HasPayload {
		hash := sha256.New()
		_, _ = io.Copy(hash, v.Reader())
		d.SHA256 = hex.EncodeToString(hash.Sum(nil))
	}
	return d
}
