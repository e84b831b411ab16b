package variable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"filevars/pkg/variable"
)

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "UTF-8", want: "UTF-8"},
		{input: "utf-8", want: "UTF-8"},
		{input: " ISO-8859-1 ", want: "ISO-8859-1"},
		{input: "latin1", want: "ISO-8859-1"},
		{input: "", wantErr: true},
		{input: "not-a-charset", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			enc, err := variable.LookupEncoding(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, variable.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			name, err := variable.EncodingName(enc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestEncodingHandleAndText(t *testing.T) {
	latin1 := []byte{'c', 'a', 'f', 0xe9}

	value, err := variable.NewFileValueBuilder("menu.txt").
		FromBytes(latin1).
		WithEncoding(charmap.ISO8859_1).
		Build()
	require.NoError(t, err)

	enc, err := value.EncodingHandle()
	require.NoError(t, err)
	require.NotNil(t, enc)

	text, err := value.Text()
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}

func TestTextWithoutEncoding(t *testing.T) {
	value, err := variable.NewFileValueBuilder("plain.txt").FromBytes([]byte("plain")).Build()
	require.NoError(t, err)

	enc, err := value.EncodingHandle()
	require.NoError(t, err)
	assert.Nil(t, enc)

	text, err := value.Text()
	require.NoError(t, err)
	assert.Equal(t, "plain", text)
}

func TestEncodingNameIsStoredAsGiven(t *testing.T) {
	value, err := variable.NewFileValueBuilder("x").WithEncodingName("x-unknown").Build()
	require.NoError(t, err)
	assert.Equal(t, "x-unknown", value.Encoding())

	_, err = value.EncodingHandle()
	require.ErrorIs(t, err, variable.ErrInvalidArgument)
}

func TestUTF8HandleName(t *testing.T) {
	name, err := variable.EncodingName(unicode.UTF8)
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", name)
}
