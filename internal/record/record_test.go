package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		username string
		secret   string
	}{
		{name: "simple", username: "root", secret: "toor"},
		{name: "unicode", username: "пользователь", secret: "пароль🔑"},
		{name: "quotes and braces", username: `a"b`, secret: `{"x":1}`},
		{name: "whitespace", username: " admin ", secret: "pass word\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := Encode(tt.username, tt.secret)
			require.NoError(t, err)

			cred, err := Decode(blob)
			require.NoError(t, err)
			assert.Equal(t, tt.username, cred.Username)
			assert.Equal(t, tt.secret, cred.Secret)
		})
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	a, err := Encode("root", "toor")
	require.NoError(t, err)
	b, err := Encode("root", "toor")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, `{"root":"toor"}`, string(a))
}

func TestEncodeRejectsEmptyFields(t *testing.T) {
	_, err := Encode("", "toor")
	assert.ErrorIs(t, err, ErrEmptyField)

	_, err = Encode("root", "")
	assert.ErrorIs(t, err, ErrEmptyField)
}

func TestEncodeRejectsInvalidUTF8(t *testing.T) {
	tests := []struct {
		name     string
		username string
		secret   string
	}{
		{name: "secret", username: "root", secret: "pa\xffss"},
		{name: "username", username: "ro\xc3ot", secret: "toor"},
		{name: "truncated rune", username: "root", secret: "key\xf0\x9f\x94"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := Encode(tt.username, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidText)
			assert.Nil(t, blob)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{name: "nil", blob: nil},
		{name: "empty", blob: []byte{}},
		{name: "whitespace", blob: []byte("  \n")},
		{name: "not json", blob: []byte("root:toor")},
		{name: "json null", blob: []byte("null")},
		{name: "json array", blob: []byte(`["root","toor"]`)},
		{name: "empty object", blob: []byte(`{}`)},
		{name: "two entries", blob: []byte(`{"a":"1","b":"2"}`)},
		{name: "non-string secret", blob: []byte(`{"root":42}`)},
		{name: "empty secret", blob: []byte(`{"root":""}`)},
		{name: "empty username", blob: []byte(`{"":"toor"}`)},
		{name: "truncated", blob: []byte(`{"root":"to`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.blob)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeLegacyBlob(t *testing.T) {
	// json.dumps output with a space after the colon
	cred, err := Decode([]byte(`{"root": "toor"}`))
	require.NoError(t, err)
	assert.Equal(t, Credential{Username: "root", Secret: "toor"}, cred)
}
