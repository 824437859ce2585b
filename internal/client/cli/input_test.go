package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain line", "alice@hopital.fr\n", "alice@hopital.fr"},
		{"trims spaces", "  alice@hopital.fr  \n", "alice@hopital.fr"},
		{"partial line before EOF", "alice@hopital.fr", "alice@hopital.fr"},
		{"empty line", "\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetSimpleText(bufio.NewReader(strings.NewReader(tt.input)), "Email", &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Email")
		})
	}
}

func TestGetSimpleText_EOFWithoutInput(t *testing.T) {
	var out bytes.Buffer
	_, err := GetSimpleText(bufio.NewReader(strings.NewReader("")), "Email", &out)
	assert.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	defer func() { readPassword = orig }()
	readPassword = func(fd int) ([]byte, error) {
		return []byte("s3cret"), nil
	}

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
	assert.Contains(t, out.String(), "Mot de passe")
}
