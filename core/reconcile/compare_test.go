package reconcile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want bool
	}{
		{"Identical", []byte("hello"), []byte("hello"), true},
		{"BothEmpty", []byte{}, nil, true},
		{"DifferentLength", []byte("hello"), []byte("hello!"), false},
		{"SameLengthDifferentBytes", []byte("hello"), []byte("hellO"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestEqualReaders(t *testing.T) {
	eq, err := EqualReaders(strings.NewReader("same"), strings.NewReader("same"))
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = EqualReaders(strings.NewReader("same"), strings.NewReader("diff"))
	require.NoError(t, err)
	assert.False(t, eq)

	_, err = EqualReaders(strings.NewReader("x"), failingReader{})
	assert.ErrorContains(t, err, "connection reset")
}

func TestDigestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	got, err := digestFile(path)
	require.NoError(t, err)
	assert.Equal(t, digestBytes([]byte("hello")), got)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", got)

	_, err = digestFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{}.normalized()
	assert.Equal(t, 1, o.Workers)
	assert.Equal(t, ReplaceDeleteUpload, o.ReplaceMode)
	assert.Equal(t, CompareBytes, o.Compare)

	o = Options{Workers: 4, ReplaceMode: ReplaceOverwrite, Compare: CompareSHA256}.normalized()
	assert.Equal(t, 4, o.Workers)
	assert.Equal(t, ReplaceOverwrite, o.ReplaceMode)
	assert.Equal(t, CompareSHA256, o.Compare)
}

func TestReportFinishOrdersByKey(t *testing.T) {
	r := NewReport(false)
	r.record(nil,
		Action{Type: ActionUpload, Key: "b"},
		Action{Type: ActionDelete, Key: "a"},
		Action{Type: ActionUpload, Key: "a"},
	)
	r.finish()

	require.Len(t, r.Actions, 3)
	assert.Equal(t, "a", r.Actions[0].Key)
	assert.Equal(t, ActionDelete, r.Actions[0].Type)
	assert.Equal(t, ActionUpload, r.Actions[1].Type)
	assert.Equal(t, "b", r.Actions[2].Key)
	assert.NotEmpty(t, r.RunID)
}
