package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSave(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocal(dir, "http://localhost:8080/")
	require.NoError(t, err)

	url, err := local.Save(context.Background(), "voice-abc.webm", strings.NewReader("audio bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/voice-abc.webm", url)

	data, err := os.ReadFile(filepath.Join(dir, "voice-abc.webm"))
	require.NoError(t, err)
	assert.Equal(t, "audio bytes", string(data))
}

func TestLocalSaveSanitizesName(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocal(dir, "http://localhost:8080")
	require.NoError(t, err)

	url, err := local.Save(context.Background(), "../../etc/passwd", strings.NewReader("nope"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/passwd", url)

	// The file lands inside the uploads dir, not outside it.
	_, err = os.Stat(filepath.Join(dir, "passwd"))
	assert.NoError(t, err)
}

func TestNewLocalCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewLocal(dir, "http://localhost:8080")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
