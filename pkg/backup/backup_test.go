package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrimind/config"
)

func TestOpen_None(t *testing.T) {
	s, err := Open(context.Background(), config.AppConfig{BackupDriver: "none"})
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open(context.Background(), config.AppConfig{BackupDriver: "ftp"})
	assert.Error(t, err)
}

func TestOpen_S3RequiresBucket(t *testing.T) {
	_, err := Open(context.Background(), config.AppConfig{BackupDriver: "s3"})
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	at := time.Date(2024, 3, 2, 1, 4, 5, 0, time.FixedZone("x", 3600))
	assert.Equal(t, "exports/20240302T000405Z-run1.json", Key("run1", at))
}

func TestFSStorePut(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(context.Background(), config.AppConfig{BackupDriver: "fs", BackupDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "fs", s.Driver())

	require.NoError(t, s.Put(context.Background(), "exports/a.json", []byte(`{"x":1}`)))
	b, err := os.ReadFile(filepath.Join(dir, "exports", "a.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1}`, string(b))

	assert.Error(t, s.Put(context.Background(), "../escape.json", []byte("{}")))
}
