package config

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDBPath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv(EnvDB, "/tmp/custom.db")
		p, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/custom.db", p)
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv(EnvDB, "")
		t.Setenv("XDG_DATA_HOME", "/data")
		p, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/data", "quizbook", "quizbook.db"), p)
	})
}

func TestDefaultLogPath(t *testing.T) {
	t.Setenv(EnvLogFile, "")
	t.Setenv("XDG_STATE_HOME", "/state")
	p, err := DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/state", "quizbook", "quizbook.log"), p)
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvDB, "/tmp/q.db")
	t.Setenv(EnvDigest, "SHA3-256")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFile, "/tmp/q.log")

	s, err := Resolve(Settings{})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/q.db", s.DBPath)
	assert.Equal(t, "sha3-256", s.Digest)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "/tmp/q.log", s.LogFile)

	// Explicit values win over the environment.
	s, err = Resolve(Settings{DBPath: "/other.db", Digest: "blake2b-256"})
	require.NoError(t, err)
	assert.Equal(t, "/other.db", s.DBPath)
	assert.Equal(t, "blake2b-256", s.Digest)
}

func TestResolve_BadDigest(t *testing.T) {
	t.Setenv(EnvDB, "/tmp/q.db")
	_, err := Resolve(Settings{Digest: "md5"})
	assert.Error(t, err)
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewLogger("debug", &buf))
	t.Cleanup(func() { SetLogger(prev) })

	ctx := WithBank(WithSession(context.Background(), "s-1"), "grade3-story-plot")
	WithContext(ctx).Info("hello")

	out := buf.String()
	assert.Contains(t, out, "session_id=s-1")
	assert.Contains(t, out, "bank_id=grade3-story-plot")
	assert.Contains(t, out, "msg=hello")
}

func TestNewLogger_Level(t *testing.T) {
	l := NewLogger("warn", &bytes.Buffer{})
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l = NewLogger("nonsense", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}
