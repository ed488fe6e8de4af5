package util

import (
	"bufio"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCode = errors.New("code")

func TestWrapErrorf(t *testing.T) {
	orig := io.ErrUnexpectedEOF
	err := WrapErrorf(orig, errCode, "reading %s", "graph")

	assert.Equal(t, "reading graph", err.Error())
	assert.ErrorIs(t, err, errCode)
	assert.ErrorIs(t, err, orig)
	assert.Equal(t, errCode, ErrorCode(err))
	assert.Nil(t, ErrorCode(orig))

	wrapped := WrapErrorf(err, ErrBadParamInput, "outer")
	assert.ErrorIs(t, wrapped, errCode)
	assert.ErrorIs(t, wrapped, ErrBadParamInput)
	assert.Equal(t, ErrBadParamInput, ErrorCode(wrapped))
}

func TestNumericHelpers(t *testing.T) {
	assert.Equal(t, 12.35, RoundFloat(12.3456, 2))
	assert.Equal(t, 0.0, RoundFloat(0.004, 2))
	assert.True(t, IsFinite(1, -2, 0))
	assert.False(t, IsFinite(1, math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
	assert.Equal(t, 3, MaxG(3, 1))
	assert.InDelta(t, math.Pi, DegreeToRadians(180), 1e-15)
}

func TestReverse(t *testing.T) {
	arr := []int{1, 2, 3, 4}
	assert.Equal(t, []int{4, 3, 2, 1}, ReverseG(arr))
	assert.Equal(t, []int{1, 2, 3, 4}, arr)

	ReverseInPlace(arr)
	assert.Equal(t, []int{4, 3, 2, 1}, arr)

	empty := []int{}
	ReverseInPlace(empty)
	assert.Empty(t, empty)
}

func TestReadLine(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("first\r\nsecond"))
	line, err := ReadLine(br)
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = ReadLine(br)
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = ReadLine(br)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 300.0, cfg.SnapToleranceMeters)
	assert.Equal(t, 30.0, cfg.BufferToleranceMeters)
	assert.Equal(t, 1.0, cfg.MinSegmentLengthMeters)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.False(t, cfg.Alternatives.Enabled)
}

func TestValidateTranslatesErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BufferToleranceMeters = 0
	cfg.Workers = 0
	cfg.LogLevel = "verbose"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadParamInput)
	assert.Contains(t, err.Error(), "BufferToleranceMeters")
	assert.Contains(t, err.Error(), "Workers")
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
snap_tolerance_m: 150
buffer_tolerance_m: 25
workers: 2
alternatives:
  enabled: true
  target_count: 4
tracing:
  enabled: true
  service_name: lastmile-test
`), 0o644))

	cfg, err := ReadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 150.0, cfg.SnapToleranceMeters)
	assert.Equal(t, 25.0, cfg.BufferToleranceMeters)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.Alternatives.Enabled)
	assert.Equal(t, 4, cfg.Alternatives.TargetCount)
	// untouched keys keep their defaults
	assert.Equal(t, 1.0, cfg.MinSegmentLengthMeters)
	assert.Equal(t, DefaultConfig().Alternatives.WeightFactor, cfg.Alternatives.WeightFactor)
	assert.Equal(t, "lastmile-test", cfg.Tracing.ServiceName)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestReadConfigErrors(t *testing.T) {
	_, err := ReadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("buffer_tolerance_m: -1\n"), 0o644))
	_, err = ReadConfig(viper.New(), path)
	assert.ErrorIs(t, err, ErrBadParamInput)
}
