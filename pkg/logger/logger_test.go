//go:build unit

package logger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNoopLogger_Logf(t *testing.T) {
	logger := NewNoopLogger()

	// This should not panic or produce any output
	logger.Logf("test message")
	logger.Logf("test message with args: %s", "value")
}

func TestZapLogger_Logf(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core).Sugar(), zapcore.InfoLevel)

	logger.Logf("GET %s -> %d", "repos/org/repo/pulls/1", 200)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "GET repos/org/repo/pulls/1 -> 200", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
}

func TestZapLogger_LevelFiltered(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewZapLogger(zap.New(core).Sugar(), zapcore.DebugLevel)

	logger.Logf("hidden")

	assert.Equal(t, 0, logs.Len())
}

func TestZapLogger_ThreadSafety(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core).Sugar(), zapcore.InfoLevel)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Logf("concurrent message from goroutine %d", id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, logs.Len())
}
