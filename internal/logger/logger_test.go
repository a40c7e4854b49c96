package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithBuffer(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "va.log")
	buffer := NewLogBuffer(10)

	log, err := NewWithBuffer(&Config{LogFile: logFile, MaxSize: 1, Development: true}, buffer)
	require.NoError(t, err)

	log.WithOperation("open").Info("Transaction sent", zap.String("signature", "abc"))
	require.NoError(t, log.Sync())

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 1)
	assert.Equal(t, "Transaction sent", logs[0].Message)
	assert.Equal(t, "info", logs[0].Level)
	assert.Equal(t, "abc", logs[0].Fields["signature"])
	assert.Equal(t, "open", logs[0].Fields["operation"])
	assert.NotEmpty(t, logs[0].Fields["correlation_id"])

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"Transaction sent"`))
}

func TestLogLevelFollowsDevelopmentFlag(t *testing.T) {
	buffer := NewLogBuffer(10)
	log, err := NewWithBuffer(&Config{}, buffer)
	require.NoError(t, err)

	log.Debug("hidden")
	end := log.TrackPerformance("noop")
	end()
	log.Info("shown")

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 1)
	assert.Equal(t, "shown", logs[0].Message)
}

func TestLogBufferRingBufferBehavior(t *testing.T) {
	bufferSize := 5
	buffer := NewLogBuffer(bufferSize)

	for i := 0; i < 10; i++ {
		buffer.Add("info", "Log "+string(rune('0'+i)), nil)
	}

	logs := buffer.GetRecentLogs(10)
	require.Len(t, logs, bufferSize)
	assert.Equal(t, "Log 5", logs[0].Message)
	assert.Equal(t, "Log 9", logs[len(logs)-1].Message)

	recent := buffer.GetRecentLogs(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "Log 8", recent[0].Message)

	total, dropped := buffer.GetStats()
	assert.Equal(t, uint64(10), total)
	assert.Equal(t, uint64(5), dropped)
}

func TestLogBufferConcurrentAccess(t *testing.T) {
	buffer := NewLogBuffer(100)

	var wg sync.WaitGroup
	numGoroutines := 10
	logsPerGoroutine := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < logsPerGoroutine; j++ {
				buffer.Add("info", "tick", map[string]interface{}{"goroutine": id})
				_ = buffer.GetRecentLogs(10)
			}
		}(i)
	}
	wg.Wait()

	total, _ := buffer.GetStats()
	assert.Equal(t, uint64(numGoroutines*logsPerGoroutine), total)
	assert.Len(t, buffer.GetRecentLogs(0), 100)
}

func TestLogBufferWritePlainText(t *testing.T) {
	buffer := NewLogBuffer(3)
	n, err := buffer.Write([]byte("not json\n"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, "not json", buffer.GetRecentLogs(0)[0].Message)
}
