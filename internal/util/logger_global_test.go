package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogHelpersSafeWithoutInit(t *testing.T) {
	// The helpers hit the no-op default until InitLogger runs; none may
	// panic regardless of initialization order.
	assert.NotPanics(t, func() {
		LogDebug("debug")
		LogDebugf("debug %d", 1)
		LogInfo("info")
		LogInfof("info %d", 2)
		LogWarn("warn")
		LogWarnf("warn %d", 3)
		LogError("error")
		LogErrorf("error %d", 4)
	})
}

func TestNopLoggerWithReturnsItself(t *testing.T) {
	var l LoggerInterface = nopLogger{}
	assert.Equal(t, l, l.With(Field{Key: "k", Value: "v"}))
}
