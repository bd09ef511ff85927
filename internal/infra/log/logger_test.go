package log

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew_Level(t *testing.T) {
	l, err := New("warn")
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.InfoLevel))
	require.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_BadLevelFallsBackToDebug(t *testing.T) {
	l, err := New("nope")
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestEmail_IsDigest(t *testing.T) {
	f := Email("a@x.com")
	require.Equal(t, "user", f.Key)
	require.NotContains(t, f.String, "a@x.com")
	require.Len(t, f.String, 64)
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLogger(zap.New(core), time.Second)

	fc := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	require.Zero(t, logs.Len(), "record-not-found is not an error worth logging")

	gl.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	require.Equal(t, 1, logs.FilterMessage("query failed").Len())

	gl.Trace(context.Background(), time.Now().Add(-2*time.Second), fc, nil)
	require.Equal(t, 1, logs.FilterMessage("slow query").Len())

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	require.Equal(t, 1, logs.FilterMessage("query failed").Len())
}
