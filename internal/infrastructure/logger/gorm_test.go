package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func sqlFn(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("error", func(t *testing.T) {
		log, logs := observed()
		gl := NewGormLogger(log, gormlogger.Warn)
		gl.Trace(ctx, time.Now(), sqlFn("UPDATE slots"), errors.New("deadlock"))
		assert.Equal(t, 1, logs.FilterMessage("sql error").Len())
	})

	t.Run("record not found is quiet", func(t *testing.T) {
		log, logs := observed()
		gl := NewGormLogger(log, gormlogger.Warn)
		gl.Trace(ctx, time.Now(), sqlFn("SELECT"), gorm.ErrRecordNotFound)
		assert.Zero(t, logs.Len())

		gl = NewGormLogger(log, gormlogger.Warn, WithRecordNotFoundLogging())
		gl.Trace(ctx, time.Now(), sqlFn("SELECT"), gorm.ErrRecordNotFound)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("slow", func(t *testing.T) {
		log, logs := observed()
		gl := NewGormLogger(log, gormlogger.Warn, WithSlowThreshold(time.Millisecond))
		gl.Trace(ctx, time.Now().Add(-time.Second), sqlFn("SELECT"), nil)
		entries := logs.FilterMessage("slow sql").All()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		}
	})

	t.Run("silent", func(t *testing.T) {
		log, logs := observed()
		gl := NewGormLogger(log, gormlogger.Silent)
		gl.Trace(ctx, time.Now(), sqlFn("SELECT"), errors.New("x"))
		assert.Zero(t, logs.Len())
	})

	t.Run("info logs at debug", func(t *testing.T) {
		log, logs := observed()
		gl := NewGormLogger(log, gormlogger.Warn).LogMode(gormlogger.Info)
		gl.Trace(ctx, time.Now(), sqlFn("SELECT 1"), nil)
		assert.Equal(t, 1, logs.FilterMessage("sql").Len())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("whatever"))
}
