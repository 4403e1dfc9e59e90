package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "partshub/internal/core/context"
)

func TestFromContext_EnrichesTraceAndUser(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := &Logger{zap.New(core).Sugar()}

	ctx := WithLogger(context.Background(), base)
	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "u-1"})

	Info(ctx, "bulk create finished", "created", 3)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "t-1", fields["trace_id"])
		assert.Equal(t, "r-1", fields["request_id"])
		assert.Equal(t, "u-1", fields["user_id"])
		assert.EqualValues(t, 3, fields["created"])
	}
}

func TestWithFields_CarriedByLaterEntries(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := WithLogger(context.Background(), &Logger{zap.New(core).Sugar()})

	ctx = WithFields(ctx, "layout_type", "grid")
	ctx = WithFields(ctx, "batch_size", 4)
	Info(ctx, "storage locations bulk-created")
	Error(WithFields(ctx), "rollback failed")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		for _, e := range entries {
			fields := e.ContextMap()
			assert.Equal(t, "grid", fields["layout_type"])
			assert.EqualValues(t, 4, fields["batch_size"])
		}
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", OutputPaths: []string{"stderr"}})
	if assert.NoError(t, err) {
		assert.True(t, l.Desugar().Core().Enabled(zap.InfoLevel))
		assert.False(t, l.Desugar().Core().Enabled(zap.DebugLevel))
	}
}
