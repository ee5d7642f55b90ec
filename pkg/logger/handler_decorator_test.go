package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/streamupload/pkg/logger"
)

type uploadIDKey struct{}

func uploadIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := ctx.Value(uploadIDKey{}).(string)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("upload_id", id), true
}

func TestLogHandlerDecorator(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := logger.NewLogHandlerDecorator(slog.NewJSONHandler(&buf, nil), nil, uploadIDExtractor, nil)
	log := slog.New(h).With(logger.Component("decoder")).WithGroup("part")

	ctx := context.WithValue(context.Background(), uploadIDKey{}, "u-1")
	log.InfoContext(ctx, "part opened", logger.Field("avatar"))

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "decoder", entry["component"])
	part, ok := entry["part"].(map[string]any)
	if assert.True(t, ok, "group missing") {
		assert.Equal(t, "avatar", part["field"])
		assert.Equal(t, "u-1", part["upload_id"])
	}

	buf.Reset()
	log.Info("no context values")
	entry = decodeEntry(t, &buf)
	part, _ = entry["part"].(map[string]any)
	assert.NotContains(t, part, "upload_id")
}
