package events

import "go.uber.org/zap"

// LogTo returns a handler writing each recorded change to logger
func LogTo(logger *zap.Logger) Handler {
	return func(e Event) {
		logger.Info("change recorded",
			zap.String("type", e.Type()),
			zap.String("stream", e.StreamID()),
			zap.Int("version", e.Version()),
			zap.Any("data", e.Data()))
	}
}
