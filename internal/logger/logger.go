package logger

import (
	"github.com/tropicaldog17/rwa/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger for the configured environment.
// Production gets JSON output; anything else a coloured development logger.
// An unparseable level falls back to info in production and debug otherwise.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		zcfg := zap.NewProductionConfig()
		// Include caller and stacktrace on error in production
		zcfg.EncoderConfig.TimeKey = "ts"
		zcfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Logging.Level, zapcore.InfoLevel))
		return zcfg.Build(zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zcfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Logging.Level, zapcore.DebugLevel))
	return zcfg.Build(zap.AddCaller())
}

func parseLevel(s string, fallback zapcore.Level) zapcore.Level {
	if s == "" {
		return fallback
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return fallback
	}
	return lvl
}
