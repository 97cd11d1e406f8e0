package log

import (
	"log"
	"os"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(path string, debug bool, sentryDsn string) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal(err)
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	logger := zap.New(newCore(zapcore.AddSync(f), zapcore.AddSync(colorable.NewColorableStdout()), level))
	defer logger.Sync()

	if sentryDsn != "" {
		logger = modifyToSentryLogger(logger, sentryDsn)
	}

	zap.ReplaceGlobals(logger)
}

// newCore tees a JSON core for the log file and a colour console core.
func newCore(file, console zapcore.WriteSyncer, level zapcore.Level) zapcore.Core {
	pe := zap.NewProductionEncoderConfig()
	pe.EncodeTime = zapcore.ISO8601TimeEncoder
	pe.MessageKey = "message"
	pe.TimeKey = "time"
	fileEncoder := zapcore.NewJSONEncoder(pe)

	pe.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(pe)

	return zapcore.NewTee(
		zapcore.NewCore(fileEncoder, file, level),
		zapcore.NewCore(consoleEncoder, console, level),
	)
}

func modifyToSentryLogger(log *zap.Logger, DSN string) *zap.Logger {
	cfg := zapsentry.Configuration{
		Level:             zapcore.ErrorLevel,
		EnableBreadcrumbs: true,
		BreadcrumbLevel:   zapcore.InfoLevel,
		Tags: map[string]string{
			"component": "squidctl",
		},
	}
	core, err := zapsentry.NewCore(cfg, zapsentry.NewSentryClientFromDSN(DSN))

	log = log.With(zapsentry.NewScope())

	// a failed init returns a noop core, safe to attach
	if err != nil {
		log.Warn("failed to init sentry core", zap.Error(err))
	}
	return zapsentry.AttachCoreToLogger(core, log)
}
