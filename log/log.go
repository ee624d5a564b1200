package log

import (
	"io"
	"os"

	"github.com/MinterTeam/influence-pool/config"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

type Logger = log.Logger

var (
	logger = log.NewNopLogger()
)

// NewLogger builds the node logger from cfg.
func NewLogger(cfg *config.Config) (Logger, error) {
	var dest io.Writer = os.Stdout

	if cfg.LogPath != "stdout" {
		file, err := os.OpenFile(cfg.LogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, errors.Wrap(err, "can't open log file")
		}

		dest = file
	}

	var l log.Logger

	switch cfg.LogFormat {
	case config.LogFormatJSON:
		l = log.NewTMJSONLogger(log.NewSyncWriter(dest))
	case config.LogFormatPlain:
		l = log.NewTMLogger(log.NewSyncWriter(dest))
	default:
		return nil, errors.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	return flags.ParseLogLevel(cfg.LogLevel, l, "info")
}

func InitLog(cfg *config.Config) {
	l, err := NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	SetLogger(l)
}

func NewNopLogger() Logger {
	return log.NewNopLogger()
}

func SetLogger(l Logger) {
	logger = l
}

func Info(msg string, ctx ...interface{}) {
	logger.Info(msg, ctx...)
}

func Error(msg string, ctx ...interface{}) {
	logger.Error(msg, ctx...)
}

func Fatal(msg string, ctx ...interface{}) {
	logger.Error(msg, ctx...)
	os.Exit(1)
}

func With(keyvals ...interface{}) Logger {
	return logger.With(keyvals...)
}
