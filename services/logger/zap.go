package logsvc

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
)

// ZapLogger writes structured logs to stdout and, when configured, to a rotated log file.
type ZapLogger struct {
	z    *zap.Logger
	file io.Closer
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger(conf core.LogConfig) (*ZapLogger, error) {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", conf.Level)
	}

	var encoder zapcore.Encoder
	switch conf.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "console", "":
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, errors.Errorf("invalid log format %q", conf.Format)
	}

	l := new(ZapLogger)
	sink := zapcore.AddSync(os.Stdout)
	if conf.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		l.file = rotated
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(rotated))
	}

	l.z = zap.New(zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(level)), zap.AddCaller(), zap.AddCallerSkip(1))
	return l, nil
}

// NewNopLogger returns a logger that discards everything. Used by tests.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{z: zap.NewNop()}
}

// Close flushes buffered entries and closes the log file, if any.
func (l *ZapLogger) Close() error {
	_ = l.z.Sync() // fails on some terminals (e.g. /dev/stdout); nothing to do about it
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// fields converts logger args (errors, extras maps, the acting user.User) into zap fields.
func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case error:
			flds = append(flds, zap.Error(v))
		case map[string]interface{}:
			for key, val := range v {
				flds = append(flds, zap.Any(key, val))
			}
		case user.User:
			flds = append(flds, zap.Int("user_id", v.ID), zap.String("user_role", string(v.Role)))
		default:
			flds = append(flds, zap.Any(fmt.Sprintf("arg%d", i), v))
		}
	}
	return flds
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) { l.z.Debug(msg, fields(args)...) }
func (l *ZapLogger) Info(msg string, args ...interface{})  { l.z.Info(msg, fields(args)...) }
func (l *ZapLogger) Warn(msg string, args ...interface{})  { l.z.Warn(msg, fields(args)...) }
func (l *ZapLogger) Error(msg string, args ...interface{}) { l.z.Error(msg, fields(args)...) }
func (l *ZapLogger) Fatal(msg string, args ...interface{}) { l.z.Fatal(msg, fields(args)...) }
