package pinmsgpack

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
)

// DefaultLogger is a zerolog-backed Logger, structured the same way as
// the teacher's engine.DefaultLogger: stderr output, timestamps, and an
// optional random sampler for Warn (Error is never sampled) controlled by an env var (here
// PINMSGPACK_LOG_SAMPLE_N rather than the teacher's HERMOD_ prefix).
type DefaultLogger struct {
	logger  zerolog.Logger
	sampler zerolog.Sampler
	sampled zerolog.Logger
}

// NewDefaultLogger creates a DefaultLogger writing to stderr.
func NewDefaultLogger() *DefaultLogger {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	var samp zerolog.Sampler
	if v := os.Getenv("PINMSGPACK_LOG_SAMPLE_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			samp = zerolog.RandomSampler(n)
		}
	}
	var sampled zerolog.Logger
	if samp != nil {
		sampled = l.Sample(samp)
	}
	return &DefaultLogger{logger: l, sampler: samp, sampled: sampled}
}

func (l *DefaultLogger) log(event *zerolog.Event, msg string, keysAndValues ...interface{}) {
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if i+1 < len(keysAndValues) {
			event.Interface(key, keysAndValues[i+1])
		} else {
			event.Interface(key, nil)
		}
	}
	event.Msg(msg)
}

func (l *DefaultLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(l.logger.Debug(), msg, keysAndValues...)
}

func (l *DefaultLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log(l.logger.Info(), msg, keysAndValues...)
}

func (l *DefaultLogger) Warn(msg string, keysAndValues ...interface{}) {
	if l.sampler != nil {
		l.log(l.sampled.Warn(), msg, keysAndValues...)
		return
	}
	l.log(l.logger.Warn(), msg, keysAndValues...)
}

func (l *DefaultLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log(l.logger.Error(), msg, keysAndValues...)
}
