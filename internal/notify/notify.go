// Package notify carries user-facing success, warning and error signals
// out of the engine. Delivery is fire-and-forget.
package notify

import (
	"distribution-backend/internal/models"

	"go.uber.org/zap"
)

type Sink interface {
	Notify(severity models.Severity, message string, details models.NotificationDetails)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(severity models.Severity, message string, details models.NotificationDetails)

func (f SinkFunc) Notify(severity models.Severity, message string, details models.NotificationDetails) {
	f(severity, message, details)
}

type Nop struct{}

func (Nop) Notify(models.Severity, string, models.NotificationDetails) {}

type multi []Sink

func (m multi) Notify(severity models.Severity, message string, details models.NotificationDetails) {
	for _, s := range m {
		s.Notify(severity, message, details)
	}
}

// Fanout delivers every notification to all non-nil sinks in order.
func Fanout(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// OrNop returns s, or a no-op sink when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}

type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log.Named("notify")}
}

func (l *LogSink) Notify(severity models.Severity, message string, details models.NotificationDetails) {
	fields := []zap.Field{zap.String("severity", string(severity)), zap.Any("details", details)}
	switch severity {
	case models.SeverityError:
		l.log.Error(message, fields...)
	case models.SeverityWarning:
		l.log.Warn(message, fields...)
	default:
		l.log.Info(message, fields...)
	}
}

// Recorder keeps notifications in memory. Handy in tests.
type Recorder struct {
	Entries []models.Notification
}

func (r *Recorder) Notify(severity models.Severity, message string, details models.NotificationDetails) {
	r.Entries = append(r.Entries, models.Notification{Type: severity, Message: message, Details: details})
}

func (r *Recorder) Count(severity models.Severity) int {
	n := 0
	for _, e := range r.Entries {
		if e.Type == severity {
			n++
		}
	}
	return n
}
