package audit

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"go.pavemaster.dev/integrations/domain"
)

// Event represents an audit log event.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Action    string    `json:"action"`
	Platform  string    `json:"platform,omitempty"`
	Actor     string    `json:"actor,omitempty"` // operator or request id, if known
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

type actorKey struct{}

// WithActor attaches the actor recorded on audit events raised under ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// Logger writes audit events as JSON lines.
type Logger struct {
	service string
	out     zerolog.Logger
	now     func() time.Time
}

// NewLogger creates an audit logger writing to w.
func NewLogger(w io.Writer, service string) *Logger {
	return &Logger{
		service: service,
		out:     zerolog.New(w),
		now:     time.Now,
	}
}

// Record logs the outcome of a credential-affecting action on a platform.
func (l *Logger) Record(ctx context.Context, action string, platform domain.Platform, err error) {
	if l == nil {
		return
	}
	event := Event{
		Timestamp: l.now().UTC(),
		Service:   l.service,
		Action:    action,
		Platform:  platform.String(),
		Success:   err == nil,
	}
	if actor, ok := ctx.Value(actorKey{}).(string); ok {
		event.Actor = actor
	}
	if err != nil {
		event.Error = err.Error()
	}
	l.Write(event)
}

// Write emits a prepared event.
func (l *Logger) Write(event Event) {
	e := l.out.Log().
		Time("timestamp", event.Timestamp).
		Str("service", event.Service).
		Str("action", event.Action).
		Bool("success", event.Success)
	if event.Platform != "" {
		e = e.Str("platform", event.Platform)
	}
	if event.Actor != "" {
		e = e.Str("actor", event.Actor)
	}
	if event.Error != "" {
		e = e.Str("error", event.Error)
	}
	e.Msg("audit")
}
