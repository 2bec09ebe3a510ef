package log

import (
	"github.com/arnavsurve/loopstep/pkg/types"
	"github.com/rs/zerolog"
)

// ZerologAdapter exposes a zerolog.Logger through types.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// Nop returns a logger that discards everything. Useful in tests and validation passes.
func Nop() *ZerologAdapter {
	return &ZerologAdapter{logger: zerolog.Nop()}
}

func (z *ZerologAdapter) Debug() types.Event { return wrap(z.logger.Debug()) }
func (z *ZerologAdapter) Info() types.Event  { return wrap(z.logger.Info()) }
func (z *ZerologAdapter) Warn() types.Event  { return wrap(z.logger.Warn()) }
func (z *ZerologAdapter) Error() types.Event { return wrap(z.logger.Error()) }
func (z *ZerologAdapter) Fatal() types.Event { return wrap(z.logger.Fatal()) }

func (z *ZerologAdapter) With() types.Context {
	return &ZerologContext{ctx: z.logger.With()}
}

// ZerologEvent implements types.Event. A nil event (disabled level) is safe to use.
type ZerologEvent struct {
	event *zerolog.Event
}

func wrap(e *zerolog.Event) *ZerologEvent {
	return &ZerologEvent{event: e}
}

func (e *ZerologEvent) Msg(msg string) {
	e.event.Msg(msg)
}

func (e *ZerologEvent) Msgf(format string, v ...any) {
	e.event.Msgf(format, v...)
}

func (e *ZerologEvent) Err(err error) types.Event {
	e.event = e.event.Err(err)
	return e
}

func (e *ZerologEvent) Interface(key string, value any) types.Event {
	e.event = e.event.Interface(key, value)
	return e
}

func (e *ZerologEvent) Str(key, value string) types.Event {
	e.event = e.event.Str(key, value)
	return e
}

func (e *ZerologEvent) Int(key string, value int) types.Event {
	e.event = e.event.Int(key, value)
	return e
}

func (e *ZerologEvent) Bool(key string, value bool) types.Event {
	e.event = e.event.Bool(key, value)
	return e
}

// ZerologContext implements types.Context.
type ZerologContext struct {
	ctx zerolog.Context
}

func (c *ZerologContext) Str(key, value string) types.Context {
	return &ZerologContext{ctx: c.ctx.Str(key, value)}
}

func (c *ZerologContext) Int(key string, value int) types.Context {
	return &ZerologContext{ctx: c.ctx.Int(key, value)}
}

func (c *ZerologContext) Interface(key string, value any) types.Context {
	return &ZerologContext{ctx: c.ctx.Interface(key, value)}
}

func (c *ZerologContext) Timestamp() types.Context {
	return &ZerologContext{ctx: c.ctx.Timestamp()}
}

func (c *ZerologContext) Logger() types.Logger {
	return &ZerologAdapter{logger: c.ctx.Logger()}
}
