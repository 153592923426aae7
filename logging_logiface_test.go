package stackful

import (
	"errors"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/require"
)

// testLogifaceEvent is a minimal logiface.Event implementation, in the
// style of the teacher's own testEvent (coverage_extra_test.go):
// enough structure to prove entries actually flow through, nothing more.
type testLogifaceEvent struct {
	logiface.UnimplementedEvent
	level  logiface.Level
	msg    string
	err    error
	fields map[string]any
}

func (e *testLogifaceEvent) Level() logiface.Level { return e.level }

func (e *testLogifaceEvent) AddField(key string, val any) {
	if e.fields == nil {
		e.fields = make(map[string]any)
	}
	e.fields[key] = val
}

func (e *testLogifaceEvent) AddMessage(msg string) bool {
	e.msg = msg
	return true
}

func (e *testLogifaceEvent) AddError(err error) bool {
	e.err = err
	return true
}

// testLogifaceWriter records every event handed to it by the logiface
// Logger, mirroring the teacher's testEventWriter.
type testLogifaceWriter struct {
	events []*testLogifaceEvent
}

func (w *testLogifaceWriter) Write(event *testLogifaceEvent) error {
	w.events = append(w.events, event)
	return nil
}

func logifaceLevel(l LogLevel) logiface.Level {
	switch l {
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelWarn:
		return logiface.LevelWarning
	case LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

// logifaceAdapter bridges this package's Logger interface to a
// logiface.Logger, the way logging.go's Logger doc comment advertises
// ("bridge into zerolog, logrus, logiface, or similar frameworks").
type logifaceAdapter struct {
	logger *logiface.Logger[*testLogifaceEvent]
}

func (a *logifaceAdapter) IsEnabled(level LogLevel) bool {
	b := a.logger.Build(logifaceLevel(level))
	if b == nil {
		return false
	}
	b.Release()
	return true
}

func (a *logifaceAdapter) Log(entry LogEntry) {
	b := a.logger.Build(logifaceLevel(entry.Level))
	if b == nil {
		return
	}
	if entry.GeneratorID != 0 {
		b = b.Int64("generator_id", entry.GeneratorID)
	}
	if entry.StackID != 0 {
		b = b.Int64("stack_id", entry.StackID)
	}
	for k, v := range entry.Context {
		b = b.Any(k, v)
	}
	if entry.Err != nil {
		b = b.Err(entry.Err)
	}
	b.Log(entry.Message)
}

func newTestLogifaceLogger(level logiface.Level) (*logifaceAdapter, *testLogifaceWriter) {
	w := &testLogifaceWriter{}
	logger := logiface.New[*testLogifaceEvent](
		logiface.WithLevel[*testLogifaceEvent](level),
		logiface.WithEventFactory[*testLogifaceEvent](logiface.NewEventFactoryFunc(func(lvl logiface.Level) *testLogifaceEvent {
			return &testLogifaceEvent{level: lvl}
		})),
		logiface.WithWriter[*testLogifaceEvent](logiface.NewWriterFunc(w.Write)),
	)
	return &logifaceAdapter{logger: logger}, w
}

func TestLogifaceAdapterRoutesGeneratorConstruction(t *testing.T) {
	adapter, w := newTestLogifaceLogger(logiface.LevelDebug)
	SetStructuredLogger(adapter)
	defer SetStructuredLogger(nil)

	g := NewGenerator(func(y *YieldHandle[int, int], _ int) int {
		y.Yeet(1)
		return 2
	})
	defer g.Close()

	require.NotEmpty(t, w.events)
	require.Equal(t, "constructed generator", w.events[0].msg)
}

func TestLogifaceAdapterRoutesBridgeLifecycle(t *testing.T) {
	adapter, w := newTestLogifaceLogger(logiface.LevelDebug)

	fut := RunSyncAsAsync(func() int { return 5 }, WithBridgeLogger(adapter))
	v := Wait[int](fut)
	require.Equal(t, 5, v)
	require.NoError(t, fut.(Cancelable).Close())

	require.Len(t, w.events, 2)
	require.Equal(t, "constructed run-sync-as-async future", w.events[0].msg)
	require.Equal(t, "run-sync-as-async future completed", w.events[1].msg)
}

func TestLogifaceAdapterCarriesErrorField(t *testing.T) {
	adapter, w := newTestLogifaceLogger(logiface.LevelDebug)
	sentinel := errors.New("boom")
	adapter.Log(LogEntry{Level: LevelError, Category: "bridge", Message: "panic recovered", Err: sentinel})

	require.Len(t, w.events, 1)
	require.Equal(t, sentinel, w.events[0].err)
	require.Equal(t, "panic recovered", w.events[0].msg)
	require.Equal(t, logiface.LevelError, w.events[0].level)
}

func TestLogifaceAdapterIsEnabledRespectsConfiguredLevel(t *testing.T) {
	adapter, _ := newTestLogifaceLogger(logiface.LevelError)
	require.False(t, adapter.IsEnabled(LevelDebug))
	require.True(t, adapter.IsEnabled(LevelError))
}
