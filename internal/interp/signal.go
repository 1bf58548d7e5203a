package interp

import (
	"github.com/astra-lang/astra/internal/object"
	"github.com/astra-lang/astra/internal/source"
)

// emptySpan is used where a runtime error has no single source location
// to anchor to (e.g. inside a user effect handler invoked indirectly
// through the capability dispatcher).
func emptySpan() source.Span { return source.Span{} }

// signal is the typed control-flow channel threaded through eval's
// ordinary (object.Value, error) return pair. Grounded on
// original_source's interpreter error.rs, which represents break/
// continue/return as special Err variants unwound by the nearest loop
// or function frame rather than as a separate return channel -- funxy's
// evaluator instead uses a dedicated Go sentinel type
// (object_control.go), which is the shape adopted here: a distinguished
// error type so break/continue/return propagate through normal Go error
// returns but are never confused with a real runtime error.
type signal struct {
	kind  signalKind
	value object.Value // return/early-return payload; nil for break/continue
}

type signalKind int

const (
	signalBreak signalKind = iota
	signalContinue
	signalReturn
)

func (s *signal) Error() string {
	switch s.kind {
	case signalBreak:
		return "break outside loop"
	case signalContinue:
		return "continue outside loop"
	default:
		return "return outside function"
	}
}

func asSignal(err error) (*signal, bool) {
	s, ok := err.(*signal)
	return s, ok
}
