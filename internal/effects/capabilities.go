// Package effects implements the capability-mediated effect system of
// spec §4.J: Console, Fs, Net, Clock, Rand, and Env are never reached
// directly by the interpreter -- every call is routed through a small
// object-trait-shaped Capability interface, mirroring the injected
// `self.capabilities.console` / `.fs` / `.net` / ... handles in
// original_source/src/interpreter/effects_dispatch.rs. User-defined
// effects bypass this dispatcher entirely and fall back to the
// interpreter's own `__handler_{Effect}` lookup.
package effects

import (
	"strconv"

	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/object"
	"github.com/astra-lang/astra/internal/source"
	"github.com/google/uuid"
)

// Console, Fs, Net, Clock, Rand and Env are the six built-in capability
// traits of spec §4.J. Each is intentionally small and injectable, so
// tests can swap in a mock (e.g. a Console that records prints instead
// of writing to stdout) without touching the interpreter.
type Console interface {
	Print(text string)
	Println(text string)
	ReadLine() (string, bool)
}

type Fs interface {
	Read(path string) (string, error)
	Write(path, content string) error
	Exists(path string) bool
}

type Net interface {
	Get(url string) (object.Value, error)
	Post(url, body string) (object.Value, error)
}

type Clock interface {
	NowMillis() int64
	Sleep(ms int64)
}

type Rand interface {
	Int(min, max int64) int64
	Bool() bool
	Float() float64
}

type Env interface {
	Get(name string) (string, bool)
	Args() []string
}

// Capabilities holds the capability handles available to one run. A
// nil field means that capability is unavailable; calling an operation
// on it reports capability_not_available (E4004), matching
// RuntimeError::capability_not_available in the original.
type Capabilities struct {
	Console Console
	Fs      Fs
	Net     Net
	Clock   Clock
	Rand    Rand
	Env     Env

	// SessionID tags this run for tests and for Env.get("ASTRA_SESSION_ID"),
	// the one env var the interpreter answers itself rather than
	// forwarding to the underlying Env capability.
	SessionID uuid.UUID
}

// New builds the default, fully-live capability set: a stdio Console, a
// real filesystem, a net/http-backed Net, a wall-clock Clock, a
// math/rand-backed Rand, and an os.Environ-backed Env. Callers that want
// a sandboxed or deterministic run (tests, `astra test --seed N`)
// replace individual fields after construction.
func New() *Capabilities {
	return &Capabilities{
		Console:   NewStdConsole(),
		Fs:        NewOSFs(),
		Net:       NewHTTPNet(),
		Clock:     NewWallClock(),
		Rand:      NewMathRand(0),
		Env:       NewOSEnv(),
		SessionID: uuid.New(),
	}
}

// UserHandlerFunc looks up and invokes a user-defined effect operation
// (the `__handler_{Effect}` record-or-closure convention of spec §4.J).
// Dispatch calls it for any effect name that isn't one of the six
// built-ins.
type UserHandlerFunc func(effect, op string, args []object.Value, env *object.Environment) (object.Value, error)

// Dispatch routes one `Effect.op(args)` call to its capability, or to
// userHandler for non-built-in effect names. The interpreter calls it
// from both evalPerform and evalMethodCall.
func (c *Capabilities) Dispatch(effect, op string, args []object.Value, env *object.Environment, userHandler UserHandlerFunc) (object.Value, error) {
	switch effect {
	case "Console":
		return c.dispatchConsole(op, args)
	case "Fs":
		return c.dispatchFs(op, args)
	case "Net":
		return c.dispatchNet(op, args)
	case "Clock":
		return c.dispatchClock(op, args)
	case "Rand":
		return c.dispatchRand(op, args)
	case "Env":
		return c.dispatchEnv(op, args)
	default:
		return userHandler(effect, op, args, env)
	}
}

func capErr(effect string) error {
	return &diagnostics.DiagnosticError{
		Code:     diagnostics.ErrCapabilityMissing,
		Severity: diagnostics.SeverityError,
		Message:  "capability not available: " + effect,
		Span:     source.Span{},
	}
}

func unknownOp(effect, op string) error {
	return &diagnostics.DiagnosticError{
		Code:     diagnostics.ErrUnknownEffectOp,
		Severity: diagnostics.SeverityError,
		Message:  effect + " has no operation " + op,
		Span:     source.Span{},
	}
}

func typeErr(msg string) error {
	return &diagnostics.DiagnosticError{
		Code:     diagnostics.ErrRuntimeTypeMismatch,
		Severity: diagnostics.SeverityError,
		Message:  msg,
		Span:     source.Span{},
	}
}

func arityErr(effect, op string, want, got int) error {
	return &diagnostics.DiagnosticError{
		Code:     diagnostics.ErrArityMismatch,
		Severity: diagnostics.SeverityError,
		Message:  effect + "." + op + " expects " + strconv.Itoa(want) + " argument(s), got " + strconv.Itoa(got),
		Span:     source.Span{},
	}
}
