package effects

import (
	"time"

	"github.com/astra-lang/astra/internal/object"
)

// WallClock implements Clock over the process's real wall clock.
type WallClock struct{}

func NewWallClock() *WallClock { return &WallClock{} }

func (WallClock) NowMillis() int64 { return time.Now().UnixMilli() }
func (WallClock) Sleep(ms int64)   { time.Sleep(time.Duration(ms) * time.Millisecond) }

func (c *Capabilities) dispatchClock(op string, args []object.Value) (object.Value, error) {
	if c.Clock == nil {
		return nil, capErr("Clock")
	}
	switch op {
	case "now":
		return object.Int(c.Clock.NowMillis()), nil
	case "sleep":
		ms, ok := intArg(args, 0)
		if !ok {
			return nil, typeErr("Clock.sleep expects an Int millisecond count")
		}
		c.Clock.Sleep(ms)
		return object.Unit{}, nil
	default:
		return nil, unknownOp("Clock", op)
	}
}

func intArg(args []object.Value, i int) (int64, bool) {
	if i >= len(args) {
		return 0, false
	}
	n, ok := args[i].(object.Int)
	if !ok {
		return 0, false
	}
	return int64(n), true
}
