package effects

import (
	"math/rand"

	"github.com/astra-lang/astra/internal/object"
)

// MathRand implements Rand over a seeded math/rand source, so
// `astra test --seed N` / `astra run --seed N` reproduce the same
// sequence across runs.
type MathRand struct {
	r *rand.Rand
}

func NewMathRand(seed int64) *MathRand {
	return &MathRand{r: rand.New(rand.NewSource(seed))}
}

// Int returns a value in the inclusive range [min, max]. Resolved open
// question: inclusive-inclusive, so `Rand.int(1, 6)` can produce a 6 and
// `Rand.int(n, n)` is deterministically n rather than impossible.
func (m *MathRand) Int(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + m.r.Int63n(max-min+1)
}

func (m *MathRand) Bool() bool { return m.r.Intn(2) == 1 }

func (m *MathRand) Float() float64 { return m.r.Float64() }

func (c *Capabilities) dispatchRand(op string, args []object.Value) (object.Value, error) {
	if c.Rand == nil {
		return nil, capErr("Rand")
	}
	switch op {
	case "int":
		if len(args) != 2 {
			return nil, arityErr("Rand", "int", 2, len(args))
		}
		min, ok1 := intArg(args, 0)
		max, ok2 := intArg(args, 1)
		if !ok1 || !ok2 {
			return nil, typeErr("Rand.int expects (Int, Int)")
		}
		return object.Int(c.Rand.Int(min, max)), nil
	case "bool":
		return object.Bool(c.Rand.Bool()), nil
	case "float":
		return object.Float(c.Rand.Float()), nil
	default:
		return nil, unknownOp("Rand", op)
	}
}
