package effects

import (
	"os"
	"strings"

	"github.com/astra-lang/astra/internal/object"
)

// OSEnv implements Env over the process's real environment and
// os.Args[1:].
type OSEnv struct{}

func NewOSEnv() *OSEnv { return &OSEnv{} }

func (OSEnv) Get(name string) (string, bool) { return os.LookupEnv(name) }
func (OSEnv) Args() []string                 { return os.Args[1:] }

func (c *Capabilities) dispatchEnv(op string, args []object.Value) (object.Value, error) {
	if c.Env == nil {
		return nil, capErr("Env")
	}
	switch op {
	case "get":
		name, ok := textArg(args, 0)
		if !ok {
			return nil, typeErr("Env.get expects a Text name")
		}
		if strings.ToUpper(name) == "ASTRA_SESSION_ID" {
			return object.Some(object.Text(c.SessionID.String())), nil
		}
		v, ok := c.Env.Get(name)
		if !ok {
			return object.None(), nil
		}
		return object.Some(object.Text(v)), nil
	case "args":
		argv := c.Env.Args()
		out := make([]object.Value, len(argv))
		for i, a := range argv {
			out[i] = object.Text(a)
		}
		return object.NewList(out), nil
	default:
		return nil, unknownOp("Env", op)
	}
}
