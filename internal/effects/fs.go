package effects

import (
	"os"

	"github.com/astra-lang/astra/internal/object"
)

// OSFs implements Fs over the real filesystem.
type OSFs struct{}

func NewOSFs() *OSFs { return &OSFs{} }

func (OSFs) Read(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (OSFs) Write(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func (OSFs) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (c *Capabilities) dispatchFs(op string, args []object.Value) (object.Value, error) {
	if c.Fs == nil {
		return nil, capErr("Fs")
	}
	switch op {
	case "read":
		path, ok := textArg(args, 0)
		if !ok {
			return nil, typeErr("Fs.read expects a Text path")
		}
		content, err := c.Fs.Read(path)
		if err != nil {
			return object.Err(object.Text(err.Error())), nil
		}
		return object.Ok(object.Text(content)), nil
	case "write":
		if len(args) != 2 {
			return nil, arityErr("Fs", "write", 2, len(args))
		}
		path, ok1 := textArg(args, 0)
		content, ok2 := textArg(args, 1)
		if !ok1 || !ok2 {
			return nil, typeErr("Fs.write expects (Text, Text)")
		}
		if err := c.Fs.Write(path, content); err != nil {
			return object.Err(object.Text(err.Error())), nil
		}
		return object.Ok(object.Unit{}), nil
	case "exists":
		path, ok := textArg(args, 0)
		if !ok {
			return nil, typeErr("Fs.exists expects a Text path")
		}
		return object.Bool(c.Fs.Exists(path)), nil
	default:
		return nil, unknownOp("Fs", op)
	}
}

func textArg(args []object.Value, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	t, ok := args[i].(object.Text)
	if !ok {
		return "", false
	}
	return string(t), true
}
