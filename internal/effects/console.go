package effects

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/astra-lang/astra/internal/object"
)

// StdConsole implements Console over the process's own stdio, the
// default a plain `astra run` gets.
type StdConsole struct {
	out    io.Writer
	reader *bufio.Reader
}

func NewStdConsole() *StdConsole {
	return &StdConsole{out: os.Stdout, reader: bufio.NewReader(os.Stdin)}
}

func (c *StdConsole) Print(text string)   { fmt.Fprint(c.out, text) }
func (c *StdConsole) Println(text string) { fmt.Fprintln(c.out, text) }

func (c *StdConsole) ReadLine() (string, bool) {
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, true
}

func (c *Capabilities) dispatchConsole(op string, args []object.Value) (object.Value, error) {
	if c.Console == nil {
		return nil, capErr("Console")
	}
	switch op {
	case "print":
		if len(args) != 1 {
			return nil, arityErr("Console", "print", 1, len(args))
		}
		c.Console.Print(displayArg(args[0]))
		return object.Unit{}, nil
	case "println":
		if len(args) == 0 {
			c.Console.Println("")
			return object.Unit{}, nil
		}
		c.Console.Println(displayArg(args[0]))
		return object.Unit{}, nil
	case "read_line":
		line, ok := c.Console.ReadLine()
		if !ok {
			return object.None(), nil
		}
		return object.Some(object.Text(line)), nil
	default:
		return nil, unknownOp("Console", op)
	}
}

// displayArg mirrors console.print(&format_value(val)) from the
// original: a Text argument is printed bare, anything else through its
// display form.
func displayArg(v object.Value) string {
	if t, ok := v.(object.Text); ok {
		return string(t)
	}
	return v.String()
}
