package proc

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Command is an argv: the program followed by its arguments.
type Command []string

// NewCommand builds a Command from tokens, coercing each one to text.
// Strings are kept as-is, numbers become their decimal representation,
// fmt.Stringers use String and anything else goes through fmt.Sprint.
func NewCommand(tokens ...any) Command {
	cmd := make(Command, 0, len(tokens))
	for _, token := range tokens {
		cmd = append(cmd, tokenString(token))
	}
	return cmd
}

func tokenString(token any) string {
	switch v := token.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Program returns the executable name, or "" for an empty command.
func (c Command) Program() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Args returns the arguments after the program name.
func (c Command) Args() []string {
	if len(c) < 2 {
		return nil
	}
	return c[1:]
}

// String renders the command space-separated, for logs and messages.
func (c Command) String() string {
	return strings.Join(c, " ")
}

// Options configures a single Execute call.
type Options struct {
	// Command is the argv to run. It must not be empty.
	Command Command
	// Dir is the working directory. Empty means the caller's.
	Dir string
	// Input is written to the child's stdin. Nil means no input.
	Input []byte
	// Env holds extra KEY=VALUE pairs appended to the parent environment.
	Env []string
	// Timeout kills the child after the given duration. Zero means none.
	Timeout time.Duration
}

// Clone returns a copy of o that shares no slices with it.
func (o Options) Clone() Options {
	o.Command = slices.Clone(o.Command)
	o.Input = slices.Clone(o.Input)
	o.Env = slices.Clone(o.Env)
	return o
}

// Validate reports whether the options can be executed.
func (o Options) Validate() error {
	if len(o.Command) == 0 || o.Command[0] == "" {
		return ErrEmptyCommand
	}
	if o.Timeout < 0 {
		return fmt.Errorf("negative timeout %s", o.Timeout)
	}
	return nil
}
