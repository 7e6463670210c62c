package reply

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Command is one function call the model asked for.
type Command struct {
	Name string `json:"name"`
	Args []Arg  `json:"args"`
}

// Arg is a single name=value argument. Values keep their textual form.
type Arg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Arg returns the value of the named argument.
func (c Command) Arg(name string) (string, bool) {
	for _, a := range c.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (c Command) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.Name + "=" + a.Value
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

var commandNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// ParseCommand parses a single NAME(ARG=VALUE, ...) line.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	open := strings.IndexByte(line, '(')
	if open <= 0 || !strings.HasSuffix(line, ")") {
		return Command{}, fmt.Errorf("%w: %q", ErrMalformedCommand, line)
	}
	name := strings.TrimSpace(line[:open])
	if !commandNameRe.MatchString(name) {
		return Command{}, fmt.Errorf("%w: bad name in %q", ErrMalformedCommand, line)
	}

	cmd := Command{Name: name, Args: []Arg{}}
	for _, raw := range splitArgs(line[open+1 : len(line)-1]) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return Command{}, fmt.Errorf("%w: argument %q in %q", ErrMalformedCommand, raw, line)
		}
		cmd.Args = append(cmd.Args, Arg{Name: key, Value: unquote(strings.TrimSpace(value))})
	}
	return cmd, nil
}

// splitArgs splits on commas that are outside quotes and brackets. A quote
// only opens at the start of a value, or as a double quote inside brackets,
// so apostrophes in bare text stay literal.
func splitArgs(s string) []string {
	var (
		args       []string
		depth      int
		quote      rune
		start      int
		seenEquals bool
		valueStart bool
	)
	for i, r := range s {
		atValueStart := valueStart
		if valueStart && r != ' ' && r != '\t' {
			valueStart = false
		}
		switch {
		case quote != 0:
			if r == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}
		case (r == '"' || r == '\'') && atValueStart, r == '"' && depth > 0:
			quote = r
		case r == '=' && depth == 0 && !seenEquals:
			seenEquals = true
			valueStart = true
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			args = append(args, s[start:i])
			start = i + 1
			seenEquals = false
		}
	}
	return append(args, s[start:])
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	switch {
	case v[0] == '"' && v[len(v)-1] == '"':
		if s, err := strconv.Unquote(v); err == nil {
			return s
		}
		return v[1 : len(v)-1]
	case v[0] == '\'' && v[len(v)-1] == '\'':
		return v[1 : len(v)-1]
	}
	return v
}
