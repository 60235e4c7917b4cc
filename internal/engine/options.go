package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionType is the UCI option kind (§6 "option" declaration).
type OptionType int

const (
	OptionSpin OptionType = iota
	OptionCheck
	OptionCombo
	OptionString
	OptionButton
)

// Option is one declaratively-registered UCI option (C10/C11's registry),
// grounded on the teacher's uci.go "option name ..." lines but generalized
// from one-off fmt.Println calls into a table that both the "uci" command
// listing and "setoption" parsing read from, instead of duplicating every
// option's name in two places.
type Option struct {
	Name    string
	Type    OptionType
	Default string
	Min     int
	Max     int
	Vars    []string

	value string
}

// Registry holds every engine option in declaration order, plus a
// case-insensitive name index for O(1) setoption lookup.
type Registry struct {
	order []string
	opts  map[string]*Option
}

// NewRegistry builds the standard option set: Hash, Threads, MultiPV, and
// UCI_Chess960, the options every UCI front-end in the corpus exposes, plus
// Move Overhead, which is announced and stored but not read by the search.
func NewRegistry() *Registry {
	r := &Registry{opts: make(map[string]*Option)}
	r.add(&Option{Name: "Hash", Type: OptionSpin, Default: "32", Min: 1, Max: 1048576})
	r.add(&Option{Name: "Threads", Type: OptionSpin, Default: "1", Min: 1, Max: 1024})
	r.add(&Option{Name: "MultiPV", Type: OptionSpin, Default: "1", Min: 1, Max: 256})
	r.add(&Option{Name: "UCI_Chess960", Type: OptionCheck, Default: "false"})
	r.add(&Option{Name: "Move Overhead", Type: OptionSpin, Default: "30", Min: 0, Max: 5000})
	return r
}

func (r *Registry) add(o *Option) {
	o.value = o.Default
	r.opts[strings.ToLower(o.Name)] = o
	r.order = append(r.order, o.Name)
}

func (r *Registry) find(name string) (*Option, bool) {
	o, ok := r.opts[strings.ToLower(name)]
	return o, ok
}

// Lines renders every option as a "option name ... type ..." UCI line, in
// declaration order, for the "uci" command's identification block.
func (r *Registry) Lines() []string {
	lines := make([]string, 0, len(r.order))
	for _, key := range r.order {
		o, _ := r.find(key)
		switch o.Type {
		case OptionSpin:
			lines = append(lines, fmt.Sprintf("option name %s type spin default %s min %d max %d", o.Name, o.Default, o.Min, o.Max))
		case OptionCheck:
			lines = append(lines, fmt.Sprintf("option name %s type check default %s", o.Name, o.Default))
		case OptionString:
			lines = append(lines, fmt.Sprintf("option name %s type string default %s", o.Name, o.Default))
		case OptionButton:
			lines = append(lines, fmt.Sprintf("option name %s type button", o.Name))
		case OptionCombo:
			line := fmt.Sprintf("option name %s type combo default %s", o.Name, o.Default)
			for _, v := range o.Vars {
				line += " var " + v
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// Set applies a "setoption name X value Y" command, clamping spin values
// to their declared range.
func (r *Registry) Set(name, value string) error {
	o, ok := r.find(name)
	if !ok {
		return fmt.Errorf("unknown option %q", name)
	}
	if o.Type == OptionSpin {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("option %q: %w", name, err)
		}
		if n < o.Min {
			n = o.Min
		}
		if n > o.Max {
			n = o.Max
		}
		value = strconv.Itoa(n)
	}
	o.value = value
	return nil
}

// Int returns a spin/check option's current value as an int (0/1 for
// check options), or 0 if the name is unknown.
func (r *Registry) Int(name string) int {
	o, ok := r.find(name)
	if !ok {
		return 0
	}
	if o.Type == OptionCheck {
		if o.value == "true" {
			return 1
		}
		return 0
	}
	n, _ := strconv.Atoi(o.value)
	return n
}

// Bool returns a check option's current value.
func (r *Registry) Bool(name string) bool {
	o, ok := r.find(name)
	return ok && o.value == "true"
}

// String returns an option's raw current value.
func (r *Registry) String(name string) string {
	if o, ok := r.find(name); ok {
		return o.value
	}
	return ""
}
