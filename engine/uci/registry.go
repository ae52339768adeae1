package uci

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	chessmcp "github.com/AnglerfishChess/chess-uci-mcp"
)

// registry caches engine-advertised option metadata and the values the
// bridge has applied. The applied cache is advisory: UCI has no "get
// option" command, so it reflects what was sent, not a confirmed
// read-back.
type registry struct {
	meta    map[string]chessmcp.OptionMetadata
	applied map[string]any
}

func newRegistry(meta map[string]chessmcp.OptionMetadata) *registry {
	return &registry{
		meta:    meta,
		applied: make(map[string]any),
	}
}

// validate checks value against the named option's metadata and returns
// the normalized value to send. Validation is per key: an error here never
// blocks a sibling entry.
func (r *registry) validate(name string, value any) (any, error) {
	md, ok := r.meta[name]
	if !ok {
		return nil, fmt.Errorf("%w: engine does not advertise option %q", chessmcp.ErrUnsupportedOption, name)
	}

	switch md.Type {
	case chessmcp.OptionCheck:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a boolean, got %T", chessmcp.ErrInvalidOptionValue, name, value)
		}
		return b, nil

	case chessmcp.OptionSpin:
		n, ok := toInt(value)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects an integer, got %T", chessmcp.ErrInvalidOptionValue, name, value)
		}
		if md.Min != nil && n < *md.Min {
			return nil, fmt.Errorf("%w: %s value %d is below minimum %d", chessmcp.ErrInvalidOptionValue, name, n, *md.Min)
		}
		if md.Max != nil && n > *md.Max {
			return nil, fmt.Errorf("%w: %s value %d is above maximum %d", chessmcp.ErrInvalidOptionValue, name, n, *md.Max)
		}
		return n, nil

	case chessmcp.OptionCombo:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a string, got %T", chessmcp.ErrInvalidOptionValue, name, value)
		}
		for _, allowed := range md.Vars {
			if s == allowed {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%w: %s value %q is not one of [%s]",
			chessmcp.ErrInvalidOptionValue, name, s, strings.Join(md.Vars, ", "))

	case chessmcp.OptionButton:
		// Buttons carry no persistent value; any supplied value is
		// ignored and the bare setoption triggers the action.
		return nil, nil

	case chessmcp.OptionString:
		if value == nil {
			return "", nil
		}
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a string, got %T", chessmcp.ErrInvalidOptionValue, name, value)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %s has unknown type %q", chessmcp.ErrInvalidOptionValue, name, md.Type)
	}
}

// record remembers a value as applied.
func (r *registry) record(name string, value any) {
	r.applied[name] = value
}

// metadata returns a copy of the advertised option set.
func (r *registry) metadata() map[string]chessmcp.OptionMetadata {
	out := make(map[string]chessmcp.OptionMetadata, len(r.meta))
	for name, md := range r.meta {
		out[name] = md
	}
	return out
}

// values returns a copy of the applied-value cache.
func (r *registry) values() map[string]any {
	out := make(map[string]any, len(r.applied))
	for name, v := range r.applied {
		out[name] = v
	}
	return out
}

// isButton reports whether the named option is advertised as a button.
func (r *registry) isButton(name string) bool {
	md, ok := r.meta[name]
	return ok && md.Type == chessmcp.OptionButton
}

// toInt accepts the integer shapes that reach the bridge: native ints
// from Go callers, float64 from JSON-decoded tool arguments (whole values
// only), and numeric strings from configuration.
func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// formatSetOption renders one "setoption" command. Buttons have no value
// clause; booleans render lowercase per the UCI grammar.
func formatSetOption(name string, value any) string {
	if value == nil {
		return "setoption name " + name
	}
	var text string
	switch v := value.(type) {
	case bool:
		text = strconv.FormatBool(v)
	case int:
		text = strconv.Itoa(v)
	default:
		text = fmt.Sprint(v)
	}
	return fmt.Sprintf("setoption name %s value %s", name, text)
}
