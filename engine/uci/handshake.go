package uci

import (
	"strconv"
	"strings"
	"time"

	chessmcp "github.com/AnglerfishChess/chess-uci-mcp"
)

// State tracks where the bridge is in the UCI handshake. Exactly one
// instance per bridge; transitions gate which commands are legal.
type State int

const (
	// StateUninitialized: process not yet spawned.
	StateUninitialized State = iota

	// StateAwaitingUciOk: "uci" sent, accumulating id/option lines.
	StateAwaitingUciOk

	// StateAwaitingReadyOk: "uciok" seen, options being applied,
	// waiting on "readyok".
	StateAwaitingReadyOk

	// StateReady: handshake complete; setoption and go are legal.
	StateReady

	// StateStopped: quit sent or process gone. Terminal.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAwaitingUciOk:
		return "awaiting uciok"
	case StateAwaitingReadyOk:
		return "awaiting readyok"
	case StateReady:
		return "ready"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// handshakeInfo is the accumulator folded over the engine's handshake
// output between "uci" and "uciok".
type handshakeInfo struct {
	id      chessmcp.EngineID
	options map[string]chessmcp.OptionMetadata
}

// collectHandshake reads lines until the "uciok" sentinel, folding id and
// option lines into the accumulator. Every line is consumed; lines with
// unrecognized leading tokens are ignored but never break the fold.
func collectHandshake(ch *lineChannel, deadline time.Time) (*handshakeInfo, error) {
	info := &handshakeInfo{options: make(map[string]chessmcp.OptionMetadata)}
	for {
		line, err := ch.ReadLine(deadline)
		if err != nil {
			return nil, err
		}
		switch {
		case strings.TrimSpace(line) == "uciok":
			return info, nil
		case strings.HasPrefix(line, "id name "):
			info.id.Name = strings.TrimSpace(strings.TrimPrefix(line, "id name "))
		case strings.HasPrefix(line, "id author "):
			info.id.Author = strings.TrimSpace(strings.TrimPrefix(line, "id author "))
		case strings.HasPrefix(line, "option name "):
			if md, ok := parseOptionLine(line); ok {
				info.options[md.Name] = md
			}
		}
	}
}

// optionKeywords are the recognized keywords of the UCI option grammar.
// Anything between two keywords belongs to the preceding keyword's value.
var optionKeywords = map[string]bool{
	"name":    true,
	"type":    true,
	"default": true,
	"min":     true,
	"max":     true,
	"var":     true,
}

// parseOptionLine parses one handshake option advertisement:
//
//	option name <N> type <T> [default <D>] [min <m>] [max <M>] [var <V>]*
//
// Tokens are consumed positionally, left to right. Values may span
// multiple tokens (names and defaults can contain spaces), so each value
// runs until the next recognized keyword or end of line. "var" may repeat
// to build the combo allowed-value set. Returns false if the line lacks a
// name or type.
func parseOptionLine(line string) (chessmcp.OptionMetadata, bool) {
	var md chessmcp.OptionMetadata
	var defaultRaw string
	var sawDefault bool

	tokens := strings.Fields(line)
	i := 1 // skip "option"
	for i < len(tokens) {
		keyword := tokens[i]
		i++
		if !optionKeywords[keyword] {
			continue
		}
		start := i
		for i < len(tokens) && !optionKeywords[tokens[i]] {
			i++
		}
		value := strings.Join(tokens[start:i], " ")
		switch keyword {
		case "name":
			md.Name = value
		case "type":
			md.Type = chessmcp.OptionType(value)
		case "default":
			defaultRaw = value
			sawDefault = true
		case "min":
			if n, err := strconv.Atoi(value); err == nil {
				md.Min = &n
			}
		case "max":
			if n, err := strconv.Atoi(value); err == nil {
				md.Max = &n
			}
		case "var":
			if value != "" {
				md.Vars = append(md.Vars, value)
			}
		}
	}

	if md.Name == "" || md.Type == "" {
		return md, false
	}
	if sawDefault {
		md.Default = coerceDefault(md.Type, defaultRaw)
	}
	return md, true
}

// coerceDefault converts the raw default token to the option's natural Go
// type. A value that doesn't parse stays a string rather than being lost.
func coerceDefault(typ chessmcp.OptionType, raw string) any {
	switch typ {
	case chessmcp.OptionSpin:
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	case chessmcp.OptionCheck:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	return raw
}

// awaitReadyOk consumes lines until "readyok". Engines may interleave
// info chatter between "isready" and "readyok"; every line is consumed.
func awaitReadyOk(ch *lineChannel, deadline time.Time) error {
	for {
		line, err := ch.ReadLine(deadline)
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "readyok" {
			return nil
		}
	}
}
