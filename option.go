package chessmcp

// OptionType is the UCI option type tag from an "option name ... type ..."
// handshake line.
type OptionType string

const (
	// OptionCheck is a boolean option.
	OptionCheck OptionType = "check"

	// OptionSpin is an integer option with inclusive min/max bounds.
	OptionSpin OptionType = "spin"

	// OptionCombo is an enumerated option; valid values are listed in
	// the metadata's Vars set.
	OptionCombo OptionType = "combo"

	// OptionButton is a one-shot action with no persistent value.
	OptionButton OptionType = "button"

	// OptionString is a free-form string option.
	OptionString OptionType = "string"
)

// OptionMetadata describes one engine-advertised option. Populated once
// from the handshake output and immutable afterward. Option names are
// case-sensitive and unique per engine.
type OptionMetadata struct {
	Name string     `json:"name"`
	Type OptionType `json:"type"`

	// Default is the engine's default value, coerced to the option's
	// natural Go type: bool for check, int for spin, string otherwise.
	// Nil when the engine advertised no default (buttons never have one).
	Default any `json:"default,omitempty"`

	// Min and Max bound spin options. Nil for every other type.
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`

	// Vars is the allowed-value set for combo options, in the order the
	// engine listed them. Nil for every other type.
	Vars []string `json:"var,omitempty"`
}
