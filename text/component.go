// Package text builds the chat-component values the protocol sends for
// disconnect reasons and system chat: a small JSON tree of styled text runs.
package text

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Component is one node of a Minecraft chat-component tree: literal text,
// optionally styled, optionally carrying further runs as Extra.
type Component struct {
	Text  string      `json:"text"`
	Color string      `json:"color,omitempty"`
	Bold  bool        `json:"bold,omitempty"`
	Extra []Component `json:"extra,omitempty"`
}

// Plain builds an unstyled literal-text component.
func Plain(s string) Component {
	return Component{Text: s}
}

// Colored builds a literal-text component in the given named color
// ("red", "yellow", ...).
func Colored(s, color string) Component {
	return Component{Text: s, Color: color}
}

// JSON serializes c to the compact JSON form used by LoginDisconnect.
func JSON(c Component) ([]byte, error) {
	return json.Marshal(c)
}
