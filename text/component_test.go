package text

import (
	"strings"
	"testing"
)

func TestPlainOmitsEmptyFields(t *testing.T) {
	blob, err := JSON(Plain("hello"))
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	s := string(blob)
	if !strings.Contains(s, `"text":"hello"`) {
		t.Errorf("got %s, want text field", s)
	}
	if strings.Contains(s, "color") || strings.Contains(s, "bold") {
		t.Errorf("got %s, want omitted zero-value fields", s)
	}
}

func TestColoredIncludesColor(t *testing.T) {
	blob, err := JSON(Colored("careful", "red"))
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !strings.Contains(string(blob), `"color":"red"`) {
		t.Errorf("got %s, want color field", blob)
	}
}

func TestExtraRoundsThroughJSON(t *testing.T) {
	c := Component{Text: "a", Extra: []Component{Plain("b"), Colored("c", "blue")}}
	blob, err := JSON(c)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !strings.Contains(string(blob), `"extra"`) {
		t.Errorf("got %s, want extra array", blob)
	}
}
