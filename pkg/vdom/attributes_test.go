package vdom

import "testing"

func TestGlobalAttributes(t *testing.T) {
	tests := []struct {
		name  string
		attr  Attr
		key   string
		value any
	}{
		{"ID", ID("main"), "id", "main"},
		{"Class single", Class("card"), "class", "card"},
		{"Class multiple", Class("card", "active"), "class", "card active"},
		{"Data", Data("abs-component", "Tabs"), "data-abs-component", "Tabs"},
		{"AttrOf", AttrOf("x-tag", "Menu"), "x-tag", "Menu"},
		{"Bare", Bare("data-abs-component"), "data-abs-component", nil},
		{"Role", Role("button"), "role", "button"},
		{"AriaLabel", AriaLabel("Close"), "aria-label", "Close"},
		{"Hidden", Hidden(), "hidden", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.key {
				t.Errorf("Key = %v, want %v", tt.attr.Key, tt.key)
			}
			if tt.attr.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.attr.Value, tt.value)
			}
		})
	}
}

func TestAttrIsEmpty(t *testing.T) {
	if !(Attr{}).IsEmpty() {
		t.Error("zero Attr should be empty")
	}
	if ID("x").IsEmpty() {
		t.Error("ID attr should not be empty")
	}
}
