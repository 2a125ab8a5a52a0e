package vdom

import "testing"

func TestCreateElement(t *testing.T) {
	t.Run("basic element", func(t *testing.T) {
		node := Div()
		if node.Kind != KindElement {
			t.Errorf("Kind = %v, want KindElement", node.Kind)
		}
		if node.Tag != "div" {
			t.Errorf("Tag = %v, want div", node.Tag)
		}
	})

	t.Run("with multiple attributes", func(t *testing.T) {
		node := Div(Class("card"), ID("main"))
		if node.Props["class"] != "card" {
			t.Errorf("class = %v, want card", node.Props["class"])
		}
		if node.Props["id"] != "main" {
			t.Errorf("id = %v, want main", node.Props["id"])
		}
	})

	t.Run("with attribute slice", func(t *testing.T) {
		node := Div([]Attr{ID("a"), {}, Class("b")})
		if len(node.Props) != 2 {
			t.Errorf("Props = %v, want 2 entries", node.Props)
		}
	})

	t.Run("children get a parent", func(t *testing.T) {
		child := P(Text("Hello"))
		node := Div(child)
		if len(node.Children) != 1 {
			t.Fatalf("Children len = %v, want 1", len(node.Children))
		}
		if child.Parent() != node {
			t.Error("child parent not set")
		}
	})

	t.Run("with child slice and nils", func(t *testing.T) {
		node := Ul(nil, []*VNode{Li(), nil, Li()})
		if len(node.Children) != 2 {
			t.Fatalf("Children len = %v, want 2", len(node.Children))
		}
	})

	t.Run("with string shorthand", func(t *testing.T) {
		node := Div("Hello")
		if len(node.Children) != 1 {
			t.Fatalf("Children len = %v, want 1", len(node.Children))
		}
		if node.Children[0].Kind != KindText {
			t.Errorf("Child kind = %v, want KindText", node.Children[0].Kind)
		}
	})

	t.Run("El uses the given tag", func(t *testing.T) {
		if El("my-widget").Tag != "my-widget" {
			t.Error("El tag mismatch")
		}
	})
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("input") {
		t.Error("input should be void")
	}
	if IsVoidElement("div") {
		t.Error("div should not be void")
	}
}
