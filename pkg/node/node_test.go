package node

import "testing"

func TestSetAttrKeepsOrder(t *testing.T) {
	n := New("Settings")
	n.SetAttr("A", "1")
	n.SetAttr("B", "2")
	n.SetAttr("A", "3")

	if len(n.Attrs) != 2 {
		t.Fatalf("len(Attrs) = %d, want 2", len(n.Attrs))
	}
	if n.Attrs[0] != (Attr{Name: "A", Value: "3"}) {
		t.Errorf("Attrs[0] = %+v, want A=3", n.Attrs[0])
	}
	if v, ok := n.Attr("B"); !ok || v != "2" {
		t.Errorf("Attr(B) = %q, %v", v, ok)
	}
	if n.HasAttr("C") {
		t.Error("HasAttr(C) = true, want false")
	}
}

func TestChildAndCount(t *testing.T) {
	root := New("root").Add(New("a").Add(New("x")), nil, New("b"))

	if root.Child("b") == nil {
		t.Error("Child(b) = nil")
	}
	if root.Child("missing") != nil {
		t.Error("Child(missing) should be nil")
	}
	if got := root.First().Name; got != "a" {
		t.Errorf("First() = %q, want a", got)
	}
	if got := root.Count(); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
	if New("leaf").First() != nil {
		t.Error("First() on leaf should be nil")
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	root := New("root").Add(New("skip").Add(New("hidden")), New("seen"))

	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return n.Name != "skip"
	})

	want := []string{"root", "skip", "seen"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visited[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestEqual(t *testing.T) {
	a := New("x").Add(New("y"))
	a.SetAttr("k", "v")
	b := New("x").Add(New("y"))
	b.SetAttr("k", "v")

	if !Equal(a, b) {
		t.Error("Equal() = false for identical trees")
	}
	b.Children[0].Text = "1"
	if Equal(a, b) {
		t.Error("Equal() = true for trees with different text")
	}
	if Equal(a, nil) {
		t.Error("Equal(a, nil) = true")
	}
}

func TestElementName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Settings", "Settings"},
		{"Pair[int,string]", "Pair.int.string"},
		{"Outer+Inner", "Outer.Inner"},
		{"[]int", "int"},
		{"9lives", "_9lives"},
		{"", "_"},
		{"a..b", "a..b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ElementName(tt.in); got != tt.want {
				t.Errorf("ElementName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"plain", true},
		{"tab\tnewline\ncr\r", true},
		{"Größe 😀", true},
		{"bell\x07", false},
		{"nul\x00", false},
		{"\uFFFE", false},
		{"\xff", false},
	}
	for _, tt := range tests {
		if got := ValidText(tt.in); got != tt.want {
			t.Errorf("ValidText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
