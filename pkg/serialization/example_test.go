package serialization_test

import (
	"fmt"

	"github.com/matzehuels/stowage/pkg/catalog"
	"github.com/matzehuels/stowage/pkg/node"
	"github.com/matzehuels/stowage/pkg/serialization"
)

type Crate struct {
	Label string
	Items []string
	Next  *Crate
}

func ExampleSerializer() {
	s := serialization.NewSerializer()
	root, _ := s.Serialize([]int{1, 2, 3})

	items := root.Child(node.ElemItems)
	fmt.Println(root.Name, len(items.Children))
	for _, item := range items.Children {
		v, _ := item.Attr(node.AttrValue)
		fmt.Print(v, " ")
	}
	fmt.Println()
	// Output:
	// int 3
	// 1 2 3
}

func ExampleDeserializer() {
	c := catalog.New("github.com/matzehuels/stowage/pkg/serialization_test")
	c.Register(Crate{})

	a := &Crate{Label: "a", Items: []string{"x", "y"}}
	a.Next = a

	root, _ := serialization.NewSerializer(serialization.WithCatalog(c)).Serialize(a)
	v, _ := serialization.NewDeserializer(serialization.WithCatalog(c)).Deserialize(root)

	got := v.(*Crate)
	fmt.Println(got.Label, got.Items, got.Next == got)
	// Output: a [x y] true
}
