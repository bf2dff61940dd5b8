package symtab

import "testing"

func TestLookupWalksUpToParent(t *testing.T) {
	root := NewScope(nil)
	root.InsertVariable(&Variable{Name: "x", Type: Int})
	child := root.NewChild()
	child.InsertVariable(&Variable{Name: "y", Type: Bool})

	if _, ok := child.Lookup("x"); !ok {
		t.Fatal("expected child scope to resolve x via parent")
	}
	if _, ok := root.Lookup("y"); ok {
		t.Fatal("did not expect root scope to see child-only y")
	}
}

func TestBuilderPushPop(t *testing.T) {
	root := NewScope(nil)
	b := NewBuilder(root)
	if b.Top() != root {
		t.Fatal("builder should start at root")
	}
	scope, guard := Enter(b)
	if b.Top() != scope {
		t.Fatal("push should make the new scope current")
	}
	guard.Close()
	if b.Top() != root {
		t.Fatal("pop should restore the parent scope")
	}
}

func TestVariableDescriptorSet(t *testing.T) {
	v := &Variable{Name: "a", Type: Int}
	if v.InMemory() || len(v.Locations) != 0 {
		t.Fatal("fresh variable should have an empty descriptor set")
	}
	v.AddLocation(Location{Kind: MemoryLocation})
	v.AddLocation(Location{Kind: RegisterLocation, Reg: 2})
	if !v.InMemory() {
		t.Fatal("expected variable to be in memory")
	}
	reg, ok := v.InRegister()
	if !ok || reg != 2 {
		t.Fatalf("expected register 2, got %d, %v", reg, ok)
	}
	v.RemoveRegister(2)
	if _, ok := v.InRegister(); ok {
		t.Fatal("expected register location to be removed")
	}
	if !v.InMemory() {
		t.Fatal("removing the register location should not affect the memory location")
	}
}

func TestIsTemporary(t *testing.T) {
	if (&Variable{Name: "x"}).IsTemporary() {
		t.Fatal("named variable should not be a temporary")
	}
	if !(&Variable{Name: "__t0"}).IsTemporary() {
		t.Fatal("__-prefixed variable should be a temporary")
	}
}

func TestWalkVisitsDescendants(t *testing.T) {
	root := NewScope(nil)
	root.InsertVariable(&Variable{Name: "a", Type: Int})
	child := root.NewChild()
	child.InsertVariable(&Variable{Name: "__t", Type: Int})

	var seen []string
	root.Walk(func(v *Variable) { seen = append(seen, v.Name) })
	if len(seen) != 2 {
		t.Fatalf("expected 2 variables, got %v", seen)
	}
}
