package version

import "testing"

func TestCheckPragmaNoConstraint(t *testing.T) {
	if err := CheckPragma("int main() { return 0; }"); err != nil {
		t.Fatalf("CheckPragma with no pragma: %v", err)
	}
}

func TestCheckPragmaSatisfied(t *testing.T) {
	src := "// requires >=0.1.0, <1.0.0\nint main() { return 0; }"
	if err := CheckPragma(src); err != nil {
		t.Fatalf("CheckPragma: %v", err)
	}
}

func TestCheckPragmaUnsatisfied(t *testing.T) {
	src := "// requires >=99.0.0\nint main() { return 0; }"
	if err := CheckPragma(src); err == nil {
		t.Fatalf("expected a version mismatch error")
	}
}

func TestCheckPragmaMalformed(t *testing.T) {
	src := "// requires not-a-constraint\nint main() { return 0; }"
	if err := CheckPragma(src); err == nil {
		t.Fatalf("expected a syntax error for a malformed constraint")
	}
}

func TestPrintPlainText(t *testing.T) {
	out := Print("tacc", false)
	if !contains(out, "tacc v"+VersionString) {
		t.Fatalf("expected plain-text version banner, got: %q", out)
	}
}

func TestPrintJSON(t *testing.T) {
	out := Print("tacc", true)
	if !contains(out, `"version": "`+VersionString+`"`) {
		t.Fatalf("expected JSON version field, got: %q", out)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
