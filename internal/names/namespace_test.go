package names

import (
	"reflect"
	"testing"
)

func TestNamespacePushIsImmutable(t *testing.T) {
	base := ParseNamespace("outer")
	child := base.Push("inner")

	if base.String() != "outer" {
		t.Errorf("Push mutated receiver: got %q", base.String())
	}
	if child.String() != "outer::inner" {
		t.Errorf("child = %q, want outer::inner", child.String())
	}
}

func TestNamespaceDepthAndSegments(t *testing.T) {
	tests := []struct {
		input    string
		depth    int
		segments []string
	}{
		{"", 0, nil},
		{"a", 1, []string{"a"}},
		{"a::b::c", 3, []string{"a", "b", "c"}},
		{"::a::b", 2, []string{"a", "b"}},
	}
	for _, tt := range tests {
		ns := ParseNamespace(tt.input)
		if got := ns.Depth(); got != tt.depth {
			t.Errorf("ParseNamespace(%q).Depth() = %d, want %d", tt.input, got, tt.depth)
		}
		if got := ns.Segments(); !reflect.DeepEqual(got, tt.segments) {
			t.Errorf("ParseNamespace(%q).Segments() = %v, want %v", tt.input, got, tt.segments)
		}
	}
}

func TestNamespaceDisplaySuffix(t *testing.T) {
	if got := NewNamespace().DisplaySuffix(); got != "" {
		t.Errorf("global namespace suffix = %q, want empty", got)
	}
	if got := ParseNamespace("a::b").DisplaySuffix(); got != " (in namespace a::b)" {
		t.Errorf("suffix = %q", got)
	}
}

func TestNamespacePushEmptySegmentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Push(\"\") did not panic")
		}
	}()
	NewNamespace().Push("")
}
