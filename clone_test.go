package ctxvars

import (
	"testing"
	"time"
)

func TestCloneScalars(t *testing.T) {
	if got := Clone(42); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := Clone("hello"); got != "hello" {
		t.Fatalf("expected 'hello', got %q", got)
	}
	if got := Clone[*int](nil); got != nil {
		t.Fatalf("expected nil pointer clone, got %v", got)
	}
}

func TestCloneMapIsDetached(t *testing.T) {
	original := map[string]any{
		"name":   "worker",
		"labels": map[string]string{"env": "prod"},
	}

	cloned := Clone(original)
	original["name"] = "mutated"
	original["labels"].(map[string]string)["env"] = "mutated"

	if cloned["name"] != "worker" {
		t.Fatalf("expected detached top-level value, got %v", cloned["name"])
	}
	if cloned["labels"].(map[string]string)["env"] != "prod" {
		t.Fatalf("expected detached nested map, got %v", cloned["labels"])
	}
}

func TestCloneSliceIsDetached(t *testing.T) {
	original := []int{1, 2, 3}
	cloned := Clone(original)
	original[0] = 99

	if cloned[0] != 1 {
		t.Fatalf("expected detached slice, got %v", cloned)
	}
}

func TestCloneStructWithUnexportedFields(t *testing.T) {
	want := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	if got := Clone(want); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	type wrapper struct {
		Name string
		At   time.Time
	}
	original := wrapper{Name: "job", At: want}
	cloned := Clone(original)
	if cloned.Name != "job" || !cloned.At.Equal(want) {
		t.Fatalf("unexpected clone: %+v", cloned)
	}
}

func TestCloneStructWithPointer(t *testing.T) {
	type payload struct {
		Name  string
		Count *int
	}
	count := 7
	original := payload{Name: "job", Count: &count}

	cloned := Clone(original)
	count = 99

	if cloned.Count == original.Count {
		t.Fatalf("expected pointer field to be reallocated")
	}
	if *cloned.Count != 7 {
		t.Fatalf("expected detached pointee, got %d", *cloned.Count)
	}
}
