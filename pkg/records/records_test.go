package records

import (
	"encoding/json"
	"strings"
	"testing"
)

func decode(t *testing.T, s string) Record {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var r Record
	if err := dec.Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return r
}

func TestStringAccessor(t *testing.T) {
	r := decode(t, `{"a":"x","b":null,"c":7}`)

	if got := r.String("a"); got == nil || *got != "x" {
		t.Fatalf("a=%v want x", got)
	}
	if got := r.String("b"); got != nil {
		t.Fatalf("null should resolve to nil, got %q", *got)
	}
	if got := r.String("missing"); got != nil {
		t.Fatalf("missing should resolve to nil, got %q", *got)
	}
	if got := r.String("c"); got != nil {
		t.Fatalf("number is not a string, got %q", *got)
	}
}

func TestInt64Accessor(t *testing.T) {
	r := decode(t, `{"i":1541105830796,"f":2008.0,"s":"42","bad":"x","n":null}`)

	if got := r.Int64("i"); got == nil || *got != 1541105830796 {
		t.Fatalf("i=%v want 1541105830796", got)
	}
	if got := r.Int64("f"); got == nil || *got != 2008 {
		t.Fatalf("integral float f=%v want 2008", got)
	}
	if got := r.Int64("s"); got == nil || *got != 42 {
		t.Fatalf("s=%v want 42", got)
	}
	for _, k := range []string{"bad", "n", "missing"} {
		if got := r.Int64(k); got != nil {
			t.Fatalf("%s should resolve to nil, got %d", k, *got)
		}
	}
}

func TestFloat64Accessor(t *testing.T) {
	r := decode(t, `{"d":218.93179,"i":4,"bad":{}}`)

	if got := r.Float64("d"); got == nil || *got != 218.93179 {
		t.Fatalf("d=%v want 218.93179", got)
	}
	if got := r.Float64("i"); got == nil || *got != 4 {
		t.Fatalf("i=%v want 4", got)
	}
	if got := r.Float64("bad"); got != nil {
		t.Fatalf("object should resolve to nil, got %v", *got)
	}
}
