package json

import (
	"encoding/json"
	"io"
	"strings"
	"testing"
)

func TestNextNDJSON(t *testing.T) {
	in := `{"page":"NextSong","ts":1541105830796}
{"page":"Home","ts":1541106106796}
`
	d := NewDecoder(strings.NewReader(in), Options{})

	r1, err := d.Next()
	if err != nil {
		t.Fatalf("next 1: %v", err)
	}
	if got := r1.String("page"); got == nil || *got != "NextSong" {
		t.Fatalf("page=%v", got)
	}
	if got := r1.Int64("ts"); got == nil || *got != 1541105830796 {
		t.Fatalf("ts=%v", got)
	}

	if _, err := d.Next(); err != nil {
		t.Fatalf("next 2: %v", err)
	}
	if _, err := d.Next(); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestNextTopLevelArray(t *testing.T) {
	in := `[{"song_id":"a"},{"song_id":"b"}]`
	recs, err := DecodeAll(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("decode all: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len=%d want 2", len(recs))
	}
	if got := recs[1].String("song_id"); got == nil || *got != "b" {
		t.Fatalf("song_id=%v", got)
	}
}

func TestNextSkipsJunkValues(t *testing.T) {
	in := "42\n\"noise\"\n{\"song_id\":\"a\"}\n"
	recs, err := DecodeAll(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("decode all: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len=%d want 1", len(recs))
	}
}

func TestNextEmptyInput(t *testing.T) {
	recs, err := DecodeAll(strings.NewReader(""), Options{})
	if err != nil {
		t.Fatalf("decode all: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("len=%d want 0", len(recs))
	}
}

func TestNextMalformedStream(t *testing.T) {
	d := NewDecoder(strings.NewReader(`{"a":`), Options{})
	if _, err := d.Next(); err == nil || err == io.EOF {
		t.Fatalf("want decode error, got %v", err)
	}
}

func TestNormalizeUnicode(t *testing.T) {
	// "é" as e + combining acute accent (NFD) should normalize to the
	// precomposed form when the option is on, and stay as-is when off.
	nfd := "Beyonce\u0301"
	nfc := "Beyonc\u00e9"
	raw, _ := json.Marshal(map[string]string{"artist": nfd})

	recs, err := DecodeAll(strings.NewReader(string(raw)), Options{NormalizeUnicode: true})
	if err != nil {
		t.Fatalf("decode all: %v", err)
	}
	if got := recs[0].String("artist"); got == nil || *got != nfc {
		t.Fatalf("normalized artist=%q want %q", *got, nfc)
	}

	recs, err = DecodeAll(strings.NewReader(string(raw)), Options{})
	if err != nil {
		t.Fatalf("decode all: %v", err)
	}
	if got := recs[0].String("artist"); got == nil || *got != nfd {
		t.Fatalf("unnormalized artist=%q want %q", *got, nfd)
	}
}
