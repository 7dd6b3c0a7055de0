package notes

import (
	"strings"
	"testing"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in     string
		want   Language
		wantOK bool
	}{
		{"sql", SQL, true},
		{"SQL", SQL, true},
		{"C++", Cpp, true},
		{"cpp", Cpp, true},
		{"Plain Text", Plaintext, true},
		{"py", Python, true},
		{"", Plaintext, false},
		{"cobol", Plaintext, false},
	}
	for _, tt := range tests {
		got, ok := ParseLanguage(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLanguage(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLanguageNextCycles(t *testing.T) {
	all := Languages()
	l := Plaintext
	for i := 0; i < len(all); i++ {
		l = l.Next()
	}
	if l != Plaintext {
		t.Errorf("after full cycle got %q, want plaintext", l)
	}
	if Language("cobol").Next() != all[0] {
		t.Errorf("unknown language should restart the cycle")
	}
}

func TestLanguageLabels(t *testing.T) {
	for _, l := range Languages() {
		if !l.Valid() {
			t.Errorf("%q not valid", l)
		}
		if l.Label() == "" {
			t.Errorf("%q has no label", l)
		}
	}
	if Plaintext.Highlighted() {
		t.Errorf("plaintext should not be highlighted")
	}
	if Language("cobol").Label() != "cobol" {
		t.Errorf("unknown label = %q", Language("cobol").Label())
	}
}

func TestSequenceFormat(t *testing.T) {
	seq := NewSequence()
	a, b := seq.NewID(), seq.NewID()
	if a == b {
		t.Fatalf("duplicate id %q", a)
	}
	if !strings.HasPrefix(a, "nt-") {
		t.Errorf("id %q lacks nt- prefix", a)
	}
	if NewSequence().NewID() == a {
		t.Errorf("separate sessions produced the same id")
	}
}
