package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Demo Conference", "demo-conference"},
		{"title with year", "GopherCon EU 2026", "gophercon-eu-2026"},
		{"punctuation", "Rock & Roll @ the Arena!", "rock-roll-the-arena"},
		{"dots removed", "Version 2.0 Launch", "version-20-launch"},
		{"tabs and newlines", "hello\tworld\nagain", "hello-world-again"},
		{"repeated spaces", "  Night   Market  ", "night-market"},
		{"existing hyphens", "well--known - fact", "well-known-fact"},
		{"non ascii stripped", "Café Noël", "caf-nol"},
		{"only symbols", "!!! ???", ""},
		{"empty", "", ""},
		{"dates", "2026-02-25 Meetup", "2026-02-25-meetup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerate_Truncates(t *testing.T) {
	title := strings.Repeat("summit ", 20) // 140 characters
	got := Generate(title)

	if len(got) > MaxLen {
		t.Fatalf("len = %d, want <= %d", len(got), MaxLen)
	}
	if strings.HasSuffix(got, "-") || strings.HasSuffix(got, "summi") {
		t.Errorf("slug should end on a whole word, got %q", got)
	}
	if !Valid(got) {
		t.Errorf("truncated slug %q should be valid", got)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	for _, in := range []string{"Demo Conference", "Rock & Roll", "a--b"} {
		once := Generate(in)
		if twice := Generate(once); twice != once {
			t.Errorf("Generate(Generate(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"demo-conf", true},
		{"2026", true},
		{"a", true},
		{"", false},
		{"Demo-Conf", false},
		{"demo--conf", false},
		{"-demo", false},
		{"demo-", false},
		{"demo conf", false},
		{"demo_conf", false},
		{strings.Repeat("a", MaxLen), true},
		{strings.Repeat("a", MaxLen+1), false},
	}
	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
