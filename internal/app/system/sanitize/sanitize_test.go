package sanitize

import "testing"

func TestFolderName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name unchanged", "Recordings", "Recordings"},
		{"spaces preserved", "My Captures", "My Captures"},
		{"backslash", `a\b`, "a_b"},
		{"forward slash", "a/b", "a_b"},
		{"colon", "a:b", "a_b"},
		{"asterisk", "a*b", "a_b"},
		{"question mark", "a?b", "a_b"},
		{"double quote", `a"b`, "a_b"},
		{"less than", "a<b", "a_b"},
		{"greater than", "a>b", "a_b"},
		{"pipe", "a|b", "a_b"},
		{"every unsafe character", `\/:*?"<>|`, "_________"},
		{"mixed", `Field Notes: 2026/08?`, "Field Notes_ 2026_08_"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FolderName(tt.in); got != tt.want {
				t.Errorf("FolderName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	if got := BaseName("  note 1  "); got != "note 1" {
		t.Errorf("BaseName() = %q, want %q", got, "note 1")
	}
	if got := BaseName("note"); got != "note" {
		t.Errorf("BaseName() = %q, want %q", got, "note")
	}
}
