package license

import (
	"testing"
)

func TestNormalizeKnownNames(t *testing.T) {
	tests := []struct {
		raw      string
		wantSPDX string
	}{
		{"Apache License, Version 2.0", "Apache-2.0"},
		{"The Apache Software License, Version 2.0", "Apache-2.0"},
		{"Apache-2.0", "Apache-2.0"},
		{"ASL 2.0", "Apache-2.0"},
		{"MIT", "MIT"},
		{"The MIT License", "MIT"},
		{"BSD 3-Clause", "BSD-3-Clause"},
		{"New BSD License", "BSD-3-Clause"},
		{"Simplified BSD License", "BSD-2-Clause"},
		{"GPL-3.0", "GPL-3.0"},
		{"Mozilla Public License, Version 2.0", "MPL-2.0"},
		{"EPL-2.0", "EPL-2.0"},
		{"ISC", "ISC"},
		{"CC0-1.0", "CC0-1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Normalize([]string{tt.raw})
			if len(got) != 1 {
				t.Fatalf("Normalize(%q) returned %d entries", tt.raw, len(got))
			}
			if got[0].SPDXID != tt.wantSPDX {
				t.Errorf("Normalize(%q) SPDX = %q, want %q", tt.raw, got[0].SPDXID, tt.wantSPDX)
			}
			if got[0].URL == "" {
				t.Errorf("Normalize(%q) has no URL", tt.raw)
			}
		})
	}
}

func TestNormalizeUnknownPassesThrough(t *testing.T) {
	got := Normalize([]string{"  My Custom License  "})
	if len(got) != 1 {
		t.Fatalf("Normalize() returned %d entries", len(got))
	}
	if got[0].Name != "My Custom License" || got[0].SPDXID != "" {
		t.Errorf("Normalize() = %+v, want trimmed raw name without SPDX id", got[0])
	}
}

func TestNormalizeDedupes(t *testing.T) {
	got := Normalize([]string{"MIT", "The MIT License", "mit"})
	if len(got) != 1 {
		t.Errorf("Normalize() returned %d entries, want 1", len(got))
	}
}

func TestNormalizeSkipsEmpty(t *testing.T) {
	if got := Normalize([]string{"", "   "}); got != nil {
		t.Errorf("Normalize() = %+v, want nil", got)
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Apache-2.0", "apache 2 0"},
		{"Apache 2.0", "apache 2 0"},
		{"apache_2.0", "apache 2 0"},
		{"  MIT  ", "mit"},
	}
	for _, tt := range tests {
		if got := normalizeKey(tt.in); got != tt.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
