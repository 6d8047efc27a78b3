// Package license normalizes textual license names from POM declarations
// into SPDX-tagged entries.
package license

import (
	"strings"

	"github.com/packdex/packdex/pkg/catalog"
)

// known maps a normalized license name to its canonical entry. Keys are
// lowercased with punctuation collapsed; see normalizeKey.
var known = map[string]catalog.License{
	"apache 2":                                 apache2,
	"apache 2 0":                               apache2,
	"apache license version 2 0":               apache2,
	"the apache software license version 2 0":  apache2,
	"the apache license version 2 0":           apache2,
	"asl 2 0":                                  apache2,
	"mit":                                      mit,
	"mit license":                              mit,
	"the mit license":                          mit,
	"bsd":                                      bsd3,
	"bsd 3 clause":                             bsd3,
	"bsd 3 clause license":                     bsd3,
	"new bsd license":                          bsd3,
	"bsd 2 clause":                             bsd2,
	"bsd 2 clause license":                     bsd2,
	"simplified bsd license":                   bsd2,
	"gpl 2 0":                                  {Name: "GNU General Public License v2.0", SPDXID: "GPL-2.0", URL: "https://opensource.org/licenses/GPL-2.0"},
	"gpl 3 0":                                  gpl3,
	"gnu general public license v3 0":          gpl3,
	"lgpl 3 0":                                 lgpl3,
	"gnu lesser general public license v3 0":   lgpl3,
	"mpl 2 0":                                  mpl2,
	"mozilla public license version 2 0":       mpl2,
	"epl 1 0":                                  {Name: "Eclipse Public License 1.0", SPDXID: "EPL-1.0", URL: "https://opensource.org/licenses/EPL-1.0"},
	"epl 2 0":                                  {Name: "Eclipse Public License 2.0", SPDXID: "EPL-2.0", URL: "https://opensource.org/licenses/EPL-2.0"},
	"eclipse public license version 2 0":       {Name: "Eclipse Public License 2.0", SPDXID: "EPL-2.0", URL: "https://opensource.org/licenses/EPL-2.0"},
	"isc":                                      {Name: "ISC License", SPDXID: "ISC", URL: "https://opensource.org/licenses/ISC"},
	"unlicense":                                {Name: "The Unlicense", SPDXID: "Unlicense", URL: "https://unlicense.org"},
	"the unlicense":                            {Name: "The Unlicense", SPDXID: "Unlicense", URL: "https://unlicense.org"},
	"cc0":                                      {Name: "CC0 1.0 Universal", SPDXID: "CC0-1.0", URL: "https://creativecommons.org/publicdomain/zero/1.0/"},
	"cc0 1 0":                                  {Name: "CC0 1.0 Universal", SPDXID: "CC0-1.0", URL: "https://creativecommons.org/publicdomain/zero/1.0/"},
}

var (
	apache2 = catalog.License{Name: "Apache License 2.0", SPDXID: "Apache-2.0", URL: "https://opensource.org/licenses/Apache-2.0"}
	mit     = catalog.License{Name: "MIT License", SPDXID: "MIT", URL: "https://opensource.org/licenses/MIT"}
	bsd3    = catalog.License{Name: "BSD 3-Clause License", SPDXID: "BSD-3-Clause", URL: "https://opensource.org/licenses/BSD-3-Clause"}
	bsd2    = catalog.License{Name: "BSD 2-Clause License", SPDXID: "BSD-2-Clause", URL: "https://opensource.org/licenses/BSD-2-Clause"}
	gpl3    = catalog.License{Name: "GNU General Public License v3.0", SPDXID: "GPL-3.0", URL: "https://opensource.org/licenses/GPL-3.0"}
	lgpl3   = catalog.License{Name: "GNU Lesser General Public License v3.0", SPDXID: "LGPL-3.0", URL: "https://opensource.org/licenses/LGPL-3.0"}
	mpl2    = catalog.License{Name: "Mozilla Public License 2.0", SPDXID: "MPL-2.0", URL: "https://opensource.org/licenses/MPL-2.0"}
)

// Normalize maps raw license names to canonical entries, deduplicated in
// input order. Unrecognized names pass through with the raw name only, so
// declared licensing information is never lost.
func Normalize(raw []string) []catalog.License {
	var out []catalog.License
	seen := make(map[string]bool)
	for _, name := range raw {
		entry, ok := known[normalizeKey(name)]
		if !ok {
			entry = catalog.License{Name: strings.TrimSpace(name)}
		}
		key := entry.SPDXID
		if key == "" {
			key = entry.Name
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, entry)
	}
	return out
}

// normalizeKey lowercases a name and collapses punctuation runs to single
// spaces, so "Apache-2.0", "Apache 2.0" and "apache_2.0" share a key.
func normalizeKey(name string) string {
	var b strings.Builder
	space := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			space = false
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}
