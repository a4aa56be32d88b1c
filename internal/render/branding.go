package render

import (
	"fmt"
	"os"
	"strconv"
)

// Branding holds the shared visual identity applied by every renderer
type Branding struct {
	CompanyName string
	LogoPNG     []byte

	HeaderColor string // hex RRGGBB, header row fill
	ZebraColor  string // hex RRGGBB, alternate row fill
	TextColor   string // hex RRGGBB, header row text
}

// DefaultBranding returns the standard palette for the given company name
func DefaultBranding(companyName string) *Branding {
	return &Branding{
		CompanyName: companyName,
		HeaderColor: "2E7D32",
		ZebraColor:  "E8F5E9",
		TextColor:   "FFFFFF",
	}
}

// LoadLogo reads the logo image from disk. A missing logo is not fatal to
// rendering; callers decide how to handle the error.
func (b *Branding) LoadLogo(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load logo: %w", err)
	}
	b.LogoPNG = data
	return nil
}

// hexRGB splits a RRGGBB hex color into its components. Unparseable colors
// fall back to black.
func hexRGB(s string) (int, int, int) {
	if len(s) != 6 {
		return 0, 0, 0
	}
	r, err1 := strconv.ParseInt(s[0:2], 16, 0)
	g, err2 := strconv.ParseInt(s[2:4], 16, 0)
	b, err3 := strconv.ParseInt(s[4:6], 16, 0)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0
	}
	return int(r), int(g), int(b)
}
