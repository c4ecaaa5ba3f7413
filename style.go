// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import "fmt"

// Style is the full formatting record a style index resolves to. Font,
// Fill, Border and Alignment are opaque to the calculation core (spec §1:
// the persistent style catalog lives in the XLSX import/export
// collaborator) — the core only reads and writes NumFmt, since unit
// propagation (§4.2) and per-cell explicit formats are evaluator concerns.
type Style struct {
	Font         string // opaque handle, e.g. a font-table index rendered as text
	Fill         string
	Border       string
	Alignment    string
	NumFmt       string // e.g. "#,##0.00", "General", "m/d/yy"
	QuotePrefix  bool
	UserSetFmt   bool // true once a user (not the evaluator) has set NumFmt explicitly
}

// StyleCatalog mints and looks up style indices. Index 0 is the default
// style and always exists (spec §3). The catalog is append-only within a
// batch: indices never move, so cells that already reference an index keep
// a valid reference across later mints (spec §5).
type StyleCatalog struct {
	styles []Style
	index  map[Style]int
}

// NewStyleCatalog returns a catalog pre-populated with the default style at
// index 0.
func NewStyleCatalog() *StyleCatalog {
	c := &StyleCatalog{index: make(map[Style]int)}
	c.styles = append(c.styles, Style{NumFmt: "General"})
	c.index[c.styles[0]] = 0
	return c
}

// Mint returns the index for s, reusing an existing index if an identical
// style was already minted.
func (c *StyleCatalog) Mint(s Style) int {
	if i, ok := c.index[s]; ok {
		return i
	}
	i := len(c.styles)
	c.styles = append(c.styles, s)
	c.index[s] = i
	return i
}

// All returns a copy of every minted style, in index order (index 0 is
// always the default style).
func (c *StyleCatalog) All() []Style {
	out := make([]Style, len(c.styles))
	copy(out, c.styles)
	return out
}

// Get returns the style at index i, or the default style if i is out of
// range.
func (c *StyleCatalog) Get(i int) Style {
	if i < 0 || i >= len(c.styles) {
		return c.styles[0]
	}
	return c.styles[i]
}

// NumberFormat returns the format string a style index resolves to, e.g.
// "0.00" or "General".
func (c *StyleCatalog) NumberFormat(i int) string {
	return c.Get(i).NumFmt
}

// WithNumFmt mints (or reuses) a style identical to the one at index i
// except for NumFmt. This is how the evaluator applies unit-propagated
// number formats (spec §4.5) without disturbing font/fill/border/alignment.
func (c *StyleCatalog) WithNumFmt(i int, numFmt string) int {
	s := c.Get(i)
	if s.NumFmt == numFmt {
		return i
	}
	s.NumFmt = numFmt
	s.UserSetFmt = false
	return c.Mint(s)
}

// WithUserNumFmt is like WithNumFmt but marks the result as user-set, so
// the evaluator's unit-propagation pass leaves it alone on subsequent
// recalculation (spec §4.5: "If the cell had an explicit user-set num_fmt,
// that wins").
func (c *StyleCatalog) WithUserNumFmt(i int, numFmt string) int {
	s := c.Get(i)
	s.NumFmt = numFmt
	s.UserSetFmt = true
	return c.Mint(s)
}

// builtInNumFmt maps built-in numFmtId values (0-49) to their canonical
// format strings, per ECMA-376 §18.8.30.
var builtInNumFmt = map[int]string{
	0: "General", 1: "0", 2: "0.00", 3: "#,##0", 4: "#,##0.00",
	9: "0%", 10: "0.00%", 11: "0.00E+00", 12: "# ?/?", 13: "# ??/??",
	14: "MM-DD-YY", 15: "d-mmm-yy", 16: "d-mmm", 17: "mmm-yy",
	18: "h:mm AM/PM", 19: "h:mm:ss AM/PM", 20: "h:mm", 21: "h:mm:ss", 22: "m/d/yy h:mm",
	37: `(#,##0_);(#,##0)`, 38: `(#,##0_);[Red](#,##0)`,
	39: `(#,##0.00_);(#,##0.00)`, 40: `(#,##0.00_);[Red](#,##0.00)`,
	45: "mm:ss", 46: "[h]:mm:ss", 47: "mm:ss.0", 48: "##0.0E+0", 49: "@",
}

// ApplyIndexedTint applies the OOXML indexed-color tint algorithm (HSL,
// HSLMAX=100%) to a base "#RRGGBB" color. This is specified at the
// interface boundary (spec §6.2) for the external XLSX collaborator; the
// calculation core itself never calls it.
func ApplyIndexedTint(hex string, tint float64) (string, error) {
	r, g, b, err := hexToRGB(hex)
	if err != nil {
		return "", err
	}
	h, s, l := rgbToHSL(r, g, b)
	if tint < 0 {
		l = l * (1.0 + tint)
	} else {
		l = l*(1.0-tint) + tint
	}
	if l < 0 {
		l = 0
	}
	if l > 1 {
		l = 1
	}
	nr, ng, nb := hslToRGB(h, s, l)
	return fmt.Sprintf("#%02X%02X%02X", nr, ng, nb), nil
}

func hexToRGB(hex string) (r, g, b float64, err error) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, fmt.Errorf("ironcalc: invalid color %q", hex)
	}
	var ri, gi, bi int
	if _, err = fmt.Sscanf(hex[1:], "%02x%02x%02x", &ri, &gi, &bi); err != nil {
		return 0, 0, 0, fmt.Errorf("ironcalc: invalid color %q: %w", hex, err)
	}
	return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255, nil
}

func rgbToHSL(r, g, b float64) (h, s, l float64) {
	max := maxF(r, g, b)
	min := minF(r, g, b)
	l = (max + min) / 2
	if max == min {
		return 0, 0, l
	}
	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}
	h /= 6
	return h, s, l
}

func hslToRGB(h, s, l float64) (r, g, b int) {
	if s == 0 {
		v := int(l * 255)
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r = int(hueToRGB(p, q, h+1.0/3) * 255)
	g = int(hueToRGB(p, q, h) * 255)
	b = int(hueToRGB(p, q, h-1.0/3) * 255)
	return
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func maxF(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minF(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
