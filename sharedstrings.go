// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

// SharedStrings is the workbook-level, append-only string interning table.
// Indices are stable for the life of the workbook (spec §3).
type SharedStrings struct {
	values []string
	index  map[string]uint32
}

// NewSharedStrings returns an empty table.
func NewSharedStrings() *SharedStrings {
	return &SharedStrings{index: make(map[string]uint32)}
}

// Intern returns the stable index for s, minting a new entry if s hasn't
// been seen before.
func (t *SharedStrings) Intern(s string) uint32 {
	if i, ok := t.index[s]; ok {
		return i
	}
	i := uint32(len(t.values))
	t.values = append(t.values, s)
	t.index[s] = i
	return i
}

// Lookup returns the string at i, or "" if i is out of range.
func (t *SharedStrings) Lookup(i uint32) string {
	if int(i) >= len(t.values) {
		return ""
	}
	return t.values[i]
}

// Len returns the number of interned strings.
func (t *SharedStrings) Len() int { return len(t.values) }

// All returns a copy of every interned string, in index order.
func (t *SharedStrings) All() []string {
	out := make([]string, len(t.values))
	copy(out, t.values)
	return out
}
