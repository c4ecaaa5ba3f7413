// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ironcalc

import (
	"math"
	"strconv"
	"strings"
)

// formatGeneralNumber renders v the way Excel's "General" format and the
// '&' concatenation operator do: integers with no decimal point, otherwise
// the shortest round-tripping decimal representation.
func formatGeneralNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'G', -1, 64)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'G', -1, 64)
}

// parseNumberText coerces text the way Excel's implicit text-to-number
// coercion does: trims surrounding space, accepts a trailing "%" (dividing
// by 100), and otherwise defers to strconv.
func parseNumberText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.HasSuffix(s, "%") {
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil {
			return 0, false
		}
		return n / 100, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
