// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dicom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatDecimal formats v as a Decimal String (DS) value with at most precision significant
// digits. A precision of 0 or less selects the shortest representation that parses back to v.
// Trailing zeros of the fraction are removed unless keepTrailingZeros is set. An error is returned
// if the result does not fit the 16 bytes allowed for one DS value.
func FormatDecimal(v float64, precision int, keepTrailingZeros bool) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%v has no decimal string representation: %w", v, ErrInvalidValue)
	}

	var s string
	switch {
	case precision <= 0:
		s = strconv.FormatFloat(v, 'g', -1, 64)
	case keepTrailingZeros:
		s = fmt.Sprintf("%#.*g", precision, v)
		s = strings.TrimSuffix(s, ".")
	default:
		s = strconv.FormatFloat(v, 'g', precision, 64)
	}
	s = compactExponent(s)

	if len(s) > DSVR.maxLength {
		return "", &ValueError{VR: DSVR,
			Reason: fmt.Sprintf("%q exceeds %d bytes", s, DSVR.maxLength)}
	}
	return s, nil
}

// compactExponent rewrites "1.5e+06" as "1.5e6" and "2e-07" as "2e-7"
func compactExponent(s string) string {
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := ""
	switch {
	case strings.HasPrefix(exp, "-"):
		sign, exp = "-", exp[1:]
	case strings.HasPrefix(exp, "+"):
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		return mantissa
	}
	return mantissa + "e" + sign + exp
}

// Float64At parses value i of a DS value
func (s *ByteString) Float64At(i int) (float64, error) {
	v, err := s.GetValueAt(i, true)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing decimal string %q: %w", v, ErrInvalidValue)
	}
	return f, nil
}

// PutFloat64At puts the shortest decimal string representing f at index i. Values needing more
// than 16 bytes are rejected; use FormatDecimal with a lower precision and PutValueAt instead.
func (s *ByteString) PutFloat64At(i int, f float64) error {
	v, err := FormatDecimal(f, 0, false)
	if err != nil {
		return err
	}
	return s.PutValueAt(i, v)
}

// Int64At parses value i of an IS value
func (s *ByteString) Int64At(i int) (int64, error) {
	v, err := s.GetValueAt(i, true)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(v, "+"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing integer string %q: %w", v, ErrInvalidValue)
	}
	return n, nil
}

// PutInt64At puts n at index i. An Integer String (IS) holds values in [-2^31, 2^31-1].
func (s *ByteString) PutInt64At(i int, n int64) error {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return &ValueError{VR: ISVR, Reason: fmt.Sprintf("%d out of range", n)}
	}
	return s.PutValueAt(i, strconv.FormatInt(n, 10))
}
