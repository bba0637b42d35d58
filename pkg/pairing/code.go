/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pairing

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	// CodeLength is the number of characters in pairing and connection codes.
	CodeLength = 6

	// connectionAlphabet leaves out characters that are easy to misread on a TV (0/O, 1/I/L).
	connectionAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// GenerateConnectionCode returns a random code for display on the device screen.
func GenerateConnectionCode() (string, error) {
	limit := big.NewInt(int64(len(connectionAlphabet)))

	var b strings.Builder

	b.Grow(CodeLength)

	for range CodeLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate connection code: %w", err)
		}

		b.WriteByte(connectionAlphabet[n.Int64()])
	}

	return b.String(), nil
}

// NormalizeCode trims and upper-cases raw, then checks the code format.
func NormalizeCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !codePattern.MatchString(code) {
		return "", fmt.Errorf("%w: expected %d letters or digits", ErrInvalidCode, CodeLength)
	}

	return code, nil
}
