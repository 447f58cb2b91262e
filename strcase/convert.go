// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Based on https://github.com/ettle/strcase
// Copyright (c) 2020 Liyan David Chang under the MIT License

package strcase

import (
	"strings"
	"unicode"
)

// SplitAction defines if and how to split a string
type SplitAction int

const (
	// Noop - Continue to next character
	Noop SplitAction = iota
	// Split - Split between words
	// e.g. to split between wordsWithoutDelimiters
	Split
	// SkipSplit - Split the word and drop the character
	// e.g. to split words with delimiters
	SkipSplit
)

// split decides where words start: at any space, underscore, dash
// or dot, which is dropped, before an upper case letter that follows
// a lower case one, and before the last letter of an acronym that
// starts a new word (HTTPAddr).
func split(prev, curr, next rune) SplitAction {
	switch curr {
	case ' ', '_', '-', '.':
		return SkipSplit
	}
	if !isUpper(curr) {
		return Noop
	}
	if isLower(prev) || unicode.IsDigit(prev) {
		return Split
	}
	if isUpper(prev) && isLower(next) {
		return Split
	}
	return Noop
}

// convert lower cases every word of input and joins the words
// with delimiter.
func convert(input string, delimiter rune) string {
	input = strings.TrimSpace(input)
	runes := []rune(input)
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input) + 4) // In case we need to write delimiters where they weren't before

	var prev, curr rune
	next := runes[0] // 0 length will have already returned so safe to index
	inWord := false
	for i := 0; i < len(runes); i++ {
		prev = curr
		curr = next
		if i+1 == len(runes) {
			next = 0
		} else {
			next = runes[i+1]
		}

		switch split(prev, curr, next) {
		case SkipSplit:
			inWord = false
			continue
		case Split:
			inWord = false
		}
		if !inWord && b.Len() > 0 {
			b.WriteRune(delimiter)
		}
		b.WriteRune(toLower(curr))
		inWord = true
	}
	return b.String()
}

func isUpper(r rune) bool {
	if r < unicode.MaxASCII {
		return 'A' <= r && r <= 'Z'
	}
	return unicode.IsUpper(r)
}

func isLower(r rune) bool {
	if r < unicode.MaxASCII {
		return 'a' <= r && r <= 'z'
	}
	return unicode.IsLower(r)
}

func toLower(r rune) rune {
	if r < unicode.MaxASCII {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		return r
	}
	return unicode.ToLower(r)
}
