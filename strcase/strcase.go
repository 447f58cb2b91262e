// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Based on https://github.com/ettle/strcase
// Copyright (c) 2020 Liyan David Chang under the MIT License

// Package strcase converts Go identifiers into the kebab-case names
// used for command line flags. It is based on https://github.com/ettle/strcase,
// which is Copyright (c) 2020 Liyan David Chang under the MIT License.
// Acronyms stay together as one word: HTTPAddr becomes http-addr.
package strcase

// ToKebab returns words in kebab-case (lower case words with dashes).
// Also known as dash-case.
func ToKebab(s string) string {
	return convert(s, '-')
}
