// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maillib

type tokenType int

const (
	tokenAtom tokenType = iota
	tokenQuotedString
	tokenDomainLiteral
	tokenFWS
	tokenComment
	tokenSpecial
	tokenInvalid
	tokenEnd
)

type faultKind int

const (
	faultNone faultKind = iota
	faultUnterminatedQuote
	faultUnterminatedComment
	faultUnterminatedLiteral
	faultTooDeep
	faultBadChar
)

// token is a single lexical unit of the address grammar. Off is the byte
// offset of the token in the scanned input; for tokenInvalid it is the
// offset of the byte that made the run invalid, or the start of a run
// that never terminated.
type token struct {
	Type  tokenType
	Off   int
	Data  []byte
	Fault faultKind
}

// isAtext reports whether r is an RFC 5322 atext character.
// If dot is true, period is included.
func isAtext(r byte, dot bool) bool {
	switch r {
	case '.':
		return dot

	// RFC 5322 3.2.3. specials
	case '(', ')', '<', '>', '[', ']', ':', ';', '@', '\\', ',', '"':
		return false
	}
	return isVchar(r)
}

func isBackslashOrQuote(r byte) bool {
	return r == '\\' || r == '"'
}

// isQtext reports whether r is an RFC 5322 qtext character.
func isQtext(r byte) bool {
	// Printable US-ASCII, excluding backslash or quote.
	if isBackslashOrQuote(r) {
		return false
	}
	return isVchar(r)
}

// isVchar reports whether r is an RFC 5322 VCHAR character.
func isVchar(r byte) bool {
	// Visible (printing) characters.
	return '!' <= r && r <= '~' || r >= 0x80
}

// isWSP reports whether r is a WSP (white space).
// WSP is a space or horizontal tab (RFC 5234 Appendix B).
func isWSP(r byte) bool {
	return r == ' ' || r == '\t'
}

// isDtext reports whether r is an RFC 5322 dtext character.
func isDtext(r byte) bool {
	// Printable US-ASCII, excluding "[", "]", or "\".
	if r == '[' || r == ']' || r == '\\' {
		return false
	}
	return isVchar(r)
}

// isLdh reports whether r is a letter, digit, or hyphen, the charset of a
// domain-literal standardized tag (RFC 5321 Ldh-str).
func isLdh(r byte) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-'
}
