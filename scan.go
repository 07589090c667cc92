package maillib

// maxCommentDepth bounds the nesting of parenthetical comments so that
// adversarial input cannot make parsing arbitrarily expensive.
const maxCommentDepth = 32

// scanner is a one-pass classifier over a byte slice. It never fails;
// bytes that cannot start or continue a well-formed run are emitted as a
// tokenInvalid token for the parser to turn into an error. The scanner
// keeps no backtracking state of its own.
type scanner struct {
	s []byte
	i int
}

// next returns the following token. After the input is exhausted it keeps
// returning tokenEnd.
func (sc *scanner) next() token {
	if sc.i >= len(sc.s) {
		return token{Type: tokenEnd, Off: len(sc.s)}
	}
	c := sc.s[sc.i]
	switch {
	case c == '"':
		return sc.scanQuotedString()
	case c == '(':
		return sc.scanComment()
	case c == '[':
		return sc.scanDomainLiteral()
	case isWSP(c) || c == '\r' || c == '\n':
		return sc.scanFWS()
	case isAtext(c, false):
		return sc.scanAtom()
	}
	switch c {
	case '@', '.', '<', '>', ',', ':', ';', '\\', ')', ']':
		t := token{Type: tokenSpecial, Off: sc.i, Data: sc.s[sc.i : sc.i+1]}
		sc.i++
		return t
	}
	t := token{Type: tokenInvalid, Off: sc.i, Data: sc.s[sc.i : sc.i+1], Fault: faultBadChar}
	sc.i++
	return t
}

func (sc *scanner) scanAtom() token {
	s := sc.i
	i := s
	for ; i < len(sc.s); i++ {
		if !isAtext(sc.s[i], false) {
			break
		}
	}
	sc.i = i
	return token{Type: tokenAtom, Off: s, Data: sc.s[s:i]}
}

// scanQuotedString consumes a quoted-string run up to the nearest
// unescaped double quote. The returned token data includes both quote
// delimiters; unescaping is left to the parser.
func (sc *scanner) scanQuotedString() token {
	s := sc.i
	i := s + 1
	for i < len(sc.s) {
		c := sc.s[i]
		i++
		switch c {
		case '"':
			t := token{Type: tokenQuotedString, Off: s, Data: sc.s[s:i]}
			sc.i = i
			return t
		case '\\':
			if i >= len(sc.s) {
				sc.i = i
				return token{Type: tokenInvalid, Off: s, Data: sc.s[s:i], Fault: faultUnterminatedQuote}
			}
			c = sc.s[i]
			i++
			if !isVchar(c) && !isWSP(c) {
				t := token{Type: tokenInvalid, Off: i - 1, Data: sc.s[s:i], Fault: faultBadChar}
				sc.i = i
				return t
			}
		default:
			if !isQtext(c) && !isWSP(c) {
				t := token{Type: tokenInvalid, Off: i - 1, Data: sc.s[s:i], Fault: faultBadChar}
				sc.i = i
				return t
			}
		}
	}
	sc.i = i
	return token{Type: tokenInvalid, Off: s, Data: sc.s[s:], Fault: faultUnterminatedQuote}
}

// scanComment consumes a parenthetical comment, including nested ones.
// Nesting deeper than maxCommentDepth stops the scan with faultTooDeep.
func (sc *scanner) scanComment() token {
	s := sc.i
	i := s + 1
	depth := 1
	for i < len(sc.s) {
		c := sc.s[i]
		i++
		if c == '\\' && i < len(sc.s) {
			i++
		} else if c == '(' {
			depth++
			if depth > maxCommentDepth {
				sc.i = i
				return token{Type: tokenInvalid, Off: i - 1, Data: sc.s[s:i], Fault: faultTooDeep}
			}
		} else if c == ')' {
			depth--
			if depth == 0 {
				t := token{Type: tokenComment, Off: s, Data: sc.s[s:i]}
				sc.i = i
				return t
			}
		}
	}
	sc.i = i
	return token{Type: tokenInvalid, Off: s, Data: sc.s[s:], Fault: faultUnterminatedComment}
}

// scanDomainLiteral consumes a bracketed literal up to the nearest
// unescaped closing bracket. Content is kept verbatim, brackets included.
func (sc *scanner) scanDomainLiteral() token {
	s := sc.i
	i := s + 1
	for i < len(sc.s) {
		c := sc.s[i]
		i++
		if c == '\\' && i < len(sc.s) {
			i++
			continue
		}
		if c == ']' {
			t := token{Type: tokenDomainLiteral, Off: s, Data: sc.s[s:i]}
			sc.i = i
			return t
		}
		if !isDtext(c) && !isWSP(c) {
			t := token{Type: tokenInvalid, Off: i - 1, Data: sc.s[s:i], Fault: faultBadChar}
			sc.i = i
			return t
		}
	}
	sc.i = i
	return token{Type: tokenInvalid, Off: s, Data: sc.s[s:], Fault: faultUnterminatedLiteral}
}

// scanFWS consumes folding white space: runs of space and tab, where a
// CRLF is tolerated only when followed by more white space (RFC 5322
// folding). A bare CR or LF is not white space and invalidates the run.
func (sc *scanner) scanFWS() token {
	s := sc.i
	i := s
	for i < len(sc.s) {
		c := sc.s[i]
		if isWSP(c) {
			i++
			continue
		}
		if c == '\r' || c == '\n' {
			j := i
			if c == '\r' {
				j++
				if j >= len(sc.s) || sc.s[j] != '\n' {
					t := token{Type: tokenInvalid, Off: i, Data: sc.s[s:j], Fault: faultBadChar}
					sc.i = j
					return t
				}
			}
			j++
			if j >= len(sc.s) || !isWSP(sc.s[j]) {
				t := token{Type: tokenInvalid, Off: i, Data: sc.s[s:j], Fault: faultBadChar}
				sc.i = j
				return t
			}
			i = j + 1
			continue
		}
		break
	}
	sc.i = i
	return token{Type: tokenFWS, Off: s, Data: sc.s[s:i]}
}
