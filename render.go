package maillib

import "strings"

// appendQuotedString renders v as an RFC 5322 quoted-string, escaping
// only what must be escaped.
func appendQuotedString(b []byte, v []byte) []byte {
	b = append(b, '"')
	for _, c := range v {
		if isBackslashOrQuote(c) {
			b = append(b, '\\')
		}
		b = append(b, c)
	}
	return append(b, '"')
}

// tryAppendingAtom appends v if it is a well-formed atom, or dot-atom
// when dot is true. Leading, trailing, and doubled dots disqualify it;
// canonical output never reproduces the obsolete forms.
func tryAppendingAtom(b []byte, v []byte, dot bool) ([]byte, bool) {
	if len(v) == 0 {
		return b, false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '.' && dot {
			if i == 0 || i == len(v)-1 || v[i+1] == '.' {
				return b, false
			}
			continue
		}
		if !isAtext(c, false) {
			return b, false
		}
	}
	return append(b, v...), true
}

// appendLocalPartText renders unescaped local-part content in canonical
// form: bare when it qualifies as a dot-atom, a minimally escaped
// quoted-string otherwise.
func appendLocalPartText(b []byte, text []byte) []byte {
	if nb, ok := tryAppendingAtom(b, text, true); ok {
		return nb
	}
	return appendQuotedString(b, text)
}

// appendLiteral renders a classified domain literal with its brackets and
// the family tag in canonical spelling.
func appendLiteral(b []byte, parts literalParts) []byte {
	b = append(b, '[')
	switch parts.family {
	case LiteralIPv4:
		b = append(b, parts.addr.String()...)
	case LiteralIPv6:
		b = append(b, "IPv6:"...)
		b = append(b, parts.addr.String()...)
	default:
		if parts.tag != "" {
			b = append(b, parts.tag...)
			b = append(b, ':')
		}
		b = append(b, parts.content...)
	}
	return append(b, ']')
}

// appendDisplayName renders a display name as space-separated atoms when
// every word qualifies, falling back to a single quoted-string.
func appendDisplayName(b []byte, name string) []byte {
	bare := len(name) > 0 && name[0] != ' ' && name[len(name)-1] != ' '
	if bare {
		for _, w := range strings.Split(name, " ") {
			if _, ok := tryAppendingAtom(nil, []byte(w), false); !ok {
				bare = false
				break
			}
		}
	}
	if bare {
		return append(b, name...)
	}
	return appendQuotedString(b, []byte(name))
}
