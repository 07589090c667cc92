package maillib

import (
	"net/netip"
	"strings"
)

// LocalPartKind says which grammar production produced a local part.
type LocalPartKind int

const (
	// DotAtom is an unquoted, dot-separated local part.
	DotAtom LocalPartKind = iota
	// Quoted is a local part that was written as a quoted-string.
	Quoted
)

// LocalPart is the part of an address before the "@". The stored text is
// the unescaped content; for quoted strings it holds neither the double
// quotes nor the escaping backslashes.
type LocalPart struct {
	kind LocalPartKind
	text string
}

func (lp LocalPart) Kind() LocalPartKind {
	return lp.kind
}

// Text returns the unescaped content.
func (lp LocalPart) Text() string {
	return lp.text
}

// String returns the canonical form: bare when the content qualifies as a
// dot-atom, a minimally escaped quoted-string otherwise.
func (lp LocalPart) String() string {
	return string(appendLocalPartText(nil, []byte(lp.text)))
}

// Equal compares the unescaped content byte for byte. The grammar leaves
// local-part case semantics to the address owner, so case matters here;
// see EmailAddress.EqualFold for the folded comparison mode.
func (lp LocalPart) Equal(o LocalPart) bool {
	return lp.text == o.text
}

// LiteralTag is the declared address family of a domain literal.
type LiteralTag int

const (
	LiteralIPv4 LiteralTag = iota
	LiteralIPv6
	LiteralGeneral
)

// Domain is the part of an address after the "@": either a registered
// name or a bracketed address literal.
type Domain struct {
	literal bool
	name    string // registered name, original letter case
	family  LiteralTag
	ip      netip.Addr
	tag     string // general literals only
	content string // general literals only
}

// IsLiteral reports whether the domain is a bracketed address literal.
func (d Domain) IsLiteral() bool {
	return d.literal
}

// Name returns the registered name with its original letter case, or ""
// for a literal.
func (d Domain) Name() string {
	return d.name
}

// Tag returns the literal's address family. Only meaningful when
// IsLiteral reports true.
func (d Domain) Tag() LiteralTag {
	return d.family
}

// Addr returns the literal's IP address, valid only for IPv4 and IPv6
// literals.
func (d Domain) Addr() (netip.Addr, bool) {
	if !d.literal || d.family == LiteralGeneral {
		return netip.Addr{}, false
	}
	return d.ip, true
}

// Content returns a general literal's opaque content, without the tag.
func (d Domain) Content() string {
	return d.content
}

func (d Domain) appendCanonical(b []byte) []byte {
	if !d.literal {
		return append(b, d.name...)
	}
	return appendLiteral(b, literalParts{family: d.family, tag: d.tag, content: d.content, addr: d.ip})
}

// String returns the canonical textual form: the name as-is, or the
// literal with its brackets and the family tag in canonical spelling.
func (d Domain) String() string {
	return string(d.appendCanonical(nil))
}

// folded is the comparison and digest form: names are lowercased,
// literals are already canonical.
func (d Domain) folded() string {
	if !d.literal {
		return strings.ToLower(d.name)
	}
	return d.String()
}

// Equal compares names case-insensitively and literal content byte for
// byte after canonical address formatting.
func (d Domain) Equal(o Domain) bool {
	if d.literal != o.literal {
		return false
	}
	if !d.literal {
		return strings.EqualFold(d.name, o.name)
	}
	if d.family != o.family {
		return false
	}
	if d.family == LiteralGeneral {
		return d.tag == o.tag && d.content == o.content
	}
	return d.ip == o.ip
}

// EmailAddress is a parsed, validated address. The zero value is not a
// valid address; values are only produced by the parse and decode entry
// points and are immutable.
type EmailAddress struct {
	localPart LocalPart
	domain    Domain
}

// LocalPart returns the part before the "@".
func (a EmailAddress) LocalPart() LocalPart {
	return a.localPart
}

// Domain returns the part after the "@".
func (a EmailAddress) Domain() Domain {
	return a.domain
}

// IsZero reports whether a is the zero value rather than a parsed
// address.
func (a EmailAddress) IsZero() bool {
	return a == EmailAddress{}
}

func (a EmailAddress) appendCanonical(b []byte) []byte {
	b = appendLocalPartText(b, []byte(a.localPart.text))
	b = append(b, '@')
	return a.domain.appendCanonical(b)
}

// String returns the canonical textual form "local-part@domain".
// Canonicalizing the result reproduces it byte for byte.
func (a EmailAddress) String() string {
	if a.IsZero() {
		return ""
	}
	return string(a.appendCanonical(nil))
}

// Equal compares the local part byte for byte and the domain under the
// Domain comparison rules.
func (a EmailAddress) Equal(o EmailAddress) bool {
	return a.localPart.Equal(o.localPart) && a.domain.Equal(o.domain)
}

// EqualFold is Equal with the local part also compared
// case-insensitively, for callers interoperating with providers that
// treat local parts as case-insensitive. The grammar itself does not
// sanction this; Equal is the literal rule.
func (a EmailAddress) EqualFold(o EmailAddress) bool {
	return strings.EqualFold(a.localPart.text, o.localPart.text) && a.domain.Equal(o.domain)
}

// buildAddress converts a validated tree into the immutable value. Text
// is copied out of the tree, which may alias the scanned input.
func buildAddress(t *addressTree, o *options) EmailAddress {
	lp := LocalPart{text: string(t.local.text)}
	if t.local.quoted {
		lp.kind = Quoted
	}
	var d Domain
	if t.domain.literal {
		parts, err := validateLiteral(t.domain.text)
		if err != nil {
			// validateAddressTree ran first; this cannot fail here
			panic("maillib: building address from unvalidated tree")
		}
		d = Domain{
			literal: true,
			family:  parts.family,
			ip:      parts.addr,
			tag:     parts.tag,
			content: parts.content,
		}
	} else {
		name := string(t.domain.text)
		if o.lowercaseDomain {
			name = strings.ToLower(name)
		}
		d = Domain{name: name}
	}
	return EmailAddress{localPart: lp, domain: d}
}
