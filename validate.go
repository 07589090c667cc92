package maillib

import (
	"bytes"
	"net/netip"
	"strings"
)

// Length ceilings from RFC 5321 section 4.5.3.1, with the practical
// 254-octet cap on the whole address (the 256 of RFC 2821 minus the
// enclosing angle brackets).
const (
	maxLocalPartLength = 64
	maxLabelLength     = 63
	maxAddressLength   = 254
)

// literalFamily distinguishes the declared address family of a domain
// literal before the model is built.
type literalParts struct {
	family  LiteralTag
	tag     string // general literals only; "" when the literal has no tag
	content string // general literals only; verbatim
	addr    netip.Addr
}

// splitLiteral classifies the content of a domain literal (brackets
// already stripped). An `IPv6:` tag, compared case-insensitively,
// declares the IPv6 family; untagged content shaped like a dotted quad
// declares IPv4; anything else is a general literal split at the first
// colon following a letter-digit-hyphen tag, per RFC 5321
// General-address-literal.
func splitLiteral(content []byte) literalParts {
	tag, rest := splitLiteralTag(content)
	if strings.EqualFold(tag, "IPv6") {
		return literalParts{family: LiteralIPv6, content: string(rest)}
	}
	if tag == "" && isDottedQuadShape(content) {
		return literalParts{family: LiteralIPv4, content: string(content)}
	}
	if tag == "" {
		// no recognizable tag: the whole content is opaque
		return literalParts{family: LiteralGeneral, content: string(content)}
	}
	return literalParts{family: LiteralGeneral, tag: tag, content: string(rest)}
}

func splitLiteralTag(content []byte) (string, []byte) {
	i := bytes.IndexByte(content, ':')
	if i < 1 {
		return "", content
	}
	for _, c := range content[:i] {
		if !isLdh(c) {
			return "", content
		}
	}
	return string(content[:i]), content[i+1:]
}

func isDottedQuadShape(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	for _, c := range content {
		if c != '.' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// validateLiteral checks that the content of a domain literal is a
// well-formed member of its declared family.
func validateLiteral(content []byte) (literalParts, error) {
	parts := splitLiteral(content)
	switch parts.family {
	case LiteralIPv4:
		addr, err := netip.ParseAddr(parts.content)
		if err != nil || !addr.Is4() {
			return literalParts{}, &ValidationError{Reason: ReasonInvalidLiteralFamily}
		}
		parts.addr = addr
	case LiteralIPv6:
		addr, err := netip.ParseAddr(parts.content)
		if err != nil || !addr.Is6() || addr.Is4() || addr.Zone() != "" {
			return literalParts{}, &ValidationError{Reason: ReasonInvalidLiteralFamily}
		}
		parts.addr = addr
	}
	return parts, nil
}

// isLdhLabel reports whether label is a well-formed registered-name
// label: letters, digits, and hyphens, with neither a leading nor a
// trailing hyphen (RFC 5321 Let-dig and Ldh-str).
func isLdhLabel(label []byte) bool {
	for _, c := range label {
		if !isLdh(c) {
			return false
		}
	}
	return len(label) > 0 && label[0] != '-' && label[len(label)-1] != '-'
}

// validateDisplayName enforces the practical length ceiling and, for
// names arriving from decode paths the phrase grammar never saw, the
// phrase charset: visible characters and white space only.
func validateDisplayName(name []byte, limit int) error {
	if n := len(name); n > limit {
		return &ValidationError{Reason: ReasonDisplayNameTooLong, Limit: limit, Actual: n}
	}
	for _, c := range name {
		if !isVchar(c) && !isWSP(c) {
			return &ValidationError{Reason: ReasonInvalidDisplayName}
		}
	}
	return nil
}

// validateAddressTree enforces the invariants the grammar cannot express.
// The tree must already have parsed successfully.
func validateAddressTree(t *addressTree, o *options) error {
	if n := len(t.local.text); n > maxLocalPartLength {
		return &ValidationError{Reason: ReasonLocalPartTooLong, Limit: maxLocalPartLength, Actual: n}
	}

	var domainLen int
	if t.domain.literal {
		parts, err := validateLiteral(t.domain.text)
		if err != nil {
			return err
		}
		domainLen = len(appendLiteral(nil, parts))
	} else {
		for _, label := range bytes.Split(t.domain.text, []byte(".")) {
			if len(label) > maxLabelLength {
				return &ValidationError{Reason: ReasonDomainLabelTooLong, Limit: maxLabelLength, Actual: len(label)}
			}
			if !isLdhLabel(label) {
				return &ValidationError{Reason: ReasonInvalidDomainLabel}
			}
		}
		domainLen = len(t.domain.text)
	}

	// Canonical textual length of "local-part@domain". A domain longer
	// than 255 octets necessarily trips this ceiling too, so it needs no
	// check of its own.
	localLen := len(appendLocalPartText(nil, t.local.text))
	if n := localLen + 1 + domainLen; n > maxAddressLength {
		return &ValidationError{Reason: ReasonAddressTooLong, Limit: maxAddressLength, Actual: n}
	}
	return nil
}

func validateMailboxTree(t *mailboxTree, o *options) error {
	if t.hasName {
		if err := validateDisplayName(t.name, o.maxDisplayNameLength); err != nil {
			return err
		}
	}
	return validateAddressTree(&t.addr, o)
}
