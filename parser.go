package maillib

import (
	"bytes"
)

// Parse trees are the intermediate result between the grammar parser and
// the semantic validator. Text held in a tree may alias the scanned
// input; the model builder copies it into the immutable value types.

type localTree struct {
	quoted bool
	text   []byte // unescaped content
	off    int
}

type domainTree struct {
	literal bool
	text    []byte // registered name, or literal content between the brackets
	off     int
}

type addressTree struct {
	local  localTree
	domain domainTree
}

type mailboxTree struct {
	hasName bool
	name    []byte
	nameOff int
	addr    addressTree
}

// parser consumes the token stream through recursive grammar productions
// with a single token of lookahead. Backtracking, where the grammar needs
// it, is done by saving and restoring the whole parser state; the scanner
// itself never rewinds.
type parser struct {
	sc   scanner
	tok  token
	opts *options
}

func newParser(s []byte, opts *options) *parser {
	p := &parser{sc: scanner{s: s}, opts: opts}
	p.next()
	return p
}

func (p *parser) next() {
	p.tok = p.sc.next()
}

func (p *parser) special(c byte) bool {
	return p.tok.Type == tokenSpecial && p.tok.Data[0] == c
}

// skipCFWS skips comments and folding white space. They are legal at
// every production boundary and carry no meaning.
func (p *parser) skipCFWS() {
	for p.tok.Type == tokenFWS || p.tok.Type == tokenComment {
		p.next()
	}
}

func faultError(t token) *ParseError {
	switch t.Fault {
	case faultUnterminatedQuote:
		return &ParseError{Off: t.Off, Reason: ReasonUnterminatedQuotedString}
	case faultUnterminatedComment:
		return &ParseError{Off: t.Off, Reason: ReasonUnterminatedComment}
	case faultUnterminatedLiteral:
		return &ParseError{Off: t.Off, Reason: ReasonInvalidDomainLiteral}
	case faultTooDeep:
		return &ParseError{Off: t.Off, Reason: ReasonTooComplex}
	}
	return &ParseError{Off: t.Off, Reason: ReasonUnexpectedToken}
}

func (p *parser) unexpected() *ParseError {
	if p.tok.Type == tokenInvalid {
		return faultError(p.tok)
	}
	return &ParseError{Off: p.tok.Off, Reason: ReasonUnexpectedToken}
}

// parseAddressTree parses a bare addr-spec spanning the whole input.
func (p *parser) parseAddressTree() (addressTree, error) {
	p.skipCFWS()
	t, err := p.parseAddrSpec()
	if err != nil {
		return addressTree{}, err
	}
	p.skipCFWS()
	if p.tok.Type != tokenEnd {
		if p.tok.Type == tokenInvalid {
			return addressTree{}, faultError(p.tok)
		}
		return addressTree{}, &ParseError{Off: p.tok.Off, Reason: ReasonTrailingGarbage}
	}
	return t, nil
}

// parseMailboxTree parses `[display-name] "<" addr-spec ">"` or a bare
// addr-spec spanning the whole input.
func (p *parser) parseMailboxTree() (mailboxTree, error) {
	p.skipCFWS()

	// addr-spec has a more restricted grammar than name-addr, so try it
	// first and fall back on failure.
	save := *p
	if t, err := p.parseAddrSpec(); err == nil {
		p.skipCFWS()
		if p.tok.Type == tokenEnd {
			return mailboxTree{addr: t}, nil
		}
	}
	*p = save

	var mt mailboxTree
	if !p.special('<') {
		name, off, err := p.parsePhrase()
		if err != nil {
			return mailboxTree{}, err
		}
		mt.hasName = true
		mt.name = name
		mt.nameOff = off
		p.skipCFWS()
	}
	if !p.special('<') {
		return mailboxTree{}, p.unexpected()
	}
	p.next()
	p.skipCFWS()
	t, err := p.parseAddrSpec()
	if err != nil {
		return mailboxTree{}, err
	}
	p.skipCFWS()
	if !p.special('>') {
		return mailboxTree{}, p.unexpected()
	}
	p.next()
	p.skipCFWS()
	if p.tok.Type != tokenEnd {
		if p.tok.Type == tokenInvalid {
			return mailboxTree{}, faultError(p.tok)
		}
		return mailboxTree{}, &ParseError{Off: p.tok.Off, Reason: ReasonTrailingGarbage}
	}
	mt.addr = t
	return mt, nil
}

// parseAddrSpec parses `local-part "@" domain` starting at the current
// token.
func (p *parser) parseAddrSpec() (addressTree, error) {
	local, err := p.parseLocalPart()
	if err != nil {
		return addressTree{}, err
	}
	p.skipCFWS()
	if !p.special('@') {
		if p.tok.Type == tokenInvalid {
			return addressTree{}, faultError(p.tok)
		}
		return addressTree{}, &ParseError{Off: p.tok.Off, Reason: ReasonMissingAtSign}
	}
	p.next()
	p.skipCFWS()
	domain, err := p.parseDomain()
	if err != nil {
		return addressTree{}, err
	}
	return addressTree{local: local, domain: domain}, nil
}

func (p *parser) parseLocalPart() (localTree, error) {
	switch {
	case p.tok.Type == tokenQuotedString:
		t := localTree{
			quoted: true,
			text:   unescapeQuotedString(p.tok.Data[1 : len(p.tok.Data)-1]),
			off:    p.tok.Off,
		}
		if len(t.text) == 0 {
			return localTree{}, &ParseError{Off: t.off, Reason: ReasonEmptyLocalPart}
		}
		p.next()
		return t, nil
	case p.tok.Type == tokenAtom, p.opts.permissiveLocalPart && p.special('.'):
		text, off, err := p.parseDotAtomText(p.opts.permissiveLocalPart)
		if err != nil {
			return localTree{}, err
		}
		return localTree{text: text, off: off}, nil
	case p.tok.Type == tokenInvalid:
		return localTree{}, faultError(p.tok)
	case p.tok.Type == tokenEnd, p.special('@'):
		return localTree{}, &ParseError{Off: p.tok.Off, Reason: ReasonEmptyLocalPart}
	}
	return localTree{}, &ParseError{Off: p.tok.Off, Reason: ReasonUnexpectedToken}
}

// parseDotAtomText parses a dot-atom. CFWS between the atoms and the dots
// is obsolete syntax; it is accepted and dropped, so the returned text is
// always freshly assembled. If permissive is true, leading, trailing, and
// doubled dots are tolerated (see golang.org/issue/4938 for why anyone
// would want that).
func (p *parser) parseDotAtomText(permissive bool) ([]byte, int, error) {
	off := p.tok.Off
	var text []byte
	for {
		for permissive && p.special('.') {
			text = append(text, '.')
			p.next()
			p.skipCFWS()
		}
		if p.tok.Type != tokenAtom {
			if permissive && len(text) > 0 {
				break
			}
			return nil, 0, p.unexpected()
		}
		text = append(text, p.tok.Data...)
		p.next()
		p.skipCFWS()
		if !p.special('.') {
			break
		}
		text = append(text, '.')
		p.next()
		p.skipCFWS()
	}
	return text, off, nil
}

func (p *parser) parseDomain() (domainTree, error) {
	switch p.tok.Type {
	case tokenDomainLiteral:
		t := domainTree{
			literal: true,
			text:    p.tok.Data[1 : len(p.tok.Data)-1],
			off:     p.tok.Off,
		}
		p.next()
		return t, nil
	case tokenAtom:
		text, off, err := p.parseDotAtomText(false)
		if err != nil {
			return domainTree{}, err
		}
		return domainTree{text: text, off: off}, nil
	case tokenInvalid:
		if len(p.tok.Data) > 0 && p.tok.Data[0] == '[' {
			return domainTree{}, &ParseError{Off: p.tok.Off, Reason: ReasonInvalidDomainLiteral}
		}
		return domainTree{}, faultError(p.tok)
	case tokenEnd:
		// A dangling "@" separates nothing; reported like a missing one.
		return domainTree{}, &ParseError{Off: p.tok.Off, Reason: ReasonMissingAtSign}
	}
	return domainTree{}, &ParseError{Off: p.tok.Off, Reason: ReasonUnexpectedToken}
}

// parsePhrase parses a display name: one or more words (atoms or quoted
// strings), with obs-phrase dots tolerated after the first word. The
// words are joined with single spaces; a dot attaches to the preceding
// word.
func (p *parser) parsePhrase() ([]byte, int, error) {
	off := p.tok.Off
	var name []byte
	gotWord := false
	for {
		switch {
		case p.tok.Type == tokenAtom, p.tok.Type == tokenQuotedString:
			word := p.tok.Data
			if p.tok.Type == tokenQuotedString {
				word = unescapeQuotedString(word[1 : len(word)-1])
			}
			if len(name) > 0 {
				name = append(name, ' ')
			}
			name = append(name, word...)
			gotWord = true
			p.next()
		case p.special('.'):
			if !gotWord {
				return nil, 0, &ParseError{Off: p.tok.Off, Reason: ReasonUnexpectedToken}
			}
			name = append(name, '.')
			p.next()
		case p.tok.Type == tokenFWS, p.tok.Type == tokenComment:
			p.next()
		case p.tok.Type == tokenInvalid:
			return nil, 0, faultError(p.tok)
		default:
			if !gotWord {
				return nil, 0, &ParseError{Off: p.tok.Off, Reason: ReasonUnexpectedToken}
			}
			return name, off, nil
		}
	}
}

// unescapeQuotedString removes the quoted-pair backslashes from the
// content of a quoted string, delimiters already stripped. The input
// slice is returned as-is when there is nothing to unescape.
func unescapeQuotedString(b []byte) []byte {
	if bytes.IndexByte(b, '\\') < 0 {
		return b
	}
	r := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' && i+1 < len(b) {
			i++
		}
		r = append(r, b[i])
	}
	return r
}

// ParseAddress parses a single address of the form "local@domain" and
// returns its canonical value. The error is a *ParseError or a
// *ValidationError, both satisfying AddressError.
func ParseAddress(s string, opts ...Option) (EmailAddress, error) {
	return ParseAddressBytes([]byte(s), opts...)
}

// ParseAddressBytes is ParseAddress for a byte slice. The returned value
// never aliases b.
func ParseAddressBytes(b []byte, opts ...Option) (EmailAddress, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := newParser(b, &o)
	t, err := p.parseAddressTree()
	if err != nil {
		return EmailAddress{}, err
	}
	if err := validateAddressTree(&t, &o); err != nil {
		return EmailAddress{}, err
	}
	return buildAddress(&t, &o), nil
}

// ParseMailbox parses a mailbox of the form "Display Name <local@domain>"
// or a bare "local@domain".
func ParseMailbox(s string, opts ...Option) (Mailbox, error) {
	return ParseMailboxBytes([]byte(s), opts...)
}

// ParseMailboxBytes is ParseMailbox for a byte slice. The returned value
// never aliases b.
func ParseMailboxBytes(b []byte, opts ...Option) (Mailbox, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := newParser(b, &o)
	t, err := p.parseMailboxTree()
	if err != nil {
		return Mailbox{}, err
	}
	if err := validateMailboxTree(&t, &o); err != nil {
		return Mailbox{}, err
	}
	return buildMailbox(&t, &o), nil
}
