package maillib

// Mailbox is an address with an optional display name, the
// `"Display Name" <address>` form of RFC 5322 section 3.4.
type Mailbox struct {
	name    string
	hasName bool
	addr    EmailAddress
}

// NewMailbox builds a mailbox from parts that already passed parsing.
func NewMailbox(name string, addr EmailAddress) Mailbox {
	return Mailbox{name: name, hasName: name != "", addr: addr}
}

// DisplayName returns the display name and whether one is present. The
// text is unescaped and whitespace-normalized.
func (m Mailbox) DisplayName() (string, bool) {
	return m.name, m.hasName
}

// Address returns the mailbox's address.
func (m Mailbox) Address() EmailAddress {
	return m.addr
}

// Parts splits the mailbox into its display name, whether one is
// present, and the address.
func (m Mailbox) Parts() (string, bool, EmailAddress) {
	return m.name, m.hasName, m.addr
}

// IsZero reports whether m is the zero value rather than a parsed
// mailbox.
func (m Mailbox) IsZero() bool {
	return m == Mailbox{}
}

// String returns the canonical form: `Display Name <local@domain>` when
// a display name is present, the bare address otherwise.
func (m Mailbox) String() string {
	if m.IsZero() {
		return ""
	}
	if !m.hasName {
		return m.addr.String()
	}
	b := appendDisplayName(nil, m.name)
	b = append(b, ' ', '<')
	b = m.addr.appendCanonical(b)
	return string(append(b, '>'))
}

// Equal compares display names byte for byte and addresses under the
// EmailAddress rules.
func (m Mailbox) Equal(o Mailbox) bool {
	return m.hasName == o.hasName && m.name == o.name && m.addr.Equal(o.addr)
}

func buildMailbox(t *mailboxTree, o *options) Mailbox {
	return Mailbox{
		name:    string(t.name),
		hasName: t.hasName,
		addr:    buildAddress(&t.addr, o),
	}
}
