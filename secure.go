package maillib

import "github.com/nitro-mail/mail-lib/secmem"

// Secure parsing entry points. These own the caller's input buffer and
// guarantee it is overwritten with secmem.WipePattern before returning,
// on every exit path including parse and validation failures. The
// returned values never alias the input; their backing text can be
// re-exported under wipe control with SecureCanonical.

// ParseAddressWiped is ParseAddressBytes with the input wiped before
// return, whether or not parsing succeeded.
func ParseAddressWiped(buf []byte, opts ...Option) (EmailAddress, error) {
	defer secmem.Wipe(buf)
	return ParseAddressBytes(buf, opts...)
}

// ParseMailboxWiped is ParseMailboxBytes with the input wiped before
// return, whether or not parsing succeeded.
func ParseMailboxWiped(buf []byte, opts ...Option) (Mailbox, error) {
	defer secmem.Wipe(buf)
	return ParseMailboxBytes(buf, opts...)
}

// SecureCanonical renders the canonical form into a fresh buffer that
// wipes itself on Destroy.
func (a EmailAddress) SecureCanonical() *secmem.Buffer {
	return secmem.New(a.appendCanonical(nil))
}

// SecureLocalPart returns the unescaped local-part content in a buffer
// that wipes itself on Destroy.
func (a EmailAddress) SecureLocalPart() *secmem.Buffer {
	return secmem.New([]byte(a.localPart.text))
}

// SecureCanonical renders the canonical mailbox form into a fresh buffer
// that wipes itself on Destroy.
func (m Mailbox) SecureCanonical() *secmem.Buffer {
	return secmem.New([]byte(m.String()))
}
