package maillib

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Digest is a stable 64-bit content hash of the canonical form, suitable
// as a deduplication or lookup key. It is unseeded and therefore
// deterministic across process runs, and invariant to comments, folding
// white space, quoting style, and domain letter case. Local-part content
// is hashed case-sensitively, matching Equal.
type Digest uint64

// String returns the digest as 16 lowercase hex digits.
func (d Digest) String() string {
	return fmt.Sprintf("%016x", uint64(d))
}

func (a EmailAddress) digestInto(h *xxhash.Digest) {
	_, _ = h.Write(appendLocalPartText(nil, []byte(a.localPart.text)))
	_, _ = h.WriteString("@")
	_, _ = h.WriteString(a.domain.folded())
}

// Digest returns the content hash of the address.
func (a EmailAddress) Digest() Digest {
	h := xxhash.New()
	a.digestInto(h)
	return Digest(h.Sum64())
}

// Digest returns the content hash of the mailbox. A mailbox without a
// display name hashes identically to its bare address.
func (m Mailbox) Digest() Digest {
	h := xxhash.New()
	if m.hasName {
		_, _ = h.WriteString(m.name)
		_, _ = h.Write([]byte{0})
	}
	m.addr.digestInto(h)
	return Digest(h.Sum64())
}
