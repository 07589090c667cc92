package maillib

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// Compact binary archive format. Layout:
//
//	'M' 'A' version payload-type payload
//
// where payload-type is 0 for an address and 1 for a mailbox. An address
// payload is the local-part kind byte, the uvarint-length-prefixed
// unescaped local-part text, a domain kind byte (0 name, 1 IPv4 literal,
// 2 IPv6 literal, 3 general literal), and the domain fields: a
// length-prefixed name, raw 4- or 16-byte IP, or length-prefixed tag and
// content. A mailbox payload is a presence byte, the length-prefixed
// display name when present, and an address payload.
//
// Decoding rebuilds the canonical text and reparses it, so untrusted
// bytes pass through the same grammar and validation as text input.
const (
	binaryVersion = 1

	binPayloadAddress = 0
	binPayloadMailbox = 1

	binDomainName    = 0
	binDomainIPv4    = 1
	binDomainIPv6    = 2
	binDomainGeneral = 3
)

var binaryMagic = [2]byte{'M', 'A'}

func appendBinaryHeader(b []byte, payloadType byte) []byte {
	return append(b, binaryMagic[0], binaryMagic[1], binaryVersion, payloadType)
}

func appendBinaryBytes(b []byte, v []byte) []byte {
	b = binary.AppendUvarint(b, uint64(len(v)))
	return append(b, v...)
}

func (a EmailAddress) appendBinary(b []byte) []byte {
	b = append(b, byte(a.localPart.kind))
	b = appendBinaryBytes(b, []byte(a.localPart.text))
	d := a.domain
	switch {
	case !d.literal:
		b = append(b, binDomainName)
		b = appendBinaryBytes(b, []byte(d.name))
	case d.family == LiteralIPv4:
		b = append(b, binDomainIPv4)
		v := d.ip.As4()
		b = append(b, v[:]...)
	case d.family == LiteralIPv6:
		b = append(b, binDomainIPv6)
		v := d.ip.As16()
		b = append(b, v[:]...)
	default:
		b = append(b, binDomainGeneral)
		b = appendBinaryBytes(b, []byte(d.tag))
		b = appendBinaryBytes(b, []byte(d.content))
	}
	return b
}

func (a EmailAddress) MarshalBinary() ([]byte, error) {
	return a.appendBinary(appendBinaryHeader(nil, binPayloadAddress)), nil
}

func (a *EmailAddress) UnmarshalBinary(data []byte) error {
	r := &binReader{b: data}
	if err := r.header(binPayloadAddress); err != nil {
		return &DecodeError{Cause: err}
	}
	v, err := decodeBinaryAddress(r)
	if err != nil {
		return err
	}
	if !r.done() {
		return &DecodeError{Cause: fmt.Errorf("trailing bytes after payload")}
	}
	*a = v
	return nil
}

func (m Mailbox) MarshalBinary() ([]byte, error) {
	b := appendBinaryHeader(nil, binPayloadMailbox)
	if m.hasName {
		b = append(b, 1)
		b = appendBinaryBytes(b, []byte(m.name))
	} else {
		b = append(b, 0)
	}
	return m.addr.appendBinary(b), nil
}

func (m *Mailbox) UnmarshalBinary(data []byte) error {
	r := &binReader{b: data}
	if err := r.header(binPayloadMailbox); err != nil {
		return &DecodeError{Cause: err}
	}
	hasName := false
	switch r.u8() {
	case 0:
	case 1:
		hasName = true
	default:
		r.fail("invalid display name presence byte")
	}
	var name []byte
	if hasName {
		name = r.lengthPrefixed()
	}
	if r.err != nil {
		return &DecodeError{Cause: r.err}
	}
	if err := validateDisplayName(name, defaultMaxDisplayNameLength); err != nil {
		return &DecodeError{Cause: err}
	}
	addr, err := decodeBinaryAddress(r)
	if err != nil {
		return err
	}
	if !r.done() {
		return &DecodeError{Cause: fmt.Errorf("trailing bytes after payload")}
	}
	*m = Mailbox{name: string(name), hasName: hasName, addr: addr}
	return nil
}

// decodeBinaryAddress reads an address payload, reassembles the
// canonical text, and reparses it so that the decoded value is validated
// exactly like text input.
func decodeBinaryAddress(r *binReader) (EmailAddress, error) {
	kind := r.u8()
	if kind > byte(Quoted) {
		r.fail("invalid local part kind")
	}
	local := r.lengthPrefixed()
	var text []byte
	text = appendLocalPartText(text, local)
	text = append(text, '@')
	switch r.u8() {
	case binDomainName:
		text = append(text, r.lengthPrefixed()...)
	case binDomainIPv4:
		var v [4]byte
		r.read(v[:])
		text = appendLiteral(text, literalParts{family: LiteralIPv4, addr: netip.AddrFrom4(v)})
	case binDomainIPv6:
		var v [16]byte
		r.read(v[:])
		text = appendLiteral(text, literalParts{family: LiteralIPv6, addr: netip.AddrFrom16(v)})
	case binDomainGeneral:
		tag := r.lengthPrefixed()
		content := r.lengthPrefixed()
		text = appendLiteral(text, literalParts{family: LiteralGeneral, tag: string(tag), content: string(content)})
	default:
		r.fail("invalid domain kind")
	}
	if r.err != nil {
		return EmailAddress{}, &DecodeError{Cause: r.err}
	}
	a, err := ParseAddressBytes(text)
	if err != nil {
		return EmailAddress{}, &DecodeError{Cause: err}
	}
	return a, nil
}

// binReader is a cursor over the archive with sticky error state.
type binReader struct {
	b   []byte
	off int
	err error
}

func (r *binReader) fail(msg string) {
	if r.err == nil {
		r.err = fmt.Errorf("%s at offset %d", msg, r.off)
	}
}

func (r *binReader) header(payloadType byte) error {
	if len(r.b) < 4 || r.b[0] != binaryMagic[0] || r.b[1] != binaryMagic[1] {
		return fmt.Errorf("bad magic")
	}
	if r.b[2] != binaryVersion {
		return fmt.Errorf("unsupported version %d", r.b[2])
	}
	if r.b[3] != payloadType {
		return fmt.Errorf("payload type mismatch")
	}
	r.off = 4
	return nil
}

func (r *binReader) done() bool {
	return r.err == nil && r.off == len(r.b)
}

func (r *binReader) u8() byte {
	if r.err != nil || r.off >= len(r.b) {
		r.fail("truncated payload")
		return 0
	}
	v := r.b[r.off]
	r.off++
	return v
}

func (r *binReader) read(dst []byte) {
	if r.err != nil || r.off+len(dst) > len(r.b) {
		r.fail("truncated payload")
		return
	}
	copy(dst, r.b[r.off:])
	r.off += len(dst)
}

func (r *binReader) lengthPrefixed() []byte {
	if r.err != nil {
		return nil
	}
	n, w := binary.Uvarint(r.b[r.off:])
	if w <= 0 {
		r.fail("bad length prefix")
		return nil
	}
	r.off += w
	if n > uint64(len(r.b)-r.off) {
		r.fail("truncated payload")
		return nil
	}
	v := r.b[r.off : r.off+int(n)]
	r.off += int(n)
	return v
}
