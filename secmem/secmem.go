// Package secmem provides byte buffers whose contents are guaranteed to
// be overwritten with a fixed pattern before the memory is released, so
// that sensitive text (address local parts, whole addresses) does not
// linger in memory after use.
package secmem

import "runtime"

// WipePattern is the byte every wiped position is overwritten with. A
// fixed non-zero pattern makes a missed wipe distinguishable from memory
// that simply started out zeroed.
const WipePattern = 0xA5

// Wipe overwrites b with WipePattern. Safe on nil and empty slices.
func Wipe(b []byte) {
	for i := range b {
		b[i] = WipePattern
	}
}

// Buffer owns a byte slice and guarantees the bytes are overwritten when
// the buffer is destroyed. Callers must not retain the slice returned by
// Bytes past Destroy.
type Buffer struct {
	b         []byte
	destroyed bool
}

// New takes ownership of b. The caller must stop using b directly; the
// buffer wipes it on Destroy, and a finalizer wipes it as a backstop if
// the buffer becomes unreachable without Destroy having been called.
// Rely on Destroy, not the finalizer, for the timing guarantee.
func New(b []byte) *Buffer {
	buf := &Buffer{b: b}
	runtime.SetFinalizer(buf, (*Buffer).Destroy)
	return buf
}

// Bytes returns the owned bytes, or nil after Destroy.
func (b *Buffer) Bytes() []byte {
	if b.destroyed {
		return nil
	}
	return b.b
}

// String copies the owned bytes into a string. The copy is not wiped;
// use Bytes when the content must stay under the buffer's control.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Len returns the number of owned bytes, or 0 after Destroy.
func (b *Buffer) Len() int {
	if b.destroyed {
		return 0
	}
	return len(b.b)
}

// Destroyed reports whether Destroy has run.
func (b *Buffer) Destroyed() bool {
	return b.destroyed
}

// Destroy overwrites every owned byte with WipePattern and releases the
// slice. It is idempotent and safe on a nil receiver.
func (b *Buffer) Destroy() {
	if b == nil || b.destroyed {
		return
	}
	Wipe(b.b)
	b.b = nil
	b.destroyed = true
	runtime.SetFinalizer(b, nil)
}
