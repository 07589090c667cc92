package maillib

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nitro-mail/mail-lib/secmem"
)

func wiped(b []byte) bool {
	for _, c := range b {
		if c != secmem.WipePattern {
			return false
		}
	}
	return true
}

func TestParseAddressWiped(t *testing.T) {
	t.Parallel()

	buf := []byte("User@Example.COM")
	a, err := ParseAddressWiped(buf)
	require.NoError(t, err)
	require.True(t, wiped(buf), "input not wiped after success: %q", buf)
	// the parsed value does not alias the wiped input
	require.Equal(t, "User@Example.COM", a.String())

	bad := []byte("not an address")
	_, err = ParseAddressWiped(bad)
	require.Error(t, err)
	require.True(t, wiped(bad), "input not wiped after failure: %q", bad)
}

func TestParseMailboxWiped(t *testing.T) {
	t.Parallel()

	buf := []byte("Jane Doe <jane@example.com>")
	m, err := ParseMailboxWiped(buf)
	require.NoError(t, err)
	require.True(t, wiped(buf))
	require.Equal(t, "Jane Doe <jane@example.com>", m.String())

	bad := []byte("Jane Doe <")
	_, err = ParseMailboxWiped(bad)
	require.Error(t, err)
	require.True(t, wiped(bad))
}

func TestSecureCanonical(t *testing.T) {
	t.Parallel()

	a := mustAddress(t, `"john doe"@example.com`)

	buf := a.SecureCanonical()
	require.Equal(t, `"john doe"@example.com`, buf.String())
	raw := buf.Bytes()
	buf.Destroy()
	require.True(t, wiped(raw))
	require.Nil(t, buf.Bytes())

	lp := a.SecureLocalPart()
	require.Equal(t, "john doe", lp.String())
	lp.Destroy()

	m := NewMailbox("Jane", a)
	mc := m.SecureCanonical()
	require.Equal(t, `Jane <"john doe"@example.com>`, mc.String())
	mc.Destroy()
	require.True(t, mc.Destroyed())
}
