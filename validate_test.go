package maillib

import (
	"errors"
	"strings"
	"testing"
)

func validationReason(t *testing.T, err error) *ValidationError {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want *ValidationError, got %v (%T)", err, err)
	}
	return ve
}

func TestLocalPartLengthCeiling(t *testing.T) {
	t.Parallel()

	if _, err := ParseAddress(strings.Repeat("a", 64) + "@example.com"); err != nil {
		t.Errorf("64-octet local part rejected: %v", err)
	}
	_, err := ParseAddress(strings.Repeat("a", 65) + "@example.com")
	ve := validationReason(t, err)
	if ve.Reason != ReasonLocalPartTooLong || ve.Limit != 64 || ve.Actual != 65 {
		t.Errorf("65-octet local part: got %+v", ve)
	}

	// the ceiling counts unescaped octets, not source octets
	quoted := `"` + strings.Repeat(`\a`, 64) + `"@example.com`
	if _, err := ParseAddress(quoted); err != nil {
		t.Errorf("64 escaped octets rejected: %v", err)
	}
}

func TestDomainLabelLengthCeiling(t *testing.T) {
	t.Parallel()

	if _, err := ParseAddress("a@" + strings.Repeat("b", 63) + ".com"); err != nil {
		t.Errorf("63-octet label rejected: %v", err)
	}
	_, err := ParseAddress("a@" + strings.Repeat("b", 64) + ".com")
	ve := validationReason(t, err)
	if ve.Reason != ReasonDomainLabelTooLong || ve.Limit != 63 || ve.Actual != 64 {
		t.Errorf("64-octet label: got %+v", ve)
	}
}

func TestAddressLengthCeiling(t *testing.T) {
	t.Parallel()

	local := strings.Repeat("a", 64)
	okDomain := strings.Repeat("b", 63) + "." + strings.Repeat("c", 63) + "." + strings.Repeat("d", 61) // 189
	if _, err := ParseAddress(local + "@" + okDomain); err != nil {
		t.Errorf("254-octet address rejected: %v", err)
	}

	longDomain := strings.Repeat("b", 63) + "." + strings.Repeat("c", 63) + "." + strings.Repeat("d", 63) // 191
	_, err := ParseAddress(local + "@" + longDomain)
	ve := validationReason(t, err)
	if ve.Reason != ReasonAddressTooLong || ve.Limit != 254 || ve.Actual != 256 {
		t.Errorf("256-octet address: got %+v", ve)
	}

	// the ceiling applies to the canonical form, quotes and escapes included
	quoted := `"` + strings.Repeat(`\\`, 32) + `"` // 32 octets unescaped, 66 canonical
	if _, err := ParseAddress(quoted + "@" + okDomain); err == nil {
		t.Error("oversized canonical form unexpectedly accepted")
	}
}

func TestDomainLabelCharset(t *testing.T) {
	t.Parallel()

	bad := []string{
		"a@foo_bar",
		"a@foo!bar.com",
		"a@-leading.com",
		"a@trailing-.com",
		"a@ok.-mid-.ok",
		"a@ex'ample.com",
		"a@exämple.com",
	}
	for _, text := range bad {
		_, err := ParseAddress(text)
		if err == nil {
			t.Errorf("ParseAddress(%q) unexpectedly succeeded", text)
			continue
		}
		if ve := validationReason(t, err); ve.Reason != ReasonInvalidDomainLabel {
			t.Errorf("ParseAddress(%q): got %+v, want ReasonInvalidDomainLabel", text, ve)
		}
	}

	good := []string{
		"a@a-b.com",
		"a@xn--bcher-kva.com",
		"a@123.com",
		"a@1.2.3.x",
	}
	for _, text := range good {
		if _, err := ParseAddress(text); err != nil {
			t.Errorf("ParseAddress(%q): %v", text, err)
		}
	}
}

func TestDomainLiteralFamilies(t *testing.T) {
	t.Parallel()

	bad := []string{
		"a@[300.1.2.3]",
		"a@[1.2.3]",
		"a@[1.2.3.4.5]",
		"a@[1..2.3.4]",
		"a@[IPv6:gg::1]",
		"a@[IPv6:1.2.3.4]",
		"a@[IPv6:fe80::1%25eth0]",
		"a@[ipv6:]",
	}
	for _, text := range bad {
		_, err := ParseAddress(text)
		if err == nil {
			t.Errorf("ParseAddress(%q) unexpectedly succeeded", text)
			continue
		}
		if ve := validationReason(t, err); ve.Reason != ReasonInvalidLiteralFamily {
			t.Errorf("ParseAddress(%q): got %+v, want ReasonInvalidLiteralFamily", text, ve)
		}
	}

	good := []struct {
		text    string
		wantTag LiteralTag
	}{
		{"a@[0.0.0.0]", LiteralIPv4},
		{"a@[255.255.255.255]", LiteralIPv4},
		{"a@[IPv6:::1]", LiteralIPv6},
		{"a@[IPv6:2001:db8::]", LiteralIPv6},
		{"a@[tag-1:anything goes]", LiteralGeneral},
		{"a@[no tag at all]", LiteralGeneral},
	}
	for _, tc := range good {
		a, err := ParseAddress(tc.text)
		if err != nil {
			t.Errorf("ParseAddress(%q): %v", tc.text, err)
			continue
		}
		if got := a.Domain().Tag(); got != tc.wantTag {
			t.Errorf("ParseAddress(%q) literal tag = %d, want %d", tc.text, got, tc.wantTag)
		}
	}
}

func TestDisplayNameLengthCeiling(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 300)
	_, err := ParseMailbox(long + " <a@example.com>")
	ve := validationReason(t, err)
	if ve.Reason != ReasonDisplayNameTooLong || ve.Limit != 256 || ve.Actual != 300 {
		t.Errorf("300-octet display name: got %+v", ve)
	}

	if _, err := ParseMailbox("tolerable <a@example.com>", WithMaxDisplayNameLength(9)); err != nil {
		t.Errorf("display name at custom ceiling rejected: %v", err)
	}
	_, err = ParseMailbox("intolerable <a@example.com>", WithMaxDisplayNameLength(9))
	if ve := validationReason(t, err); ve.Reason != ReasonDisplayNameTooLong || ve.Limit != 9 {
		t.Errorf("display name over custom ceiling: got %+v", ve)
	}
}
