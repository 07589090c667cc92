package maillib

import (
	"errors"
	"strings"
	"testing"
)

func parseReason(t *testing.T, err error) (ParseReason, int) {
	t.Helper()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want *ParseError, got %v (%T)", err, err)
	}
	return pe.Reason, pe.Off
}

func TestParseAddressErrors(t *testing.T) {
	t.Parallel()

	cases := [...]struct {
		text       string
		wantReason ParseReason
		wantOff    int
	}{
		0:  {"", ReasonEmptyLocalPart, 0},
		1:  {"@example.com", ReasonEmptyLocalPart, 0},
		2:  {`""@example.com`, ReasonEmptyLocalPart, 0},
		3:  {"user", ReasonMissingAtSign, 4},
		4:  {"user@", ReasonMissingAtSign, 5},
		5:  {"jdoe#machine.example", ReasonMissingAtSign, 20},
		6:  {"a b@example.com", ReasonMissingAtSign, 2},
		7:  {"a@b c", ReasonTrailingGarbage, 4},
		8:  {"a@b.com (", ReasonUnterminatedComment, 8},
		9:  {`"abc@example.com`, ReasonUnterminatedQuotedString, 0},
		10: {"a@[192.168.0.1", ReasonInvalidDomainLiteral, 2},
		11: {"a@[[192.168.0.1]", ReasonInvalidDomainLiteral, 3},
		12: {"a..b@example.com", ReasonUnexpectedToken, 2},
		13: {".a@example.com", ReasonUnexpectedToken, 0},
		14: {"a.@example.com", ReasonUnexpectedToken, 2},
		15: {"a@.b", ReasonUnexpectedToken, 2},
		16: {"a@b\x01c", ReasonUnexpectedToken, 3},
		17: {"\"a\x00b\"@example.com", ReasonUnexpectedToken, 2},
		18: {strings.Repeat("(", 33) + "a@b", ReasonTooComplex, 32},
	}

	for i, tc := range cases {
		_, err := ParseAddress(tc.text)
		if err == nil {
			t.Errorf("#%d: ParseAddress(%q) unexpectedly succeeded", i, tc.text)
			continue
		}
		reason, off := parseReason(t, err)
		if reason != tc.wantReason || off != tc.wantOff {
			t.Errorf("#%d: ParseAddress(%q) = %v (reason %d at %d), want reason %d at %d",
				i, tc.text, err, reason, off, tc.wantReason, tc.wantOff)
		}
	}
}

func TestParseAddress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text          string
		wantCanonical string
		wantKind      LocalPartKind
		wantLocal     string
	}{
		{"user@example.com", "user@example.com", DotAtom, "user"},
		{"first.last@sub.example.com", "first.last@sub.example.com", DotAtom, "first.last"},
		{"user+tag!#$%&'*/=?^_`{|}~@example.com", "user+tag!#$%&'*/=?^_`{|}~@example.com", DotAtom, "user+tag!#$%&'*/=?^_`{|}~"},
		{`"john doe"@example.com`, `"john doe"@example.com`, Quoted, "john doe"},
		{`"user"@example.com`, "user@example.com", Quoted, "user"},
		{`"with \"escapes\" and \\ too"@example.com`, `"with \"escapes\" and \\ too"@example.com`, Quoted, `with "escapes" and \ too`},
		{`" "@example.com`, `" "@example.com`, Quoted, " "},
		{"(hi) user (bye) @ (x) example.com (y)", "user@example.com", DotAtom, "user"},
		{"user . name@example.com", "user.name@example.com", DotAtom, "user.name"},
		{"USER@Example.COM", "USER@Example.COM", DotAtom, "USER"},
		{"dømain@example.com", "dømain@example.com", DotAtom, "dømain"},
	}

	for i, tc := range cases {
		a, err := ParseAddress(tc.text)
		if err != nil {
			t.Errorf("#%d: ParseAddress(%q): %v", i, tc.text, err)
			continue
		}
		if got := a.String(); got != tc.wantCanonical {
			t.Errorf("#%d: ParseAddress(%q).String() = %q, want %q", i, tc.text, got, tc.wantCanonical)
		}
		if a.LocalPart().Kind() != tc.wantKind {
			t.Errorf("#%d: ParseAddress(%q) local part kind = %d, want %d", i, tc.text, a.LocalPart().Kind(), tc.wantKind)
		}
		if got := a.LocalPart().Text(); got != tc.wantLocal {
			t.Errorf("#%d: ParseAddress(%q) local part = %q, want %q", i, tc.text, got, tc.wantLocal)
		}
	}
}

func TestParseAddressDomainLiterals(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text          string
		wantCanonical string
		wantTag       LiteralTag
	}{
		{"user@[192.168.1.1]", "user@[192.168.1.1]", LiteralIPv4},
		{"user@[IPv6:2001:DB8::1]", "user@[IPv6:2001:db8::1]", LiteralIPv6},
		{"user@[ipv6:2001:db8:0:0:0:0:0:1]", "user@[IPv6:2001:db8::1]", LiteralIPv6},
		{"user@[x400:/C=US/]", "user@[x400:/C=US/]", LiteralGeneral},
		// RFC 5321 demands the IPv6 tag; without one, "2001" reads as a
		// general tag.
		{"user@[2001:db8::1]", "user@[2001:db8::1]", LiteralGeneral},
	}

	for i, tc := range cases {
		a, err := ParseAddress(tc.text)
		if err != nil {
			t.Errorf("#%d: ParseAddress(%q): %v", i, tc.text, err)
			continue
		}
		if got := a.String(); got != tc.wantCanonical {
			t.Errorf("#%d: ParseAddress(%q).String() = %q, want %q", i, tc.text, got, tc.wantCanonical)
		}
		d := a.Domain()
		if !d.IsLiteral() || d.Tag() != tc.wantTag {
			t.Errorf("#%d: ParseAddress(%q) domain = %+v, want literal tag %d", i, tc.text, d, tc.wantTag)
		}
	}
}

func TestParseAddressPermissive(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text          string
		wantCanonical string
		wantLocal     string
	}{
		{"john..doe@example.com", `"john..doe"@example.com`, "john..doe"},
		{".user@example.com", `".user"@example.com`, ".user"},
		{"user.@example.com", `"user."@example.com`, "user."},
	}

	for i, tc := range cases {
		if _, err := ParseAddress(tc.text); err == nil {
			t.Errorf("#%d: ParseAddress(%q) unexpectedly succeeded in strict mode", i, tc.text)
		}
		a, err := ParseAddress(tc.text, WithPermissiveLocalPart(true))
		if err != nil {
			t.Errorf("#%d: permissive ParseAddress(%q): %v", i, tc.text, err)
			continue
		}
		if got := a.String(); got != tc.wantCanonical {
			t.Errorf("#%d: permissive ParseAddress(%q).String() = %q, want %q", i, tc.text, got, tc.wantCanonical)
		}
		if got := a.LocalPart().Text(); got != tc.wantLocal {
			t.Errorf("#%d: permissive ParseAddress(%q) local part = %q, want %q", i, tc.text, got, tc.wantLocal)
		}
		// canonical output must reparse under the strict default
		if _, err := ParseAddress(a.String()); err != nil {
			t.Errorf("#%d: canonical %q does not reparse strictly: %v", i, a.String(), err)
		}
	}
}

func TestParseMailbox(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text          string
		wantName      string
		wantHasName   bool
		wantAddr      string
		wantCanonical string
	}{
		{"Jane Doe <jane@example.com>", "Jane Doe", true, "jane@example.com", "Jane Doe <jane@example.com>"},
		{"jane@example.com", "", false, "jane@example.com", "jane@example.com"},
		{"<jane@example.com>", "", false, "jane@example.com", "jane@example.com"},
		{`"John Q. Public" <jqp@example.com>`, "John Q. Public", true, "jqp@example.com", `"John Q. Public" <jqp@example.com>`},
		{"John Q. Public <jqp@example.com>", "John Q. Public", true, "jqp@example.com", `"John Q. Public" <jqp@example.com>`},
		{"Jane (comment) Doe <jane@example.com>", "Jane Doe", true, "jane@example.com", "Jane Doe <jane@example.com>"},
		{"jane@example.com (note)", "", false, "jane@example.com", "jane@example.com"},
		{`"quoted name" <"quoted local"@example.com>`, "quoted name", true, `"quoted local"@example.com`, `quoted name <"quoted local"@example.com>`},
	}

	for i, tc := range cases {
		m, err := ParseMailbox(tc.text)
		if err != nil {
			t.Errorf("#%d: ParseMailbox(%q): %v", i, tc.text, err)
			continue
		}
		name, hasName := m.DisplayName()
		if name != tc.wantName || hasName != tc.wantHasName {
			t.Errorf("#%d: ParseMailbox(%q) display name = %q/%v, want %q/%v",
				i, tc.text, name, hasName, tc.wantName, tc.wantHasName)
		}
		if got := m.Address().String(); got != tc.wantAddr {
			t.Errorf("#%d: ParseMailbox(%q) address = %q, want %q", i, tc.text, got, tc.wantAddr)
		}
		if got := m.String(); got != tc.wantCanonical {
			t.Errorf("#%d: ParseMailbox(%q).String() = %q, want %q", i, tc.text, got, tc.wantCanonical)
		}
	}
}

func TestParseMailboxErrors(t *testing.T) {
	t.Parallel()

	cases := [...]struct {
		text       string
		wantReason ParseReason
	}{
		0: {"John Doe", ReasonUnexpectedToken},
		1: {"<jdoe#machine.example>", ReasonMissingAtSign},
		2: {"Jane <jane@example.com> x", ReasonTrailingGarbage},
		3: {"Jane <jane@example.com", ReasonUnexpectedToken},
		4: {"a@example.com, b@example.com", ReasonUnexpectedToken},
		5: {"Jane <jane@example.com> (", ReasonUnterminatedComment},
		6: {"", ReasonUnexpectedToken},
	}

	for i, tc := range cases {
		_, err := ParseMailbox(tc.text)
		if err == nil {
			t.Errorf("#%d: ParseMailbox(%q) unexpectedly succeeded", i, tc.text)
			continue
		}
		reason, _ := parseReason(t, err)
		if reason != tc.wantReason {
			t.Errorf("#%d: ParseMailbox(%q) = %v (reason %d), want reason %d", i, tc.text, err, reason, tc.wantReason)
		}
	}
}
