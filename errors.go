package maillib

import "fmt"

// AddressError is implemented by both error families this package
// produces while turning text into a value: *ParseError for grammar-level
// failures and *ValidationError for policy-level ones. The two are never
// coerced into each other.
type AddressError interface {
	error
	addressError()
}

// ParseReason tags the grammar production that failed.
type ParseReason int

const (
	ReasonUnexpectedToken ParseReason = iota
	ReasonUnterminatedQuotedString
	ReasonUnterminatedComment
	ReasonInvalidDomainLiteral
	ReasonMissingAtSign
	ReasonEmptyLocalPart
	ReasonTrailingGarbage
	ReasonTooComplex
)

func (r ParseReason) String() string {
	switch r {
	case ReasonUnexpectedToken:
		return "unexpected character"
	case ReasonUnterminatedQuotedString:
		return "unterminated quoted-string"
	case ReasonUnterminatedComment:
		return "misformatted parenthetical comment"
	case ReasonInvalidDomainLiteral:
		return "malformed domain-literal"
	case ReasonMissingAtSign:
		return "missing @ in addr-spec"
	case ReasonEmptyLocalPart:
		return "empty local part"
	case ReasonTrailingGarbage:
		return "trailing characters after address"
	case ReasonTooComplex:
		return "comment nesting too deep"
	}
	return "invalid address"
}

// ParseError reports that the input is not well-formed under the address
// grammar. Off is the byte offset at which parsing failed.
type ParseError struct {
	Off    int
	Reason ParseReason
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Reason, e.Off)
}

func (e *ParseError) addressError() {}

// ValidationReason tags the policy limit that was exceeded by input that
// was otherwise grammatically well-formed.
type ValidationReason int

const (
	ReasonLocalPartTooLong ValidationReason = iota
	ReasonDomainLabelTooLong
	ReasonAddressTooLong
	ReasonInvalidLiteralFamily
	ReasonDisplayNameTooLong
	ReasonInvalidDomainLabel
	ReasonInvalidDisplayName
)

func (r ValidationReason) String() string {
	switch r {
	case ReasonLocalPartTooLong:
		return "local part too long"
	case ReasonDomainLabelTooLong:
		return "domain label too long"
	case ReasonAddressTooLong:
		return "address too long"
	case ReasonInvalidLiteralFamily:
		return "address literal does not match its declared family"
	case ReasonDisplayNameTooLong:
		return "display name too long"
	case ReasonInvalidDomainLabel:
		return "malformed domain label"
	case ReasonInvalidDisplayName:
		return "malformed display name"
	}
	return "invalid address"
}

// ValidationError reports a policy violation. For length violations Limit
// and Actual carry the ceiling and the measured size in bytes.
type ValidationError struct {
	Reason ValidationReason
	Limit  int
	Actual int
}

func (e *ValidationError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("%s: %d octets, limit %d", e.Reason, e.Actual, e.Limit)
	}
	return e.Reason.String()
}

func (e *ValidationError) addressError() {}

// DecodeError reports a failure while decoding a serialized form. Cause
// is either a structural decoding problem or the AddressError produced by
// re-validating the decoded value.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
