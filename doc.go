/*
Package maillib parses, validates, and canonicalizes e-mail addresses and
mailbox entries.

For the most part, this package follows the syntax as specified by RFC 5322
and restricted by RFC 5321 for the `local-part@domain` address form and the
optional `"Display Name" <address>` mailbox form.
Notable characteristics:
  - Parsing is strict: every input either yields an immutable value or a
    structured error with a byte offset. There are no panics on malformed
    input.
  - Obsolete syntax (CFWS between the dot-atoms of a local part) is
    accepted on input but never reproduced in canonical output.
  - Groups and address lists are not parsed; a mailbox names exactly one
    address.
  - No unicode normalization is performed; non-ASCII bytes round-trip
    verbatim.
  - No network, filesystem, or environment interaction anywhere: text in,
    value out.

Canonical values can be compared, hashed with a stable digest, and
re-serialized (text, JSON, YAML, binary) without being re-validated by the
caller. Decoding any serialized form re-runs the same semantic validation
as text parsing.
*/
package maillib
