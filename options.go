package maillib

const defaultMaxDisplayNameLength = 256

type options struct {
	permissiveLocalPart  bool
	lowercaseDomain      bool
	maxDisplayNameLength int
}

func defaultOptions() options {
	return options{maxDisplayNameLength: defaultMaxDisplayNameLength}
}

// Option configures parsing and canonicalization.
type Option func(*options)

// WithPermissiveLocalPart makes the parser accept local parts with
// leading, trailing, or doubled dots. Such local parts are rendered as
// quoted strings in canonical output so that the output always reparses
// under the default, strict mode.
func WithPermissiveLocalPart(v bool) Option {
	return func(o *options) {
		o.permissiveLocalPart = v
	}
}

// WithLowercaseDomain lowercases domain names while building the value.
// Domain comparison is case-insensitive either way; this only changes the
// canonical textual form.
func WithLowercaseDomain(v bool) Option {
	return func(o *options) {
		o.lowercaseDomain = v
	}
}

// WithMaxDisplayNameLength sets the practical ceiling, in bytes, on a
// mailbox display name. The default is 256.
func WithMaxDisplayNameLength(n int) Option {
	return func(o *options) {
		o.maxDisplayNameLength = n
	}
}
