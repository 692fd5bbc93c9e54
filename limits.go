package protowire

// config holds the resource guards a Decode/Encode call enforces. It is
// unexported; callers configure it through the Option functions below,
// following the functional-options idiom the wider pack's constructors
// use (e.g. codec.Buffer.SetDeterministic in the teacher, or
// protobuilder's builder options).
type config struct {
	// maxDepth bounds nested-message/repeated-of-message/map-of-message
	// recursion. Exceeding it returns KindDepthExceeded. Spec.md §4.7
	// suggests 100 as a sensible default.
	maxDepth int
	// maxRawLength bounds any single length-delimited payload's declared
	// size, defending against a crafted length prefix that would cause
	// an oversized allocation before the actual bytes are even read.
	// Zero means unlimited. Spec.md §5 calls this "SHOULD reject length
	// prefixes whose value exceeds a caller-configurable maximum".
	maxRawLength int
	// maxRawFields bounds the number of raw fields DecodeRawFields will
	// accumulate for one message (the top-level message, and separately
	// each nested message or map entry decoded with the same config),
	// defending against a pathological stream of zero-length fields. Zero
	// means unlimited.
	maxRawFields int
}

const (
	defaultMaxDepth      = 100
	defaultMaxRawLength  = 64 << 20 // 64 MiB
	defaultMaxRawFields  = 0        // unlimited by default; field count alone is cheap to accumulate
)

func defaultConfig() config {
	return config{
		maxDepth:     defaultMaxDepth,
		maxRawLength: defaultMaxRawLength,
		maxRawFields: defaultMaxRawFields,
	}
}

// Option configures the resource limits a decode or encode call enforces.
type Option func(*config)

// WithMaxDepth overrides the maximum nesting depth (nested messages,
// repeated-of-message, and map values all count) a decode or encode may
// recurse to before failing with KindDepthExceeded. The default is 100,
// per spec.md §4.7. A value <= 0 disables the check.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// WithMaxRawLength overrides the maximum value a length-delimited wire
// payload's length prefix may declare before decoding fails with
// KindLengthExceeded. The default is 64 MiB. A value <= 0 disables the
// check (not recommended for untrusted input).
func WithMaxRawLength(n int) Option {
	return func(c *config) { c.maxRawLength = n }
}

// WithMaxRawFields overrides the maximum number of RawField values
// DecodeRawFields will accumulate for one message before failing with
// KindLengthExceeded; the same limit applies to each nested message and
// map entry a typed decode parses. Zero (the default) means unlimited.
func WithMaxRawFields(n int) Option {
	return func(c *config) { c.maxRawFields = n }
}

func newConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
