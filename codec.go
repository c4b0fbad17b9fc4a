// Package ltmsg packs game messages into compact bit streams and unpacks them.
//
// A message has no header and no type tags: the reader must replay the exact
// sequence of reads the writer performed. Bits are packed least significant
// first into the smallest number of bytes that holds them.
package ltmsg

// Encoder is implemented by message types that know how to write themselves.
// Errors are latched on the Writer and reported by Writer.Err.
type Encoder interface {
	EncodeMessage(w *Writer)
}

// Decoder is implemented by message types that know how to read themselves
// back, in the same order EncodeMessage wrote them.
type Decoder interface {
	DecodeMessage(r *Reader) error
}

// Codec aggregates both directions.
type Codec interface {
	Encoder
	Decoder
}

// FixedWidth is the wire contract of one logical type: a canonical bit width
// plus the functions that move a value of that type in and out of a message.
type FixedWidth[T any] interface {
	// Bits returns the number of bits a value occupies on the wire.
	Bits() uint
	Put(w *Writer, v T)
	Get(r *Reader) (T, error)
}

type options struct {
	resolver HandleResolver
	config   *Config
}

// Option configures a Writer or Reader.
type Option func(*options)

// WithResolver injects the collaborator used by WriteObject/ReadObject and
// WriteTimer/ReadTimer. Without one every handle encodes as the null ID and
// every non-null ID fails to resolve.
func WithResolver(r HandleResolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithConfig selects the quantization profiles of the compressed types.
// A nil config selects DefaultConfig.
func WithConfig(c *Config) Option {
	return func(o *options) { o.config = c }
}

func buildOptions(opts []Option) options {
	o := options{config: defaultConfig}
	for _, opt := range opts {
		opt(&o)
	}
	if o.config == nil {
		o.config = defaultConfig
	}
	return o
}

// conf returns the configured quantization profiles. Zero-value writers and
// readers use DefaultConfig.
func (o *options) conf() *Config {
	if o.config == nil {
		return defaultConfig
	}
	return o.config
}
