package charsetconv

import (
	"strings"

	"golang.org/x/text/encoding"
)

// Option configures a Decoder.
type Option func(*Decoder)

// WithSniffer replaces the default chardet Sniffer used by the last stage.
func WithSniffer(s Sniffer) Option {
	return func(d *Decoder) {
		if s != nil {
			d.sniffer = s
		}
	}
}

// WithMetaScanLimit sets how many leading bytes the meta stage inspects.
// Values below 1 keep DefaultMetaScanLimit.
func WithMetaScanLimit(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.metaLimit = n
		}
	}
}

// WithEncoding registers enc under label, ahead of the built-in indexes.
// Labels match case-insensitively. A nil enc disables the label: every
// stage then treats it as unsupported.
func WithEncoding(label string, enc encoding.Encoding) Option {
	return func(d *Decoder) {
		key := strings.ToLower(strings.TrimSpace(label))
		if key != "" {
			d.encodings[key] = enc
		}
	}
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithDecoder sets the Decoder used for text bodies.
func WithDecoder(d *Decoder) ConverterOption {
	return func(c *Converter) {
		if d != nil {
			c.decoder = d
		}
	}
}

// WithCodec registers codec for its content type. Later registrations for
// the same content type replace earlier ones.
func WithCodec(codec Codec) ConverterOption {
	return func(c *Converter) {
		if codec != nil {
			c.codecs[mediaType(codec.ContentType())] = codec
		}
	}
}
