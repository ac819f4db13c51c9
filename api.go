// Package charsetconv decodes HTTP response bodies whose text encoding is
// missing, wrong, or only discoverable from the document itself.
//
// A Decoder resolves the charset of a body in three ordered stages and
// decodes the whole body with the first label that works:
//
//   - header: the charset parameter of the declared Content-Type
//   - meta: <meta charset> or <meta http-equiv="content-type"> in the first
//     1024 bytes of the body, read as UTF-8
//   - sniff: a statistical guess from a Sniffer (chardet by default)
//
// The header and meta stages skip labels that do not map to a known
// encoding. The sniff stage is the last resort: if its label cannot be
// decoded the call fails with a *DecodeError.
//
// # Basic Usage
//
//	dec := charsetconv.NewDecoder()
//	text, err := dec.Decode(ctx, body, resp.Header.Get("Content-Type"))
//
// # Structured Responses
//
// A Converter pairs a Decoder with codecs and turns a response into a typed
// value. The decoded text is handed to the codec as UTF-8:
//
//	conv := charsetconv.NewConverter(json.New(),
//	    charsetconv.WithCodec(xml.New()),
//	    charsetconv.WithCodec(msgpack.New()),
//	)
//
//	page, err := charsetconv.ConvertResponse[string](ctx, conv, resp)
//	book, err := charsetconv.ConvertResponse[Book](ctx, conv, resp)
//
// ConvertResponse always closes the response body.
//
// # Codec Providers
//
// The following codec implementations are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack, binary)
//   - bson - BSON encoding (application/bson, binary)
//
// Binary codecs receive the raw body; charset resolution is skipped for them.
//
// # Signals
//
// The package does not log. Decode and convert operations emit capitan
// signals (see signals.go) that callers may observe.
package charsetconv

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// BinaryCodec is implemented by codecs whose wire format is not text.
// When Binary reports true the Converter passes the raw body to Unmarshal
// without resolving a charset.
type BinaryCodec interface {
	Codec

	// Binary reports whether the codec consumes raw bytes.
	Binary() bool
}

// Sniffer guesses the charset of a body from its bytes.
type Sniffer interface {
	// Sniff returns a best-effort charset label for body.
	// The label is used verbatim; an unusable label fails the decode.
	Sniff(body []byte) (string, error)
}

// SnifferFunc adapts a function to the Sniffer interface.
type SnifferFunc func(body []byte) (string, error)

// Sniff calls f(body).
func (f SnifferFunc) Sniff(body []byte) (string, error) {
	return f(body)
}

// isBinary reports whether c asks for the raw body.
func isBinary(c Codec) bool {
	bc, ok := c.(BinaryCodec)
	return ok && bc.Binary()
}
