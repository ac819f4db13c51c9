package charsetconv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

// errNoCodec is the cause reported when no codec can take a content type.
var errNoCodec = errors.New("no codec for content type")

// Converter turns response bodies into strings or typed values.
//
// Converters are immutable after construction and safe for concurrent use.
type Converter struct {
	decoder  *Decoder
	fallback Codec
	codecs   map[string]Codec
}

// NewConverter creates a Converter that unmarshals with fallback unless a
// codec registered through WithCodec matches the response content type.
// fallback may be nil for converters that only produce strings.
//
// Without WithDecoder the converter uses NewDecoder().
func NewConverter(fallback Codec, opts ...ConverterOption) *Converter {
	c := &Converter{
		fallback: fallback,
		codecs:   make(map[string]Codec),
	}
	if fallback != nil {
		c.codecs[mediaType(fallback.ContentType())] = fallback
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.decoder == nil {
		c.decoder = NewDecoder()
	}

	var fallbackName string
	if fallback != nil {
		fallbackName = fallback.ContentType()
	}
	emitConverterCreated(context.Background(), fallbackName, len(c.codecs))
	return c
}

// Decoder returns the Decoder used for text bodies.
func (c *Converter) Decoder() *Decoder {
	return c.decoder
}

// CodecFor returns the codec for a response content type.
//
// The media type is matched exactly first. A structured syntax suffix
// ("application/problem+json") then selects the codec for
// "application/<suffix>", and "text/<x>" selects "application/<x>".
// Anything else gets the fallback codec, which may be nil.
func (c *Converter) CodecFor(contentType string) Codec {
	mt := mediaType(contentType)
	if codec, ok := c.codecs[mt]; ok {
		return codec
	}
	if i := strings.LastIndexByte(mt, '+'); i >= 0 {
		if codec, ok := c.codecs["application/"+mt[i+1:]]; ok {
			return codec
		}
	}
	if sub, ok := strings.CutPrefix(mt, "text/"); ok {
		if codec, ok := c.codecs["application/"+sub]; ok {
			return codec
		}
	}
	return c.fallback
}

// Text decodes body to a string. It is Convert[string] without the pointer.
func (c *Converter) Text(ctx context.Context, body []byte, contentType string) (string, error) {
	out, err := Convert[string](ctx, c, body, contentType)
	if err != nil {
		return "", err
	}
	return *out, nil
}

// Convert decodes body and, unless T is string, unmarshals the text into a
// new T with the codec chosen by CodecFor.
//
// Binary codecs receive body as is. Text codecs receive the decoded text as
// UTF-8, whatever the original charset was.
func Convert[T any](ctx context.Context, c *Converter, body []byte, contentType string) (*T, error) {
	info := typeInfoFor[T]()
	start := time.Now()
	emitConvertStart(ctx, contentType, info.name)

	var codecName string
	var retErr error
	defer func() {
		emitConvertComplete(ctx, contentType, info.name, codecName, len(body), time.Since(start), retErr)
	}()

	var out T
	if s, ok := any(&out).(*string); ok {
		text, err := c.decoder.Decode(ctx, body, contentType)
		if err != nil {
			retErr = err
			return nil, retErr
		}
		*s = text
		return &out, nil
	}

	codec := c.CodecFor(contentType)
	if codec == nil {
		retErr = newCodecError(ErrUnmarshal, mediaType(contentType), errNoCodec)
		return nil, retErr
	}
	codecName = codec.ContentType()

	data := body
	if !isBinary(codec) {
		text, err := c.decoder.Decode(ctx, body, contentType)
		if err != nil {
			retErr = err
			return nil, retErr
		}
		data = []byte(text)
	}

	if err := codec.Unmarshal(data, &out); err != nil {
		retErr = newCodecError(ErrUnmarshal, codecName, err)
		return nil, retErr
	}
	return &out, nil
}

// ConvertReader reads body to the end and converts it. body is closed
// exactly once on every return path; close errors are ignored.
func ConvertReader[T any](ctx context.Context, c *Converter, body io.ReadCloser, contentType string) (*T, error) {
	if body == nil {
		return Convert[T](ctx, c, nil, contentType)
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadBody, err)
	}
	return Convert[T](ctx, c, data, contentType)
}

// ConvertResponse converts resp.Body using the response Content-Type header.
// The body is always closed.
func ConvertResponse[T any](ctx context.Context, c *Converter, resp *http.Response) (*T, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", ErrReadBody)
	}
	return ConvertReader[T](ctx, c, resp.Body, resp.Header.Get("Content-Type"))
}

// mediaType returns the lower-cased media type of a Content-Type value,
// without parameters. Unparseable values are cut at the first semicolon.
func mediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
