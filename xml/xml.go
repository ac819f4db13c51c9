// Package xml provides an XML codec implementation.
//
// The codec expects UTF-8 input, which is what a charsetconv.Converter hands
// it. An encoding named in the XML declaration is accepted and ignored, so a
// GBK document that has already been transcoded still parses.
package xml

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/sjianjun/charsetconv"
)

// xmlCodec implements charsetconv.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec.
func New() charsetconv.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	return xml.Marshal(v)
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = alreadyUTF8
	return dec.Decode(v)
}

// alreadyUTF8 is the CharsetReader for transcoded input.
func alreadyUTF8(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}
