// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"github.com/sjianjun/charsetconv"
	"github.com/vmihailenco/msgpack/v5"
)

// msgpackCodec implements charsetconv.BinaryCodec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() charsetconv.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Binary reports true: MessagePack bodies skip charset resolution.
func (c *msgpackCodec) Binary() bool {
	return true
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
