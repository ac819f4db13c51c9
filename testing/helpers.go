// Package testing provides test utilities for charsetconv.
package testing

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// ChineseText is a short GB2312-representable sample.
const ChineseText = "中文测试：字符集解码"

// JapaneseText is a short Shift_JIS-representable sample.
const JapaneseText = "日本語のテキスト"

// GB2312 returns s encoded as GB2312 (GBK, of which GB2312 is a subset).
func GB2312(s string) []byte {
	return mustEncode(simplifiedchinese.GBK, s)
}

// GB18030 returns s encoded as GB18030.
func GB18030(s string) []byte {
	return mustEncode(simplifiedchinese.GB18030, s)
}

// ShiftJIS returns s encoded as Shift_JIS.
func ShiftJIS(s string) []byte {
	return mustEncode(japanese.ShiftJIS, s)
}

func mustEncode(enc encoding.Encoding, s string) []byte {
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	return out
}

// HTMLPage returns a minimal document with head placed inside <head>.
func HTMLPage(head, body string) string {
	return "<html><head>" + head + "</head><body>" + body + "</body></html>"
}

// StubSniffer is a charsetconv.Sniffer returning a fixed answer and
// recording how it was called. It is safe for concurrent use.
type StubSniffer struct {
	Label string
	Err   error

	mu    sync.Mutex
	calls int
	last  []byte
}

// Sniff records body and returns the configured label and error.
func (s *StubSniffer) Sniff(body []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = append([]byte(nil), body...)
	return s.Label, s.Err
}

// Calls returns how many times Sniff ran.
func (s *StubSniffer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Last returns a copy of the body passed to the most recent Sniff call.
func (s *StubSniffer) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...)
}

// ErrStubRead is returned by a TrackingBody created with FailRead.
var ErrStubRead = errors.New("stub read failure")

// TrackingBody is an io.ReadCloser that counts Close calls.
type TrackingBody struct {
	r        io.Reader
	failRead bool

	mu     sync.Mutex
	closed int
}

// NewTrackingBody wraps data.
func NewTrackingBody(data []byte) *TrackingBody {
	return &TrackingBody{r: bytes.NewReader(data)}
}

// FailRead returns a body whose reads fail with ErrStubRead.
func FailRead() *TrackingBody {
	return &TrackingBody{r: bytes.NewReader(nil), failRead: true}
}

// Read implements io.Reader.
func (b *TrackingBody) Read(p []byte) (int, error) {
	if b.failRead {
		return 0, ErrStubRead
	}
	return b.r.Read(p)
}

// Close implements io.Closer.
func (b *TrackingBody) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return nil
}

// Closed returns how many times Close ran.
func (b *TrackingBody) Closed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Chapter is a structured payload used across codec tests.
type Chapter struct {
	ID    int    `json:"id" xml:"id" yaml:"id" msgpack:"id" bson:"id"`
	Title string `json:"title" xml:"title" yaml:"title" msgpack:"title" bson:"title"`
	Body  string `json:"body" xml:"body" yaml:"body" msgpack:"body" bson:"body"`
}
