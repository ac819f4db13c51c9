package charsetconv

import (
	"strings"

	"golang.org/x/net/html"
)

// DefaultMetaScanLimit is how many leading bytes of a body the meta stage
// inspects unless WithMetaScanLimit says otherwise.
const DefaultMetaScanLimit = 1024

// MetaLabels returns the charset labels declared by <meta> elements in head,
// in document order. head is read as UTF-8; invalid sequences become U+FFFD.
//
// A meta element contributes its charset attribute when non-empty, and then,
// if its http-equiv is "content-type" in any case, the label found in its
// content attribute. Labels are returned as written.
func MetaLabels(head []byte) []string {
	text := strings.ToValidUTF8(string(head), "\uFFFD")
	z := html.NewTokenizer(strings.NewReader(text))

	var labels []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a truncated document; either way the scan is over.
			return labels
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if !hasAttr || string(name) != "meta" {
				continue
			}
			attrs := tagAttrs(z)
			if cs := attrs["charset"]; cs != "" {
				labels = append(labels, cs)
			}
			if strings.EqualFold(attrs["http-equiv"], "content-type") {
				if cs, ok := contentCharset(attrs["content"]); ok {
					labels = append(labels, cs)
				}
			}
		}
	}
}

// tagAttrs collects the attributes of the current tag. The first occurrence
// of a repeated attribute wins, as in HTML parsing.
func tagAttrs(z *html.Tokenizer) map[string]string {
	attrs := make(map[string]string, 3)
	for {
		key, val, more := z.TagAttr()
		if k := string(key); k != "" {
			if _, seen := attrs[k]; !seen {
				attrs[k] = string(val)
			}
		}
		if !more {
			return attrs
		}
	}
}

// contentCharset extracts the label from a meta content value such as
// "text/html; charset=gbk".
//
// When the value mentions "charset" (any case) the label is whatever follows
// "charset=". Otherwise it is whatever follows the first semicolon. A value
// with neither yields no label.
func contentCharset(content string) (string, bool) {
	lower := asciiLower(content)

	if i := strings.Index(lower, "charset"); i >= 0 {
		start := i + len("charset=")
		if start > len(content) {
			return "", false
		}
		return strings.TrimSpace(content[start:]), true
	}

	if i := strings.Index(lower, ";"); i >= 0 {
		return strings.TrimSpace(content[i+1:]), true
	}
	return "", false
}

// asciiLower lower-cases ASCII letters only, so byte offsets into the result
// are valid offsets into s.
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
