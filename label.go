package charsetconv

import (
	"fmt"
	"mime"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode/utf32"
)

// labelEncoding is an encoding together with its canonical name.
type labelEncoding struct {
	enc  encoding.Encoding
	name string
}

// Alias mappings for labels that detectors emit but neither the WHATWG nor
// the IANA index knows. Keys are lower case.
var charsetAliases = map[string]labelEncoding{
	"gb-18030": {simplifiedchinese.GB18030, "gb18030"},
	"utf-32":   {utf32.UTF32(utf32.BigEndian, utf32.UseBOM), "utf-32"},
	"utf-32be": {utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), "utf-32be"},
	"utf-32le": {utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), "utf-32le"},
}

// IsUsableLabel reports whether label may be tried against the encoding
// index. Only the empty label is refused here; unknown names are refused by
// the lookup itself.
func IsUsableLabel(label string) bool {
	return label != ""
}

// HeaderLabel extracts the charset parameter from a Content-Type value.
// It returns "" when contentType is empty or carries no charset, and an
// error wrapping ErrMalformedContentType when the value cannot be parsed.
func HeaderLabel(contentType string) (string, error) {
	if strings.TrimSpace(contentType) == "" {
		return "", nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedContentType, contentType, err)
	}
	return strings.TrimSpace(params["charset"]), nil
}

// LookupEncoding maps a charset label to an encoding and its canonical name.
//
// Labels are matched case-insensitively against, in order, the WHATWG
// encoding index used by browsers, the IANA MIME and IANA name indexes, and
// a small alias table. The WHATWG "replacement" encoding is never returned.
func LookupEncoding(label string) (encoding.Encoding, string, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return nil, "", fmt.Errorf("%w: empty label", ErrUnsupportedCharset)
	}

	if enc, name := charset.Lookup(key); enc != nil && name != "replacement" {
		return enc, name, nil
	}

	for _, index := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		enc, err := index.Encoding(key)
		// A known but unimplemented name yields a nil encoding and a nil error.
		if err != nil || enc == nil {
			continue
		}
		name, err := ianaindex.IANA.Name(enc)
		if err != nil {
			name = key
		}
		return enc, strings.ToLower(name), nil
	}

	if le, ok := charsetAliases[key]; ok {
		return le.enc, le.name, nil
	}

	return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedCharset, label)
}
