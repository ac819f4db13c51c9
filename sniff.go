package charsetconv

import (
	"errors"
	"fmt"

	"github.com/saintfish/chardet"
)

// utf8Label is reported for bodies with nothing to analyse.
const utf8Label = "UTF-8"

// chardetSniffer implements Sniffer with ICU-derived statistical detection.
type chardetSniffer struct {
	detector *chardet.Detector
}

// ChardetSniffer returns the default Sniffer. It reports the IANA name of the
// most confident match, e.g. "UTF-8", "GB-18030" or "Shift_JIS".
// An empty body is reported as UTF-8.
func ChardetSniffer() Sniffer {
	return &chardetSniffer{detector: chardet.NewTextDetector()}
}

// HTMLSniffer returns a chardet Sniffer that ignores markup while counting.
func HTMLSniffer() Sniffer {
	return &chardetSniffer{detector: chardet.NewHtmlDetector()}
}

func (s *chardetSniffer) Sniff(body []byte) (string, error) {
	if len(body) == 0 {
		return utf8Label, nil
	}
	result, err := s.detector.DetectBest(body)
	if err != nil {
		if errors.Is(err, chardet.NotDetectedError) {
			return "", fmt.Errorf("%w: %v", ErrNoCharset, err)
		}
		return "", err
	}
	return result.Charset, nil
}
