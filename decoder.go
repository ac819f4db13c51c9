package charsetconv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding"
)

// Resolution describes a successful decode.
type Resolution struct {
	Text     string // Decoded body
	Label    string // Label as found in the header, document or sniffer
	Encoding string // Canonical name of the encoding the label mapped to
	Stage    Stage  // Stage that produced the label
}

// Decoder resolves the charset of a body and decodes it.
//
// Decoders are immutable after construction and safe for concurrent use.
type Decoder struct {
	sniffer   Sniffer
	metaLimit int
	encodings map[string]encoding.Encoding
	stages    []stage
}

// stage is one link of the fallback chain.
type stage struct {
	name Stage

	// fatal stages report their failures instead of passing to the next stage.
	fatal bool

	// candidates yields labels in preference order.
	candidates func(body []byte, contentType string) ([]string, error)
}

// NewDecoder creates a Decoder.
//
// Without options it reads the first DefaultMetaScanLimit bytes for meta
// declarations and falls back to ChardetSniffer.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		sniffer:   ChardetSniffer(),
		metaLimit: DefaultMetaScanLimit,
		encodings: make(map[string]encoding.Encoding),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.stages = d.buildStages()
	return d
}

// buildStages wires each stage in stageOrder to its candidate source.
func (d *Decoder) buildStages() []stage {
	stages := make([]stage, 0, len(stageOrder))
	for _, name := range stageOrder {
		switch name {
		case StageHeader:
			stages = append(stages, stage{name: name, candidates: d.headerCandidates})
		case StageMeta:
			stages = append(stages, stage{name: name, candidates: d.metaCandidates})
		case StageSniff:
			stages = append(stages, stage{name: name, fatal: true, candidates: d.sniffCandidates})
		}
	}
	return stages
}

func (d *Decoder) headerCandidates(_ []byte, contentType string) ([]string, error) {
	label, err := HeaderLabel(contentType)
	if err != nil || label == "" {
		return nil, err
	}
	return []string{label}, nil
}

func (d *Decoder) metaCandidates(body []byte, _ string) ([]string, error) {
	return MetaLabels(body[:min(d.metaLimit, len(body))]), nil
}

func (d *Decoder) sniffCandidates(body []byte, _ string) ([]string, error) {
	label, err := d.sniffer.Sniff(body)
	if err != nil {
		return nil, err
	}
	return []string{label}, nil
}

// Decode resolves the charset of body and returns the decoded text.
// contentType may be empty. See Resolve.
func (d *Decoder) Decode(ctx context.Context, body []byte, contentType string) (string, error) {
	res, err := d.Resolve(ctx, body, contentType)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Resolve runs the header, meta and sniff stages in order and decodes body
// with the first usable label that maps to an encoding.
//
// Rejected header and meta candidates are skipped. A failure of the sniff
// stage is returned as a *DecodeError wrapping ErrUnsupportedCharset,
// ErrNoCharset or ErrDecode.
func (d *Decoder) Resolve(ctx context.Context, body []byte, contentType string) (*Resolution, error) {
	start := time.Now()
	emitDecodeStart(ctx, contentType, len(body))

	var res *Resolution
	var retErr error
	defer func() {
		emitDecodeComplete(ctx, contentType, len(body), time.Since(start), res, retErr)
	}()

	for _, st := range d.stages {
		labels, err := st.candidates(body, contentType)
		if err != nil {
			if st.fatal {
				if !errors.Is(err, ErrNoCharset) {
					err = fmt.Errorf("%w: %w", ErrNoCharset, err)
				}
				retErr = newDecodeError(st.name, "", err)
				return nil, retErr
			}
			emitCandidateRejected(ctx, st.name, "", err)
			continue
		}

		for _, label := range labels {
			if !IsUsableLabel(label) {
				continue
			}
			text, name, err := d.decodeWith(label, body)
			if err != nil {
				if st.fatal {
					retErr = newDecodeError(st.name, label, err)
					return nil, retErr
				}
				emitCandidateRejected(ctx, st.name, label, err)
				continue
			}
			res = &Resolution{Text: text, Label: label, Encoding: name, Stage: st.name}
			return res, nil
		}
	}

	// Only reachable when the sniffer returned an empty label.
	retErr = newDecodeError(StageSniff, "", ErrNoCharset)
	return nil, retErr
}

// decodeWith decodes the whole body with the encoding named by label.
func (d *Decoder) decodeWith(label string, body []byte) (string, string, error) {
	enc, name, err := d.lookup(label)
	if err != nil {
		return "", "", err
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrDecode, name, err)
	}
	return string(out), name, nil
}

// lookup consults encodings registered with WithEncoding before the
// built-in indexes.
func (d *Decoder) lookup(label string) (encoding.Encoding, string, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	if enc, ok := d.encodings[key]; ok {
		if enc == nil {
			return nil, "", fmt.Errorf("%w: %q is disabled", ErrUnsupportedCharset, label)
		}
		return enc, key, nil
	}
	return LookupEncoding(label)
}
