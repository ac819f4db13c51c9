package charsetconv

import (
	"errors"
	"testing"
)

func TestDecodeError_Is(t *testing.T) {
	err := newDecodeError(StageSniff, "IBM424_rtl", ErrUnsupportedCharset)

	if !errors.Is(err, ErrUnsupportedCharset) {
		t.Error("DecodeError should unwrap to ErrUnsupportedCharset")
	}

	if errors.Is(err, ErrNoCharset) {
		t.Error("DecodeError should not match ErrNoCharset")
	}

	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatal("errors.As should find *DecodeError")
	}
	if de.Stage != StageSniff {
		t.Errorf("Stage = %q, want %q", de.Stage, StageSniff)
	}
}

func TestDecodeError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with label",
			err:  newDecodeError(StageSniff, "IBM424_rtl", ErrUnsupportedCharset),
			want: `sniff stage: label "IBM424_rtl": unsupported charset`,
		},
		{
			name: "without label",
			err:  newDecodeError(StageSniff, "", ErrNoCharset),
			want: "sniff stage: no charset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodecError_Is(t *testing.T) {
	err := newCodecError(ErrUnmarshal, "application/json", errors.New("invalid json"))

	if !errors.Is(err, ErrUnmarshal) {
		t.Error("CodecError should unwrap to ErrUnmarshal")
	}

	if errors.Is(err, ErrDecode) {
		t.Error("CodecError should not match ErrDecode")
	}
}

func TestCodecError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with cause",
			err:  newCodecError(ErrUnmarshal, "application/json", errors.New("unexpected EOF")),
			want: "unmarshal failed (application/json): unexpected EOF",
		},
		{
			name: "without cause",
			err:  &CodecError{Err: ErrUnmarshal, ContentType: "application/xml"},
			want: "unmarshal failed (application/xml)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{
		ErrUnsupportedCharset,
		ErrMalformedContentType,
		ErrNoCharset,
		ErrDecode,
		ErrUnmarshal,
		ErrReadBody,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
