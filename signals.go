package charsetconv

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for decode and convert events.
var (
	SignalConverterCreated  = capitan.NewSignal("charsetconv.converter.created", "Converter instantiated")
	SignalDecodeStart       = capitan.NewSignal("charsetconv.decode.start", "Charset resolution beginning")
	SignalDecodeComplete    = capitan.NewSignal("charsetconv.decode.complete", "Charset resolution finished")
	SignalCandidateRejected = capitan.NewSignal("charsetconv.candidate.rejected", "Candidate label skipped")
	SignalConvertStart      = capitan.NewSignal("charsetconv.convert.start", "Convert operation beginning")
	SignalConvertComplete   = capitan.NewSignal("charsetconv.convert.complete", "Convert operation finished")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyCodec       = capitan.NewStringKey("codec")
	KeyLabel       = capitan.NewStringKey("label")
	KeyEncoding    = capitan.NewStringKey("encoding")
	KeyStage       = capitan.NewStringKey("stage")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitConverterCreated emits an event when a converter is created.
func emitConverterCreated(ctx context.Context, fallback string, codecs int) {
	capitan.Emit(ctx, SignalConverterCreated,
		KeyCodec.Field(fallback),
		KeySize.Field(codecs),
	)
}

// emitDecodeStart emits an event when charset resolution begins.
func emitDecodeStart(ctx context.Context, contentType string, size int) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyContentType.Field(contentType),
		KeySize.Field(size),
	)
}

// emitDecodeComplete emits an event when charset resolution finishes.
// res is nil on failure.
func emitDecodeComplete(ctx context.Context, contentType string, size int, duration time.Duration, res *Resolution, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if res != nil {
		fields = append(fields,
			KeyStage.Field(res.Stage.String()),
			KeyLabel.Field(res.Label),
			KeyEncoding.Field(res.Encoding),
		)
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

// emitCandidateRejected emits an event when a non-terminal stage skips a label.
func emitCandidateRejected(ctx context.Context, stage Stage, label string, err error) {
	capitan.Error(ctx, SignalCandidateRejected,
		KeyStage.Field(stage.String()),
		KeyLabel.Field(label),
		KeyError.Field(err),
	)
}

// emitConvertStart emits an event when a convert begins.
func emitConvertStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalConvertStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitConvertComplete emits an event when a convert finishes.
func emitConvertComplete(ctx context.Context, contentType, typeName, codec string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeyCodec.Field(codec),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalConvertComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalConvertComplete, fields...)
	}
}
