package bundle

import (
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// A Report describes the outcome of one build.
type Report struct {
	ID       uuid.UUID
	Start    time.Time
	Duration time.Duration
	Files    []File   // files written, empty if the build failed
	Warnings []string // formatted esbuild warnings
	Errors   []string // formatted esbuild errors
}

// A File was written by a build.
type File struct {
	Path string // relative to the configuration directory
	Size int64
}

// Err joins the errors of the build, or returns nil if it succeeded.
func (r *Report) Err() error {
	errs := make([]error, len(r.Errors))
	for i, msg := range r.Errors {
		errs[i] = errors.New(msg)
	}
	return errors.Join(errs...)
}

// Size is the total size of the written files.
func (r *Report) Size() int64 {
	var n int64
	for _, f := range r.Files {
		n += f.Size
	}
	return n
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (r *Report) MarshalZerologObject(e *zerolog.Event) {
	e.Stringer(`id`, r.ID).
		Dur(`duration`, r.Duration).
		Int(`files`, len(r.Files)).
		Str(`size`, humanize.Bytes(uint64(r.Size()))).
		Int(`warnings`, len(r.Warnings)).
		Int(`errors`, len(r.Errors))
}

func formatMessages(msgs []esbuild.Message, kind esbuild.MessageKind) []string {
	if len(msgs) == 0 {
		return nil
	}
	return esbuild.FormatMessages(msgs, esbuild.FormatMessagesOptions{Kind: kind})
}
