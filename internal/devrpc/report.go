package devrpc

import (
	"github.com/swdunlop/globe-go/bundle"
	"github.com/tinylib/msgp/msgp"
)

//go:generate go run github.com/tinylib/msgp -io=false -tests=false
//msgp:tag json
//msgp:ignore Request

// A Report is the wire form of a bundle.Report.  Times are milliseconds so that clients without a timestamp
// extension can read them.
type Report struct {
	ID         string   `json:"id"`
	StartMS    int64    `json:"start_ms"`
	DurationMS int64    `json:"duration_ms"`
	Files      []File   `json:"files"`
	Warnings   []string `json:"warnings"`
	Errors     []string `json:"errors"`
}

// A File is the wire form of a bundle.File.
type File struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

func reportOf(r *bundle.Report) Report {
	out := Report{
		ID:         r.ID.String(),
		StartMS:    r.Start.UnixMilli(),
		DurationMS: r.Duration.Milliseconds(),
		Files:      make([]File, len(r.Files)),
		Warnings:   append([]string{}, r.Warnings...),
		Errors:     append([]string{}, r.Errors...),
	}
	for i, f := range r.Files {
		out.Files[i] = File{Path: f.Path, Size: f.Size}
	}
	return out
}

// A Request carries no arguments.  Clients may send nil, an empty payload or any value, which is ignored.
type Request struct{}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *Request) UnmarshalMsg(bts []byte) ([]byte, error) {
	if len(bts) == 0 {
		return bts, nil
	}
	return msgp.Skip(bts)
}
