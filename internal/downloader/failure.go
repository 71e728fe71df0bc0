package downloader

import (
	"fmt"

	"github.com/brogergvhs/mangagrab/internal/chapters"
)

type Kind int

const (
	KindNetwork Kind = iota + 1
	KindNotAnImage
	KindDirectory
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindNotAnImage:
		return "not an image"
	case KindDirectory:
		return "directory"
	case KindWrite:
		return "write"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const previewLimit = 256

// Failure carries the unit that failed so it can be retried without
// crawling again.
type Failure struct {
	Kind  Kind
	Unit  chapters.Unit
	Cause error
	// Content is a bounded prefix of the rejected body for KindNotAnImage.
	Content []byte
}

func (f *Failure) Error() string {
	if f.Cause == nil {
		return fmt.Sprintf("%s: %s", f.Unit, f.Kind)
	}

	return fmt.Sprintf("%s: %s: %v", f.Unit, f.Kind, f.Cause)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Outcome is the result of one attempt. Exactly one of Path and Err is set.
type Outcome struct {
	Unit  chapters.Unit
	Path  string
	Bytes int64
	Err   *Failure
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

func failed(kind Kind, unit chapters.Unit, cause error) Outcome {
	return Outcome{Unit: unit, Err: &Failure{Kind: kind, Unit: unit, Cause: cause}}
}

func preview(data []byte) []byte {
	if len(data) > previewLimit {
		data = data[:previewLimit]
	}

	return append([]byte(nil), data...)
}
