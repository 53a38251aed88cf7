package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"code.sajari.com/docconv"
)

// ErrExtraction indicates the stored file could not be converted to plain
// text. The error is terminal for the current processing attempt.
var ErrExtraction = errors.New("text extraction failed")

// TextExtractor converts stored file bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, contentType string) (string, error)
}

// DocconvExtractor extracts text with the docconv library. Conversion runs
// under a timeout so an unparseable file surfaces as a failure instead of a
// hang.
type DocconvExtractor struct {
	timeout time.Duration
}

func NewDocconvExtractor(timeout time.Duration) *DocconvExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DocconvExtractor{timeout: timeout}
}

type conversion struct {
	text string
	err  error
}

func (e *DocconvExtractor) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan conversion, 1)
	go func() {
		res, err := docconv.Convert(bytes.NewReader(data), contentType, true)
		if err != nil {
			done <- conversion{err: err}
			return
		}
		done <- conversion{text: res.Body}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrExtraction, ctx.Err())
	case c := <-done:
		if c.err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtraction, c.err)
		}
		return c.text, nil
	}
}
