package extract

import (
	"io"
	"strings"
)

// TextExtractor handles plain text files. Invalid UTF-8 sequences are
// dropped rather than rejected, since the segmenter operates on whatever
// text survives.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
