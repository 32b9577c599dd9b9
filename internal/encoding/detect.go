package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how much of an upload is inspected before decoding starts.
const sniffSize = 4096

var boms = []struct {
	mark    []byte
	decoder func() *encoding.Decoder
}{
	{mark: []byte{0xEF, 0xBB, 0xBF}},
	{mark: []byte{0xFF, 0xFE}, decoder: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder},
	{mark: []byte{0xFE, 0xFF}, decoder: unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder},
}

// legacy maps chardet charset names to decoders for single-byte encodings
// spreadsheet programs on Windows still produce.
var legacy = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
}

// NewUTF8Reader returns a reader that yields r's content as UTF-8.
//
// A byte order mark wins. Otherwise valid UTF-8 passes through untouched,
// chardet picks among known legacy charsets, and Windows-1252 is assumed
// when nothing matches.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(buf, b.mark) {
			continue
		}

		if b.decoder == nil {
			_, _ = br.Discard(len(b.mark))
			return br, nil
		}

		return transform.NewReader(br, b.decoder()), nil
	}

	if utf8.Valid(buf) {
		return br, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if result.Charset == "UTF-8" {
			return br, nil
		}

		if e, ok := legacy[result.Charset]; ok {
			return transform.NewReader(br, e.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}
