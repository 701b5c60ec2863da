// Package textio reads crawl dumps that arrive in whatever encoding the
// scraper happened to write: UTF-8 with or without a BOM, UTF-16 from Windows
// tooling, or a legacy single-byte codepage.
package textio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// detectSampleSize bounds how much of the stream the charset detector sees.
const detectSampleSize = 10000

// ReadLines decodes r into UTF-8 and returns its non-empty lines, whitespace
// trimmed. The encoding is resolved from the BOM when one is present,
// otherwise by charset detection over the leading bytes.
func ReadLines(r io.Reader) ([]string, error) {
	buffered := bufio.NewReaderSize(r, detectSampleSize)
	head, err := buffered.Peek(detectSampleSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("reading sample: %w", err)
	}

	decoder, err := decoderFor(head)
	if err != nil {
		return nil, err
	}

	var decoded io.Reader = buffered
	if decoder != nil {
		decoded = transform.NewReader(buffered, decoder)
	}

	var lines []string
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning lines: %w", err)
	}
	return lines, nil
}

// decoderFor picks a transformer for the stream, or nil when the bytes are
// already plain UTF-8.
func decoderFor(head []byte) (transform.Transformer, error) {
	switch {
	case bytes.HasPrefix(head, []byte{0xff, 0xfe}):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder(), nil
	case bytes.HasPrefix(head, []byte{0xfe, 0xff}):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(), nil
	case bytes.HasPrefix(head, []byte{0xef, 0xbb, 0xbf}):
		return unicode.UTF8BOM.NewDecoder(), nil
	}

	if len(head) == 0 {
		return nil, nil
	}

	result, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		// Undetectable content falls through as UTF-8.
		return nil, nil
	}
	return decoderForCharset(result.Charset), nil
}

func decoderForCharset(charset string) transform.Transformer {
	var enc encoding.Encoding
	switch strings.ToUpper(charset) {
	case "UTF-16LE":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "UTF-16BE":
		enc = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "ISO-8859-1":
		enc = charmap.ISO8859_1
	case "WINDOWS-1252":
		enc = charmap.Windows1252
	default:
		return nil
	}
	return enc.NewDecoder()
}
