package textio

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func TestReadLinesPlainUTF8(t *testing.T) {
	t.Parallel()

	lines, err := ReadLines(strings.NewReader("first\n\n  second  \nthird"))
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestReadLinesUTF8BOM(t *testing.T) {
	t.Parallel()

	input := append([]byte{0xef, 0xbb, 0xbf}, []byte("hello\nworld\n")...)
	lines, err := ReadLines(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if len(lines) != 2 || lines[0] != "hello" {
		t.Fatalf("BOM not stripped: %v", lines)
	}
}

func TestReadLinesUTF16(t *testing.T) {
	t.Parallel()

	for _, endian := range []unicode.Endianness{unicode.LittleEndian, unicode.BigEndian} {
		enc := unicode.UTF16(endian, unicode.UseBOM).NewEncoder()
		encoded, err := enc.Bytes([]byte("alpha\nbeta\n"))
		if err != nil {
			t.Fatalf("encoding fixture: %v", err)
		}
		lines, err := ReadLines(bytes.NewReader(encoded))
		if err != nil {
			t.Fatalf("ReadLines: %v", err)
		}
		if len(lines) != 2 || lines[0] != "alpha" || lines[1] != "beta" {
			t.Fatalf("UTF-16 decode failed: %v", lines)
		}
	}
}

func TestReadLinesEmptyInput(t *testing.T) {
	t.Parallel()

	lines, err := ReadLines(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %v", lines)
	}
}
