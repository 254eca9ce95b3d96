package serialize_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/lexer"
	"github.com/seenlang/seenc/internal/parser"
	"github.com/seenlang/seenc/internal/serialize"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/testsupport"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	pack := testsupport.EnglishPack()
	fs := span.NewFileSet()
	fileID := fs.AddFile("t.seen", src)
	toks, err := lexer.Tokenize(fileID, src, pack)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	file, errs := parser.ParseFile(fileID, toks)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return file
}

const sampleSrc = `
struct Point { x: i32, y: i32 }
fun Point.sum() -> i32 { return self.x + self.y }
fun add(x: i32, y: i32) -> i32 {
	let total = x + y
	if total > 0 { return total }
	return 0
}
`

func TestWriteTextRoundTripPreservesShape(t *testing.T) {
	file := mustParse(t, sampleSrc)

	var buf bytes.Buffer
	if err := serialize.WriteText(&buf, file); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	first := buf.String()

	roundTripped, err := serialize.ReadText(strings.NewReader(first))
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}

	var buf2 bytes.Buffer
	if err := serialize.WriteText(&buf2, roundTripped); err != nil {
		t.Fatalf("WriteText (second pass): %v", err)
	}
	second := buf2.String()

	if first != second {
		t.Errorf("expected a WriteText/ReadText/WriteText round trip to be byte-identical\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestWriteTextRoundTripPreservesNodeIDs(t *testing.T) {
	file := mustParse(t, sampleSrc)

	var buf bytes.Buffer
	if err := serialize.WriteText(&buf, file); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	roundTripped, err := serialize.ReadText(&buf)
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if roundTripped.ID != file.ID {
		t.Errorf("File node id = %d, want %d", roundTripped.ID, file.ID)
	}
	if len(roundTripped.Items) != len(file.Items) {
		t.Fatalf("expected %d items, got %d", len(file.Items), len(roundTripped.Items))
	}
	for i, it := range file.Items {
		if roundTripped.Items[i].NodeID() != it.NodeID() {
			t.Errorf("item %d: id = %d, want %d", i, roundTripped.Items[i].NodeID(), it.NodeID())
		}
	}
}

func TestWriteBinaryRoundTripMatchesTextShape(t *testing.T) {
	file := mustParse(t, sampleSrc)

	var textBuf bytes.Buffer
	if err := serialize.WriteText(&textBuf, file); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	var binBuf bytes.Buffer
	if err := serialize.WriteBinary(&binBuf, file); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	decoded, err := serialize.ReadBinary(&binBuf)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}

	var decodedText bytes.Buffer
	if err := serialize.WriteText(&decodedText, decoded); err != nil {
		t.Fatalf("WriteText of binary-decoded file: %v", err)
	}

	if textBuf.String() != decodedText.String() {
		t.Errorf("expected binary round trip to reproduce the same structured-text shape\nwant:\n%s\ngot:\n%s", textBuf.String(), decodedText.String())
	}
}

func TestReadTextRejectsNewerMajorVersion(t *testing.T) {
	file := mustParse(t, `fun f() -> i32 { return 1 }`)
	var buf bytes.Buffer
	if err := serialize.WriteText(&buf, file); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	doc := strings.Replace(buf.String(), "seen-ast 1.0.0", "seen-ast 2.0.0", 1)

	_, err := serialize.ReadText(strings.NewReader(doc))
	if !errors.Is(err, serialize.ErrVersionMismatch) {
		t.Errorf("expected ErrVersionMismatch for a newer major version, got %v", err)
	}
}

func TestReadTextRejectsOlderMajorVersion(t *testing.T) {
	file := mustParse(t, `fun f() -> i32 { return 1 }`)
	var buf bytes.Buffer
	if err := serialize.WriteText(&buf, file); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	doc := strings.Replace(buf.String(), "seen-ast 1.0.0", "seen-ast 0.9.0", 1)

	_, err := serialize.ReadText(strings.NewReader(doc))
	if !errors.Is(err, serialize.ErrVersionMismatch) {
		t.Errorf("expected ErrVersionMismatch for an older document version, got %v", err)
	}
}

func TestReadBinaryRejectsMajorVersionMismatch(t *testing.T) {
	file := mustParse(t, `fun f() -> i32 { return 1 }`)
	var buf bytes.Buffer
	if err := serialize.WriteBinary(&buf, file); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	raw := buf.Bytes()
	raw[0] = byte(raw[0] + 1) // corrupt the major-version low byte

	_, err := serialize.ReadBinary(bytes.NewReader(raw))
	if !errors.Is(err, serialize.ErrVersionMismatch) {
		t.Errorf("expected ErrVersionMismatch for a corrupted major version, got %v", err)
	}
}

func TestReadTextRejectsEmptyDocument(t *testing.T) {
	_, err := serialize.ReadText(strings.NewReader(""))
	if err == nil {
		t.Error("expected an error for an empty document")
	}
}
