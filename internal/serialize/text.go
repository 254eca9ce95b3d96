package serialize

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/seenlang/seenc/internal/ast"
)

// WriteText writes file as the structured-text form (§10.6): one line per
// node, indented by tree depth, each line self-describing its tag, node id,
// span, and flat field lists so a diff tool or a human can read it directly.
// The document opens with a version line so ReadText can reject a document
// an older reader can't fully interpret.
func WriteText(w io.Writer, file *ast.File) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "seen-ast %d.%d.%d\n", CurrentVersion.Major, CurrentVersion.Minor, CurrentVersion.Patch)
	writeTextNode(bw, encodeFile(file), 0)
	return bw.Flush()
}

func writeTextNode(w *bufio.Writer, n *node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n == nil {
		fmt.Fprintf(w, "%s-\n", indent)
		return
	}
	fmt.Fprintf(w, "%s#%d@%d:%d:%d-%d:%d:%d/%d %s", indent, n.id,
		n.sp.Start.Line, n.sp.Start.Column, n.sp.Start.Offset,
		n.sp.End.Line, n.sp.End.Column, n.sp.End.Offset, n.sp.FileID, n.tag)
	for _, v := range n.ints {
		fmt.Fprintf(w, " %d", v)
	}
	for _, s := range n.strs {
		fmt.Fprintf(w, " %q", s)
	}
	fmt.Fprintf(w, " [%d]\n", len(n.kids))
	for _, k := range n.kids {
		writeTextNode(w, k, depth+1)
	}
}

// ReadText parses the structured-text form written by WriteText.
func ReadText(r io.Reader) (*ast.File, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	if !sc.Scan() {
		return nil, fmt.Errorf("serialize: empty document")
	}
	var maj, min, pat uint16
	if _, err := fmt.Sscanf(sc.Text(), "seen-ast %d.%d.%d", &maj, &min, &pat); err != nil {
		return nil, fmt.Errorf("serialize: bad header %q: %w", sc.Text(), err)
	}
	if err := checkVersion(Version{maj, min, pat}); err != nil {
		return nil, err
	}
	tr := &textReader{sc: sc}
	if !tr.advance() {
		return nil, fmt.Errorf("serialize: missing root node")
	}
	root, err := tr.readNode(0)
	if err != nil {
		return nil, err
	}
	return decodeFile(root)
}

type textReader struct {
	sc   *bufio.Scanner
	line string
	ok   bool
}

func (tr *textReader) advance() bool {
	tr.ok = tr.sc.Scan()
	if tr.ok {
		tr.line = tr.sc.Text()
	}
	return tr.ok
}

func (tr *textReader) readNode(depth int) (*node, error) {
	line := strings.TrimLeft(tr.line, " ")
	tr.advance()
	if line == "-" {
		return nil, nil
	}
	fields := splitTextLine(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("serialize: malformed node line %q", line)
	}
	head := fields[0] // "#id@sline:scol:soff-eline:ecol:eoff/fid"
	n := &node{}
	var id uint32
	var sl, sc, so, el, ec, eo, fid int64
	if _, err := fmt.Sscanf(head, "#%d@%d:%d:%d-%d:%d:%d/%d", &id, &sl, &sc, &so, &el, &ec, &eo, &fid); err != nil {
		return nil, fmt.Errorf("serialize: bad node head %q: %w", head, err)
	}
	n.id = id
	n.sp = decodeSpan([]int64{sl, sc, so, el, ec, eo, fid})
	n.tag = fields[1]

	numKids := 0
	for _, f := range fields[2:] {
		if strings.HasPrefix(f, "[") && strings.HasSuffix(f, "]") {
			v, err := strconv.Atoi(f[1 : len(f)-1])
			if err != nil {
				return nil, fmt.Errorf("serialize: bad child count %q", f)
			}
			numKids = v
			continue
		}
		if strings.HasPrefix(f, "\"") {
			s, err := strconv.Unquote(f)
			if err != nil {
				return nil, fmt.Errorf("serialize: bad quoted field %q: %w", f, err)
			}
			n.strs = append(n.strs, s)
			continue
		}
		iv, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("serialize: bad int field %q: %w", f, err)
		}
		n.ints = append(n.ints, iv)
	}

	for i := 0; i < numKids; i++ {
		k, err := tr.readNode(depth + 1)
		if err != nil {
			return nil, err
		}
		n.kids = append(n.kids, k)
	}
	return n, nil
}

func splitTextLine(s string) []string {
	var out []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ' ' && !inQuote:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		case c == '\\' && inQuote && i+1 < len(s):
			cur.WriteByte(c)
			i++
			cur.WriteByte(s[i])
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
