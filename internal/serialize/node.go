// Package serialize implements AST persistence for caching and LSP use
// (§6.3/§10.6): a self-describing structured-text form and a compact
// binary form, both preserving node ids, spans, and every semantically
// relevant field, and both prefixed by a (major, minor, patch) version
// triple. Both forms are hand-written (plain text lines for the text form;
// a little-endian version header followed by varint-encoded fields for the
// binary form) rather than a generic reflection-based codec or an
// external serialization library.
package serialize

import (
	"errors"
	"fmt"

	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/span"
)

// Version is the document-root version triple (§6.3).
type Version struct {
	Major, Minor, Patch uint16
}

// CurrentVersion is written at the root of every document this package
// produces.
var CurrentVersion = Version{Major: 1, Minor: 0, Patch: 0}

// ErrVersionMismatch is returned when a loaded document's major version
// differs from CurrentVersion.Major, or its minor/patch is older than
// what this package was built against (§6.3).
var ErrVersionMismatch = errors.New("serialize: version mismatch")

func checkVersion(v Version) error {
	if v.Major != CurrentVersion.Major {
		return fmt.Errorf("%w: document major %d, reader major %d", ErrVersionMismatch, v.Major, CurrentVersion.Major)
	}
	if v.Minor < CurrentVersion.Minor || (v.Minor == CurrentVersion.Minor && v.Patch < CurrentVersion.Patch) {
		return fmt.Errorf("%w: document %d.%d.%d older than reader %d.%d.%d", ErrVersionMismatch, v.Major, v.Minor, v.Patch, CurrentVersion.Major, CurrentVersion.Minor, CurrentVersion.Patch)
	}
	return nil
}

// node is the serialization-neutral intermediate form every AST node
// round-trips through: a tag, its id/span, and three flat field lists
// (ints, strings, child nodes) whose order is fixed per tag by the
// encode*/decode* pair below. Both the text and binary writers operate
// only on this shape, so adding a wire format never touches the AST
// conversion logic.
type node struct {
	tag   string
	id    uint32
	sp    span.Span
	ints  []int64
	strs  []string
	kids  []*node // a nil entry in this slice encodes an absent optional child
}

func encodeSpan(s span.Span) []int64 {
	return []int64{
		int64(s.Start.Line), int64(s.Start.Column), int64(s.Start.Offset),
		int64(s.End.Line), int64(s.End.Column), int64(s.End.Offset),
		int64(s.FileID),
	}
}

func decodeSpan(v []int64) span.Span {
	return span.Span{
		Start:  span.Position{Line: int(v[0]), Column: int(v[1]), Offset: int(v[2])},
		End:    span.Position{Line: int(v[3]), Column: int(v[4]), Offset: int(v[5])},
		FileID: span.FileID(v[6]),
	}
}

// encodeFile converts a whole parsed file into its node form.
func encodeFile(f *ast.File) *node {
	n := &node{tag: "File", id: uint32(f.ID), sp: f.Span, ints: []int64{int64(f.FileID)}}
	for _, it := range f.Items {
		n.kids = append(n.kids, encodeItem(it))
	}
	return n
}

func decodeFile(n *node) (*ast.File, error) {
	if n.tag != "File" {
		return nil, fmt.Errorf("serialize: expected File root, found %s", n.tag)
	}
	f := &ast.File{Base: ast.Base{ID: ast.NodeID(n.id), Span: n.sp}, FileID: span.FileID(n.ints[0])}
	for _, k := range n.kids {
		it, err := decodeItem(k)
		if err != nil {
			return nil, err
		}
		f.Items = append(f.Items, it)
	}
	return f, nil
}
