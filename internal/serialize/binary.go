package serialize

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/seenlang/seenc/internal/ast"
)

// WriteBinary writes file as the compact binary form (§10.6): a version
// triple header followed by a length-prefixed node tree, every field
// written little-endian by hand rather than through reflection.
func WriteBinary(w io.Writer, file *ast.File) error {
	bw := bufio.NewWriter(w)
	var hdr [6]byte
	binary.LittleEndian.PutUint16(hdr[0:2], CurrentVersion.Major)
	binary.LittleEndian.PutUint16(hdr[2:4], CurrentVersion.Minor)
	binary.LittleEndian.PutUint16(hdr[4:6], CurrentVersion.Patch)
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}
	if err := writeBinNode(bw, encodeFile(file)); err != nil {
		return err
	}
	return bw.Flush()
}

func writeUvarint(w *bufio.Writer, v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

func writeVarint(w *bufio.Writer, v int64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}

func writeBinString(w *bufio.Writer, s string) error {
	if err := writeUvarint(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func writeBinNode(w *bufio.Writer, n *node) error {
	if n == nil {
		return w.WriteByte(0)
	}
	if err := w.WriteByte(1); err != nil {
		return err
	}
	if err := writeBinString(w, n.tag); err != nil {
		return err
	}
	if err := writeUvarint(w, uint64(n.id)); err != nil {
		return err
	}
	for _, v := range []int64{
		int64(n.sp.Start.Line), int64(n.sp.Start.Column), int64(n.sp.Start.Offset),
		int64(n.sp.End.Line), int64(n.sp.End.Column), int64(n.sp.End.Offset), int64(n.sp.FileID),
	} {
		if err := writeVarint(w, v); err != nil {
			return err
		}
	}
	if err := writeUvarint(w, uint64(len(n.ints))); err != nil {
		return err
	}
	for _, v := range n.ints {
		if err := writeVarint(w, v); err != nil {
			return err
		}
	}
	if err := writeUvarint(w, uint64(len(n.strs))); err != nil {
		return err
	}
	for _, s := range n.strs {
		if err := writeBinString(w, s); err != nil {
			return err
		}
	}
	if err := writeUvarint(w, uint64(len(n.kids))); err != nil {
		return err
	}
	for _, k := range n.kids {
		if err := writeBinNode(w, k); err != nil {
			return err
		}
	}
	return nil
}

// ReadBinary parses the compact binary form written by WriteBinary.
func ReadBinary(r io.Reader) (*ast.File, error) {
	br := bufio.NewReader(r)
	var hdr [6]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("serialize: reading version header: %w", err)
	}
	v := Version{
		Major: binary.LittleEndian.Uint16(hdr[0:2]),
		Minor: binary.LittleEndian.Uint16(hdr[2:4]),
		Patch: binary.LittleEndian.Uint16(hdr[4:6]),
	}
	if err := checkVersion(v); err != nil {
		return nil, err
	}
	root, err := readBinNode(br)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("serialize: missing root node")
	}
	return decodeFile(root)
}

func readBinString(r *bufio.Reader) (string, error) {
	l, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, l)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readBinNode(r *bufio.Reader) (*node, error) {
	present, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	n := &node{}
	n.tag, err = readBinString(r)
	if err != nil {
		return nil, err
	}
	id, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	n.id = uint32(id)

	vals := make([]int64, 7)
	for i := range vals {
		vals[i], err = binary.ReadVarint(r)
		if err != nil {
			return nil, err
		}
	}
	n.sp = decodeSpan(vals)

	nInts, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nInts; i++ {
		v, err := binary.ReadVarint(r)
		if err != nil {
			return nil, err
		}
		n.ints = append(n.ints, v)
	}

	nStrs, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nStrs; i++ {
		s, err := readBinString(r)
		if err != nil {
			return nil, err
		}
		n.strs = append(n.strs, s)
	}

	nKids, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nKids; i++ {
		k, err := readBinNode(r)
		if err != nil {
			return nil, err
		}
		n.kids = append(n.kids, k)
	}
	return n, nil
}
