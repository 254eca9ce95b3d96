// Package ownership implements the Vale-style ownership and region
// analyzer (§3.5, §4.4): a single top-down AST walk with a scope stack
// tracks each binding's ownership mode and borrow state through a
// Bind/Use/Borrow/Move idiom over the full
// Own|Borrow|BorrowMut|Move|Copy mode set, flags the four named bug
// classes, and maintains a region tree
// (create_region/enter_region/exit_region/deactivate_region_tree).
package ownership

import (
	"fmt"

	"github.com/seenlang/seenc/internal/ast"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/types"
)

// Mode is the ownership discipline applied to one binding (§3.5).
type Mode int

const (
	ModeOwn Mode = iota
	ModeBorrow
	ModeBorrowMut
	ModeMove
	ModeCopy
)

func (m Mode) String() string {
	switch m {
	case ModeOwn:
		return "own"
	case ModeBorrow:
		return "borrow"
	case ModeBorrowMut:
		return "borrow_mut"
	case ModeMove:
		return "move"
	case ModeCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// BugClass enumerates the four required diagnostics (§4.4).
type BugClass int

const (
	UseAfterMove BugClass = iota
	DoubleMutableBorrow
	ConflictingBorrow
	BorrowAfterMove
)

// OwnershipError is recovered: the walk records it and continues scanning
// the rest of the function (§4.4 "errors are recovered, not fatal").
type OwnershipError struct {
	Class     BugClass
	Span      span.Span
	Secondary []span.Span
	Message   string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("ownership error at %s: %s", e.Span, e.Message)
}

// RegionID identifies one node in the region tree (§3.5, spec's
// `original_source` region model).
type RegionID int

// Region is one node in the single-rooted region tree: every region but
// the root has exactly one parent, and deactivating a region deactivates
// its entire subtree (backward-shift deactivation, per
// original_source/seen_memory_manager/src/regions.rs).
type Region struct {
	ID       RegionID
	Parent   RegionID
	HasParent bool
	Active   bool
}

// RegionTree owns the single global root and all regions created under it.
type RegionTree struct {
	regions []*Region
	root    RegionID
}

// NewRegionTree returns a tree containing only the active root region.
func NewRegionTree() *RegionTree {
	t := &RegionTree{}
	root := &Region{ID: 0, Active: true}
	t.regions = append(t.regions, root)
	t.root = 0
	return t
}

// Root returns the id of the single global root region.
func (t *RegionTree) Root() RegionID { return t.root }

// CreateRegion allocates a new child region under parent.
func (t *RegionTree) CreateRegion(parent RegionID) RegionID {
	id := RegionID(len(t.regions))
	t.regions = append(t.regions, &Region{ID: id, Parent: parent, HasParent: true, Active: true})
	return id
}

// EnterRegion marks a previously-created region (and, if it had been
// deactivated, its ancestors are NOT reactivated — entering only concerns
// the target region's own liveness).
func (t *RegionTree) EnterRegion(id RegionID) { t.regions[id].Active = true }

// ExitRegion deactivates id and every region in its subtree, matching the
// backward-shift deactivation semantics of the ground-truth region manager:
// once a parent region exits, none of its descendants remain reachable.
func (t *RegionTree) ExitRegion(id RegionID) {
	t.deactivateSubtree(id)
}

func (t *RegionTree) deactivateSubtree(id RegionID) {
	t.regions[id].Active = false
	for _, r := range t.regions {
		if r.HasParent && r.Parent == id && r.Active {
			t.deactivateSubtree(r.ID)
		}
	}
}

// IsActive reports whether region id (and, transitively, its full
// ancestor chain) is active.
func (t *RegionTree) IsActive(id RegionID) bool {
	r := t.regions[id]
	if !r.Active {
		return false
	}
	if !r.HasParent {
		return true
	}
	return t.IsActive(r.Parent)
}

// bindingState tracks a single variable's ownership state: its binding
// mode, whether it has been moved, and its set of active borrows.
type bindingState struct {
	name      string
	mode      Mode
	moved     bool
	movedAt   span.Span
	borrowers []borrowRecord
	ty        types.Type
	region    RegionID
}

type borrowRecord struct {
	mut  bool
	span span.Span
}

// scope is one nested lexical scope; a moved-from marker that would
// otherwise be lost when a scope pops is propagated to the parent scope's
// binding of the same name if one exists (closures capturing by reference
// need to see a move that happened in a nested block).
type scope struct {
	vars map[string]*bindingState
}

// Checker runs the single top-down walk described above.
type Checker struct {
	regions *RegionTree
	scopes  []*scope
	errs    []*OwnershipError
	curReg  RegionID
}

// NewChecker returns a Checker with a fresh region tree rooted at region 0.
func NewChecker() *Checker {
	return &Checker{regions: NewRegionTree()}
}

// Check walks file's function bodies and returns all recovered ownership
// errors plus the resulting region tree (for diagnostics/debugging).
func Check(file *ast.File) (*Checker, []*OwnershipError) {
	c := NewChecker()
	for _, item := range file.Items {
		c.checkItem(item)
	}
	return c, c.errs
}

func (c *Checker) errorf(class BugClass, sp span.Span, secondary []span.Span, format string, args ...interface{}) {
	c.errs = append(c.errs, &OwnershipError{Class: class, Span: sp, Secondary: secondary, Message: fmt.Sprintf(format, args...)})
}

func (c *Checker) pushScope() { c.scopes = append(c.scopes, &scope{vars: map[string]*bindingState{}}) }

func (c *Checker) popScope() {
	top := c.scopes[len(c.scopes)-1]
	c.scopes = c.scopes[:len(c.scopes)-1]
	if len(c.scopes) == 0 {
		return
	}
	parent := c.scopes[len(c.scopes)-1]
	for name, st := range top.vars {
		if st.moved {
			if pst, ok := parent.vars[name]; ok {
				pst.moved = true
				pst.movedAt = st.movedAt
			}
		}
	}
}

// Bind records a new binding in the current scope.
func (c *Checker) Bind(name string, mode Mode, ty types.Type, sp span.Span) {
	if mode == ModeOwn && types.IsCopyable(ty) {
		mode = ModeCopy
	}
	c.scopes[len(c.scopes)-1].vars[name] = &bindingState{name: name, mode: mode, ty: ty, region: c.curReg}
}

func (c *Checker) find(name string) *bindingState {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if st, ok := c.scopes[i].vars[name]; ok {
			return st
		}
	}
	return nil
}

// Use records a read/borrow of name, mirroring LinearChecker.Use, emitting
// UseAfterMove when the binding was already moved from.
func (c *Checker) Use(name string, sp span.Span) {
	st := c.find(name)
	if st == nil {
		return
	}
	if st.moved {
		c.errorf(UseAfterMove, sp, []span.Span{st.movedAt}, "use of moved value %q", name)
	}
}

// Borrow records an immutable or mutable borrow, flagging
// ConflictingBorrow (an outstanding mutable borrow with another borrow of
// either kind), DoubleMutableBorrow (two outstanding mutable borrows), and
// BorrowAfterMove.
func (c *Checker) Borrow(name string, mut bool, sp span.Span) {
	st := c.find(name)
	if st == nil {
		return
	}
	if st.moved {
		c.errorf(BorrowAfterMove, sp, []span.Span{st.movedAt}, "borrow of moved value %q", name)
		return
	}
	for _, b := range st.borrowers {
		if b.mut && mut {
			c.errorf(DoubleMutableBorrow, sp, []span.Span{b.span}, "second mutable borrow of %q while first is active", name)
			return
		}
		if b.mut || mut {
			c.errorf(ConflictingBorrow, sp, []span.Span{b.span}, "conflicting borrow of %q", name)
			return
		}
	}
	st.borrowers = append(st.borrowers, borrowRecord{mut: mut, span: sp})
}

// EndBorrows clears all outstanding borrows of name, called when a borrow's
// lexical scope ends (this walk ends a field access's borrow as soon as that
// access has been checked).
func (c *Checker) EndBorrows(name string) {
	if st := c.find(name); st != nil {
		st.borrowers = nil
	}
}

// Move records a move of name, mirroring LinearChecker.Drop's moved-flag
// side, and rejects moving something already moved or still borrowed.
func (c *Checker) Move(name string, sp span.Span) {
	st := c.find(name)
	if st == nil {
		return
	}
	if st.mode == ModeCopy {
		return // Copy types are duplicated, never moved (§3.5)
	}
	if st.moved {
		c.errorf(UseAfterMove, sp, []span.Span{st.movedAt}, "value %q moved again after already being moved", name)
		return
	}
	if len(st.borrowers) > 0 {
		c.errorf(ConflictingBorrow, sp, nil, "cannot move %q while it is borrowed", name)
		return
	}
	st.moved = true
	st.movedAt = sp
}

// ---- AST walk ---------------------------------------------------------------

func (c *Checker) checkItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FunctionItem:
		c.checkFunction(it)
	case *ast.ImplItem:
		for _, m := range it.Methods {
			c.checkFunction(m)
		}
	case *ast.TraitItem:
		for _, m := range it.Methods {
			if m.Body != nil {
				c.checkFunction(m)
			}
		}
	}
}

func (c *Checker) checkFunction(it *ast.FunctionItem) {
	if it.Body == nil {
		return
	}
	c.pushScope()
	for _, p := range it.Params {
		c.Bind(p.Name, ModeOwn, nil, p.Span)
	}
	c.checkBlock(it.Body)
	c.popScope()
}

func (c *Checker) checkBlock(b *ast.BlockExpr) {
	region := c.regions.CreateRegion(c.curReg)
	prevReg := c.curReg
	c.curReg = region
	c.pushScope()

	for _, s := range b.Stmts {
		c.checkStmt(s)
	}
	if b.TailExpr != nil {
		c.checkExpr(b.TailExpr)
	}

	c.popScope()
	c.regions.ExitRegion(region)
	c.curReg = prevReg
}

func (c *Checker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LetStmt:
		if st.Value != nil {
			c.checkExpr(st.Value)
		}
		if ip, ok := st.Pattern.(*ast.IdentPattern); ok {
			mode := ModeOwn
			if st.Mut {
				mode = ModeOwn
			}
			c.Bind(ip.Name, mode, nil, st.Span)
		}
	case *ast.ExprStmt:
		c.checkExpr(st.X)
	case *ast.ReturnStmt:
		if st.Value != nil {
			c.checkExpr(st.Value)
		}
	}
}

func (c *Checker) checkExpr(e ast.Expr) {
	switch x := e.(type) {
	case *ast.Ident:
		c.Use(x.Name, x.Span)
	case *ast.UnaryExpr:
		if x.Op == ast.OpMove {
			if id, ok := x.Operand.(*ast.Ident); ok {
				c.Move(id.Name, x.Span)
				return
			}
		}
		c.checkExpr(x.Operand)
	case *ast.BinaryExpr:
		c.checkExpr(x.LHS)
		c.checkExpr(x.RHS)
	case *ast.AssignExpr:
		c.checkExpr(x.Value)
		c.checkExpr(x.Target)
	case *ast.CallExpr:
		c.checkExpr(x.Callee)
		for _, a := range x.Args {
			c.checkExpr(a)
		}
		if x.TrailingLambda != nil {
			c.checkExpr(x.TrailingLambda.Body)
		}
	case *ast.FieldExpr:
		if id, ok := x.Receiver.(*ast.Ident); ok {
			c.Borrow(id.Name, false, x.Span)
			defer c.EndBorrows(id.Name)
		}
		c.checkExpr(x.Receiver)
	case *ast.IndexExpr:
		c.checkExpr(x.Receiver)
		c.checkExpr(x.Index)
	case *ast.ForceUnwrapExpr:
		c.checkExpr(x.Operand)
	case *ast.CastExpr:
		c.checkExpr(x.X)
	case *ast.IsExpr:
		c.checkExpr(x.X)
	case *ast.BlockExpr:
		c.checkBlock(x)
	case *ast.IfExpr:
		c.checkExpr(x.Cond)
		c.checkBlock(x.Then)
		if x.Else != nil {
			c.checkExpr(x.Else)
		}
	case *ast.MatchExpr:
		c.checkExpr(x.Scrutinee)
		for _, arm := range x.Arms {
			c.pushScope()
			c.bindPatternVars(arm.Pattern)
			c.checkExpr(arm.Body)
			c.popScope()
		}
	case *ast.WhileExpr:
		c.checkExpr(x.Cond)
		c.checkBlock(x.Body)
	case *ast.ForExpr:
		c.checkExpr(x.Iter)
		c.pushScope()
		c.bindPatternVars(x.Pattern)
		c.checkBlock(x.Body)
		c.popScope()
	case *ast.ClosureExpr:
		c.pushScope()
		for _, p := range x.Params {
			c.Bind(p.Name, ModeOwn, nil, p.Span)
		}
		c.checkExpr(x.Body)
		c.popScope()
	case *ast.TupleExpr:
		for _, el := range x.Elems {
			c.checkExpr(el)
		}
	case *ast.ArrayExpr:
		for _, el := range x.Elems {
			c.checkExpr(el)
		}
	case *ast.StructLit:
		for _, f := range x.Fields {
			c.checkExpr(f.Value)
		}
	case *ast.InterpolatedStringLit:
		for _, sub := range x.Exprs {
			c.checkExpr(sub)
		}
	}
}

func (c *Checker) bindPatternVars(p ast.Pattern) {
	switch pt := p.(type) {
	case *ast.IdentPattern:
		c.Bind(pt.Name, ModeOwn, nil, pt.Span)
	case *ast.TuplePattern:
		for _, el := range pt.Elems {
			c.bindPatternVars(el)
		}
	case *ast.StructPattern:
		for _, f := range pt.Fields {
			c.bindPatternVars(f.Pattern)
		}
	case *ast.VariantPattern:
		for _, f := range pt.Fields {
			c.bindPatternVars(f)
		}
	case *ast.GuardedPattern:
		c.bindPatternVars(pt.Inner)
	}
}
