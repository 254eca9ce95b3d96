package ir

import "fmt"

// VerifyError reports a structural problem in a lowered function: a
// missing terminator or a jump to a block label that doesn't exist.
type VerifyError struct {
	Function string
	Block    string
	Message  string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("ir verify: function %s, block %s: %s", e.Function, e.Block, e.Message)
}

// Verify checks every block/jump-target/terminator invariant named in
// §3.6 before prog is handed to internal/llvmir: every block must end in
// exactly one terminator, and every jump target must name a block that
// exists in the same function.
func Verify(prog *Program) []*VerifyError {
	var errs []*VerifyError
	for _, fn := range prog.Functions {
		labels := map[string]bool{}
		for _, bb := range fn.Blocks {
			labels[bb.Label] = true
		}
		for _, bb := range fn.Blocks {
			if bb.Term == nil {
				errs = append(errs, &VerifyError{Function: fn.Name, Block: bb.Label, Message: "block has no terminator"})
				continue
			}
			switch bb.Term.Kind {
			case TermJump:
				if !labels[bb.Term.IfTrue] {
					errs = append(errs, &VerifyError{Function: fn.Name, Block: bb.Label, Message: "jump target " + bb.Term.IfTrue + " does not exist"})
				}
			case TermCondJump:
				if !labels[bb.Term.IfTrue] {
					errs = append(errs, &VerifyError{Function: fn.Name, Block: bb.Label, Message: "true-branch target " + bb.Term.IfTrue + " does not exist"})
				}
				if !labels[bb.Term.IfFalse] {
					errs = append(errs, &VerifyError{Function: fn.Name, Block: bb.Label, Message: "false-branch target " + bb.Term.IfFalse + " does not exist"})
				}
			}
		}
	}
	return errs
}
