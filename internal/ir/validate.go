package ir

import (
	"fmt"

	"github.com/liminal-lang/liminal/internal/errors"
)

// Validate checks every function's labels before execution (§4.E): no
// duplicate label names, and every jump/jump-if-false target must exist
// as a label in the same function. Violations are fatal — the caller
// must not execute a Program that fails validation.
func Validate(prog *Program) *errors.Report {
	for name, fn := range prog.Functions {
		if rep := validateFunc(name, fn); rep != nil {
			return rep
		}
	}
	return validateFunc(prog.Main.Name, prog.Main)
}

func validateFunc(name string, fn *Function) *errors.Report {
	labels := map[string]bool{}
	for _, ins := range fn.Instrs {
		if ins.Op != OpLabel {
			continue
		}
		if labels[ins.Str1] {
			return errors.New("ir", errors.IR001, fmt.Sprintf("function %q: duplicate label %q", name, ins.Str1), nil)
		}
		labels[ins.Str1] = true
	}
	for _, ins := range fn.Instrs {
		if ins.Op != OpJump && ins.Op != OpJumpIfFalse {
			continue
		}
		if !labels[ins.Str1] {
			return errors.New("ir", errors.IR002, fmt.Sprintf("function %q: jump target %q does not exist", name, ins.Str1), nil)
		}
	}
	return nil
}
