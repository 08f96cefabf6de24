package ir

import (
	"testing"

	"github.com/liminal-lang/liminal/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidateDetectsDuplicateLabel(t *testing.T) {
	fn := &Function{
		Name: "main",
		Instrs: []Instruction{
			{Op: OpLabel, Str1: "L0"},
			{Op: OpLabel, Str1: "L0"},
		},
	}
	prog := &Program{Functions: map[string]*Function{}, Main: fn}
	rep := Validate(prog)
	if assert.NotNil(t, rep) {
		assert.Equal(t, errors.IR001, rep.Code)
	}
}

func TestValidateDetectsDanglingJumpTarget(t *testing.T) {
	fn := &Function{
		Name: "main",
		Instrs: []Instruction{
			{Op: OpJump, Str1: "Lnowhere"},
		},
	}
	prog := &Program{Functions: map[string]*Function{}, Main: fn}
	rep := Validate(prog)
	if assert.NotNil(t, rep) {
		assert.Equal(t, errors.IR002, rep.Code)
	}
}

func TestValidateAcceptsWellFormedLabels(t *testing.T) {
	fn := &Function{
		Name: "main",
		Instrs: []Instruction{
			{Op: OpJump, Str1: "L0"},
			{Op: OpLabel, Str1: "L0"},
		},
	}
	prog := &Program{Functions: map[string]*Function{}, Main: fn}
	assert.Nil(t, Validate(prog))
}
