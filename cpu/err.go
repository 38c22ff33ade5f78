package cpu

import (
	"errors"

	"github.com/ezrec/rvcore/isa"
	"github.com/ezrec/rvcore/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalt               = errors.New(f("halt"))
	ErrUnknownInstruction = errors.New(f("unknown instruction"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrPcRange            = errors.New(f("pc out of range"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterName       = errors.New(f("register name invalid"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrInstruction carries the instruction word that failed to execute.
type ErrInstruction isa.Code

func (ei ErrInstruction) Error() string {
	return f("instruction 0x%08x %v", uint32(ei), isa.Code(ei).String())
}

func (ei ErrInstruction) Is(err error) (ok bool) {
	_, ok = err.(ErrInstruction)
	return
}

// ErrRegisterIndex is an access to a register outside of x0 to x31.
type ErrRegisterIndex int

func (er ErrRegisterIndex) Error() string {
	return f("register %v invalid", int(er))
}

func (er ErrRegisterIndex) Unwrap() error {
	return ErrRegisterInvalid
}

// ErrImmediate is an immediate operand that does not fit its field.
type ErrImmediate string

func (ei ErrImmediate) Error() string {
	return f("immediate '%v' out of range", string(ei))
}

func (ei ErrImmediate) Unwrap() error {
	return ErrImmediateRange
}

// ErrRegisterWord is an operand that names no register.
type ErrRegisterWord string

func (er ErrRegisterWord) Error() string {
	return f("'%v' is not a register", string(er))
}

func (er ErrRegisterWord) Unwrap() error {
	return ErrRegisterName
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
