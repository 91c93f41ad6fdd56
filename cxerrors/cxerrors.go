package cxerrors

import (
	"errors"
	"strings"
)

// Execution (X) Errors -- the only fault class the CX subsystem raises
// toward the instruction-dispatch layer.
var (
	ErrXIllegalInstruction = errors.New("X1|IllegalInstruction: CX-class instruction executed while the selector is invalid or unresolvable.")
	ErrXCxDisabled         = errors.New("X2|CxDisabled: CX register access on a hart with the CX subsystem disabled.")
	ErrXNotCxInstruction   = errors.New("X3|NotCxInstruction: Instruction word does not decode to a CX-class instruction.")
)

// Catalog (C) Errors -- configuration-time only, never raised during
// instruction execution.
var (
	ErrCSelectorNotFound   = errors.New("C1|SelectorNotFound: No extension registered under this selector id.")
	ErrCDuplicateSelector  = errors.New("C2|DuplicateSelector: An extension is already registered under this selector id.")
	ErrCDuplicateGUID      = errors.New("C3|DuplicateGUID: An extension is already registered under this GUID.")
	ErrCReservedSelector   = errors.New("C4|ReservedSelector: Selector id 0 is reserved for the built-in extension.")
	ErrCInvalidSelector    = errors.New("C5|InvalidSelector: The all-ones selector pattern cannot be registered.")
	ErrCNilProvider        = errors.New("C6|NilProvider: Extension registered without an execution provider.")
	ErrCStateSizeMismatch  = errors.New("C7|StateSizeMismatch: Descriptor state size disagrees with the provider's state size.")
	ErrCGUIDNotFound       = errors.New("C8|GUIDNotFound: No extension registered under this GUID.")
	ErrCMalformedExtension = errors.New("C9|MalformedExtension: Extension spec could not be parsed.")
)

// Code extracts the short code ("X1", "C2", ...) from one of the errors
// above, or "" for a foreign error.
func Code(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	i := strings.Index(msg, "|")
	if i <= 0 || i > 3 {
		return ""
	}
	return msg[:i]
}

// IsFault reports whether err is one of the execution faults, i.e. a
// condition the dispatch layer turns into an illegal-instruction trap.
func IsFault(err error) bool {
	return errors.Is(err, ErrXIllegalInstruction) ||
		errors.Is(err, ErrXCxDisabled) ||
		errors.Is(err, ErrXNotCxInstruction)
}
