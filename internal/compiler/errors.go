package compiler

import "fmt"

// FatalError is a compilation-fatal condition (spec §7): a symbol-table
// invariant violation, an unknown pushSubroutine name, an empty active
// subroutine stack, an empty subroutine at pop time, or an unsupported
// BinaryExpression shape. Compilation is transactional — raising one
// aborts the whole Compile call, no partial image is returned.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string { return e.Message }

// fail raises a FatalError via panic; Compile recovers it at the top
// level and turns it into a returned error, the idiomatic Go stand-in
// for the exceptions the original checker throws from the same call
// sites (pushSubroutine, popSubroutine, the Call-without-routine and
// non-"=" BinaryExpression checks).
func fail(format string, args ...any) {
	panic(&FatalError{Message: fmt.Sprintf(format, args...)})
}
