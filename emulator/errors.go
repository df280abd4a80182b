package emulator

import "fmt"

// HostIOError reports a fatal failure to load a required host file (BIOS or
// ISO image). Category (2) in the error taxonomy: logged and fatal at
// startup only.
type HostIOError struct {
	Component string
	Path      string
	Err       error
}

func (e *HostIOError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Component, e.Path, e.Err)
}

func (e *HostIOError) Unwrap() error { return e.Err }

// UnimplementedError reports guest behavior this core does not model:
// an unknown GP0/GP1 opcode, an unknown CD-ROM command, an access to an
// unmapped peripheral register. Category (3): non-recoverable, because the
// real hardware's behavior in that case is undefined.
type UnimplementedError struct {
	Component string
	Detail    string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("%s: unimplemented: %s", e.Component, e.Detail)
}

// InvariantError reports a violated internal invariant: a FIFO pushed past
// its specified bound, an unreachable state-machine arm. Category (4).
type InvariantError struct {
	Component string
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: invariant violated: %s", e.Component, e.Detail)
}

// InvalidSectorError reports a disc sector that failed sync-pattern, MSF, or
// CRC validation on read. Category (2): the disc image itself is malformed,
// not the guest's fault, so the caller surfaces it rather than faking data.
type InvalidSectorError struct {
	Msf    Msf
	Detail string
}

func (e *InvalidSectorError) Error() string {
	return fmt.Sprintf("invalid sector at %s: %s", e.Msf, e.Detail)
}

func unimplemented(component, format string, a ...interface{}) {
	panic(&UnimplementedError{Component: component, Detail: fmt.Sprintf(format, a...)})
}

func invariant(component, format string, a ...interface{}) {
	panic(&InvariantError{Component: component, Detail: fmt.Sprintf(format, a...)})
}
