package runner

import (
	"errors"
	"fmt"
	"os/exec"
)

type fatalError struct {
	code int
	error
}

func (f fatalError) ExitStatus() int {
	return f.code
}

// ExitStatuser is an interface for errors that carry an exit status code.
type ExitStatuser interface {
	ExitStatus() int
}

// Fatalf returns an error that will cause gatehouse to print out the
// given message and exit with the given exit code.
func Fatalf(code int, format string, args ...interface{}) error {
	return fatalError{
		code:  code,
		error: fmt.Errorf(format, args...),
	}
}

// ExitStatus queries the error for an exit status. If the error is nil, it
// returns 0. If the error does not implement ExitStatus() int, it returns 1.
// Otherwise it returns the value from ExitStatus().
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exit ExitStatuser
	if errors.As(err, &exit) {
		return exit.ExitStatus()
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if ex, ok := ee.Sys().(ExitStatuser); ok {
			return ex.ExitStatus()
		}
	}
	return 1
}

// CmdRan examines the error to determine if it was generated as a result of a
// command running via os/exec.Command. If the error is nil, or the command ran
// (even if it exited with a non-zero exit code), CmdRan reports true. If the
// error is an unrecognized type, or it is an error from exec.Command that says
// the command failed to run (usually due to the command not existing or not
// being executable), it reports false.
func CmdRan(err error) bool {
	if err == nil {
		return true
	}
	var ee *exec.ExitError
	ok := errors.As(err, &ee)
	if ok {
		return ee.Exited()
	}
	return false
}
