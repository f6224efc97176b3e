package check

import (
	"errors"
	"fmt"
)

// ErrUserExit is recorded on results where the user chose to quit.
var ErrUserExit = errors.New("user exited the troubleshooter")

// Fail sets the result to failed status with a detail message.
func (r *Result) Fail(detail string, err error) Result {
	r.Status = StatusFail
	r.Details = append(r.Details, detail)
	r.Err = err
	return *r
}

// Failf sets the result to failed status with a formatted detail message.
func (r *Result) Failf(format string, args ...interface{}) Result {
	return r.Fail(fmt.Sprintf(format, args...), fmt.Errorf(format, args...))
}

// Exit marks the result as a user-requested exit.
func (r *Result) Exit() Result {
	r.Status = StatusUserExit
	r.Err = ErrUserExit
	return *r
}

// Pass marks the result as successful.
func (r *Result) Pass() Result {
	r.Status = StatusOK
	return *r
}

// AddDetail appends a detail line to the result.
func (r *Result) AddDetail(detail string) *Result {
	r.Details = append(r.Details, detail)
	return r
}

// AddDetailf appends a formatted detail line to the result.
func (r *Result) AddDetailf(format string, args ...interface{}) *Result {
	return r.AddDetail(fmt.Sprintf(format, args...))
}
