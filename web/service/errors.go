package service

import "errors"

// ErrorKind classifies why a service operation was refused.
type ErrorKind int

const (
	KindAuthorization ErrorKind = iota + 1
	KindAuthentication
	KindNotFound
	KindBusinessRule
	KindConstraint
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not-found"
	case KindBusinessRule:
		return "business-rule"
	case KindConstraint:
		return "constraint"
	default:
		return "unknown"
	}
}

// Error is returned by services for every expected failure. Two Errors match
// under errors.Is when kind and message agree, so a sentinel wrapping the
// driver error still compares equal to the bare sentinel.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Msg == e.Msg
}

func (e *Error) wrap(err error) *Error {
	return &Error{Kind: e.Kind, Msg: e.Msg, Err: err}
}

var (
	ErrNotAdmin           = &Error{Kind: KindAuthorization, Msg: "admin role required"}
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Msg: "invalid username or password"}
	ErrBookNotFound       = &Error{Kind: KindNotFound, Msg: "book not found"}
	ErrStudentNotFound    = &Error{Kind: KindNotFound, Msg: "student not found"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Msg: "user not found"}
	ErrNoOpenIssue        = &Error{Kind: KindNotFound, Msg: "no open issue for book and student"}
	ErrBookUnavailable    = &Error{Kind: KindBusinessRule, Msg: "book is not available"}
	ErrInvalidRole        = &Error{Kind: KindBusinessRule, Msg: "unknown role"}
	ErrDuplicateEmail     = &Error{Kind: KindConstraint, Msg: "student email already exists"}
	ErrDuplicateIsbn      = &Error{Kind: KindConstraint, Msg: "book isbn already exists"}
	ErrDuplicateUsername  = &Error{Kind: KindConstraint, Msg: "username already exists"}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
