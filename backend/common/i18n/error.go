package i18n

import "errors"

// I18nError carries a translation code alongside the underlying error
// so handlers can localize the client-facing message while logging the
// original cause.
type I18nError struct {
	Code string
	Msg  string
	Err  error
}

func (e *I18nError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *I18nError) Unwrap() error {
	return e.Err
}

func New(code string) *I18nError {
	return &I18nError{Code: code, Msg: code}
}

func Wrap(code string, err error) *I18nError {
	return &I18nError{Code: code, Msg: code, Err: err}
}

// ErrorCode extracts the translation code from an error chain, or
// returns the empty string when none is present.
func ErrorCode(err error) string {
	var ie *I18nError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

func IsErrorCode(err error, code string) bool {
	return ErrorCode(err) == code
}
