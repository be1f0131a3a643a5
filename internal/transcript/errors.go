package transcript

import "errors"

// Reasons a file is rejected as a transcript. Load wraps them together
// with the path; test with errors.Is.
var (
	// ErrNoTimestamps means nothing in the file was recognized as a
	// timestamp, so its length cannot be estimated.
	ErrNoTimestamps = errors.New("no timestamps found")
	// ErrMalformedPreamble means the page setup ending in \jexpand is missing.
	ErrMalformedPreamble = errors.New("malformed transcript RTF preamble")
	// ErrMalformedEpilogue means the file does not end with a newline and
	// a closing brace. We do not touch files we do not understand.
	ErrMalformedEpilogue = errors.New("malformed transcript RTF epilogue")
	// ErrInvalidEncoding means the file is not valid UTF-8.
	ErrInvalidEncoding = errors.New("transcript is not valid UTF-8")
)
