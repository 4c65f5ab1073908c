package importer

import "fmt"

// FormatError reports corrupt or malformed content in a recognized
// format. The format name is carried for UI messaging.
type FormatError struct {
	Format  string
	Message string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Format, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Message)
}

func (e *FormatError) Unwrap() error { return e.Err }

// UnsupportedError reports an unrecognized file extension.
type UnsupportedError struct {
	Extension string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported format %q", e.Extension)
}

// NativeFormatError reports a vendor-proprietary native CAD format that
// is recognized but intentionally not parsed. It is expected behavior,
// not a failure: the caller renders a guidance message (export to a
// neutral format) instead of an error state.
type NativeFormatError struct {
	Extension string
}

func (e *NativeFormatError) Error() string {
	return fmt.Sprintf("native CAD format %q is not previewable", e.Extension)
}
