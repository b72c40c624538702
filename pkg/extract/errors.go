package extract

import "fmt"

// UnsupportedTypeError is returned for MIME types no strategy handles.
type UnsupportedTypeError struct {
	MimeType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.MimeType)
}

// UrlProcessingError is returned when a website or youtube url could not
// be read and grounded.
type UrlProcessingError struct {
	URL string
	Err error
}

func (e *UrlProcessingError) Error() string {
	return fmt.Sprintf("could not process url %s: %v", e.URL, e.Err)
}

func (e *UrlProcessingError) Unwrap() error {
	return e.Err
}
