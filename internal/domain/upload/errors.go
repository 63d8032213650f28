package upload

import "errors"

var (
	ErrInvalidData  = errors.New("file data is not valid base64")
	ErrFileTooLarge = errors.New("file exceeds upload limit")
	ErrFileType     = errors.New("file type not allowed")
	ErrEmptyFile    = errors.New("file is empty")
)

// FileError ties a rejected file to its position in the request
type FileError struct {
	Index int
	Err   error
}

func (e *FileError) Error() string {
	return e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}
