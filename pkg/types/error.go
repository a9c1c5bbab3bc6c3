package types

import "fmt"

// ConstError is an error type whose values may be declared as constants.
type ConstError string

func (err ConstError) Error() string { return string(err) }

const (
	InvalidFileTypeErr ConstError = "invalid file type"
	ShortReadErr       ConstError = "short read"
	BadSuperblockErr   ConstError = "bad superblock"
	ImageNotFoundErr   ConstError = "image not found"
)

type ObjectNotFoundErr struct {
	Bucket string
	Key    string
}

func (err *ObjectNotFoundErr) Error() string {
	return fmt.Sprintf(
		"object not found: bucket `%s`, key `%s`",
		err.Bucket,
		err.Key,
	)
}

func (err *ObjectNotFoundErr) Is(other error) bool {
	return other == ImageNotFoundErr
}
