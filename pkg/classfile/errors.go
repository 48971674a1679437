package classfile

// Errors
var (
	ErrTruncated       = &ClassFileError{"attribute body truncated"}
	ErrUnresolvedIndex = &ClassFileError{"unresolved constant pool index"}
	ErrBadMagic        = &ClassFileError{"not a class file"}
)

// ClassFileError represents a class file codec error
type ClassFileError struct {
	Message string
}

func (e *ClassFileError) Error() string {
	return e.Message
}
