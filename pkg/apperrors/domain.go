package apperrors

import "net/http"

// Factories for wrapping repository errors.

// ErrNotFound converts a lookup miss (e.g. gorm.ErrRecordNotFound) into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness conflict into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// Predefined errors for frequent static cases.

// ErrInvalidCredentials is deliberately generic: it never reveals whether the
// email or the password was wrong.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Either email or password is incorrect",
	http.StatusUnauthorized,
)

var ErrFileTooLarge = New(
	CodeFileTooLarge,
	"upload",
	"File exceeds the maximum allowed size",
	http.StatusBadRequest,
)

var ErrInvalidFileType = New(
	CodeInvalidFileType,
	"upload",
	"File type is not allowed",
	http.StatusBadRequest,
)

var ErrInvalidImage = New(
	CodeInvalidImage,
	"upload",
	"File is not a readable image",
	http.StatusBadRequest,
)
