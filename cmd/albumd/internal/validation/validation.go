package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/adampresley/adamgokit/slices"
)

const (
	MaxNameLength = 100
)

var (
	nameRegex = regexp.MustCompile(`^[A-Za-z0-9 _\-.]{1,100}$`)

	AllowedContentTypes = []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	}
)

type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

/*
ValidateName trims name and checks it is 1 to 100 characters of
letters, digits, space, underscore, hyphen or period.
*/
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", ValidationError{Message: "Name required"}
	}

	if len(name) > MaxNameLength {
		return "", ValidationError{Message: fmt.Sprintf("Name too long (max %d)", MaxNameLength)}
	}

	if !nameRegex.MatchString(name) {
		return "", ValidationError{Message: "Invalid characters in name"}
	}

	return name, nil
}

func NormalizeDescription(description string) string {
	return strings.TrimSpace(description)
}

func ValidateContentType(contentType string) error {
	if contentType == "" {
		return ValidationError{Message: "'content_type' is required"}
	}

	if !slices.IsInSlice(contentType, AllowedContentTypes) {
		return ValidationError{Message: fmt.Sprintf("Content type must be one of: %s", strings.Join(AllowedContentTypes, ", "))}
	}

	return nil
}

func ValidateSize(size, maxSize int64) error {
	if size <= 0 {
		return ValidationError{Message: "'size_bytes' must be greater than 0"}
	}

	if size > maxSize {
		return ValidationError{Message: fmt.Sprintf("File size cannot exceed %d bytes", maxSize)}
	}

	return nil
}
