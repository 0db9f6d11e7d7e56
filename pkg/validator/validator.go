package validator

import (
	"mime"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	strict    *bluemonday.Policy

	referenceIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	slugPattern        = regexp.MustCompile(`^[a-z0-9-]+$`)
	spacePattern       = regexp.MustCompile(`\s+`)
)

func init() {
	Init()
}

func Init() {
	validate = validator.New()
	// Request structs carry gin's tag name; share it for service-level checks.
	validate.SetTagName("binding")

	sanitizer = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()

	registerCustomValidations(validate)

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidations(engine)
	}
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("slug", validateSlug)
	v.RegisterValidation("no_html", validateNoHTML)
	v.RegisterValidation("reference_id", validateReferenceID)
}

func Validate(s interface{}) error {
	return validate.Struct(s)
}

func SanitizeHTML(html string) string {
	return sanitizer.Sanitize(html)
}

// SanitizeString strips every tag, leaving plain text.
func SanitizeString(s string) string {
	return strict.Sanitize(s)
}

// IsReferenceID reports whether value is a 24 character hex identifier.
func IsReferenceID(value string) bool {
	return referenceIDPattern.MatchString(value)
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}

func validateReferenceID(fl validator.FieldLevel) bool {
	return IsReferenceID(fl.Field().String())
}

func NormalizeSpaces(s string) string {
	return spacePattern.ReplaceAllString(strings.TrimSpace(s), " ")
}

func ValidateImageExtension(filename string) bool {
	allowedExtensions := []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	filename = strings.ToLower(filename)

	for _, ext := range allowedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

func ValidateFileSize(size int64, maxSize int64) bool {
	return size > 0 && size <= maxSize
}

// ValidateContentType validates that the provided MIME type is in the allowed list
func ValidateContentType(contentType string, allowedMimeTypes []string) bool {
	if contentType == "" || len(allowedMimeTypes) == 0 {
		return false
	}

	// Parse content type and extract the base type (e.g., "image/png" from "image/png; charset=utf-8")
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	for _, allowed := range allowedMimeTypes {
		allowed = strings.ToLower(strings.TrimSpace(allowed))

		if mimeType == allowed {
			return true
		}

		// Wildcard match (e.g., "image/*" matches "image/png")
		if strings.HasSuffix(allowed, "/*") {
			prefix := strings.TrimSuffix(allowed, "/*")
			if strings.HasPrefix(mimeType, prefix+"/") {
				return true
			}
		}
	}

	return false
}

// ImageContentTypes lists the MIME types accepted for banner images.
func ImageContentTypes() []string {
	return []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	}
}

// ValidateImageContentType validates image MIME types
func ValidateImageContentType(contentType string) bool {
	return ValidateContentType(contentType, ImageContentTypes())
}
