package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/binaryshield/godeye-console/internal/models"
)

// MaxQueryLength caps the trimmed query length accepted for submission.
const MaxQueryLength = 500

// MaxFileSize caps uploaded preview images at 10 MiB.
const MaxFileSize = 10 << 20

var (
	ErrEmptyQuery          = errors.New("query cannot be empty")
	ErrQueryTooLong        = fmt.Errorf("query too long (max %d characters)", MaxQueryLength)
	ErrFormatMismatch      = errors.New("query does not match the selected type")
	ErrFileTooLarge        = errors.New("file exceeds the 10 MiB limit")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

var (
	// Compiled regex patterns for better performance
	ipPattern     = regexp.MustCompile(`^((25[0-5]|2[0-4][0-9]|1[0-9][0-9]|[1-9]?[0-9])\.){3}(25[0-5]|2[0-4][0-9]|1[0-9][0-9]|[1-9]?[0-9])$`)
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	domainPattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)
	urlPattern    = regexp.MustCompile(`^https?://[^\s/$.?#][^\s]*$`)
)

var patternsByType = map[string]*regexp.Regexp{
	models.QueryTypeIP:     ipPattern,
	models.QueryTypeEmail:  emailPattern,
	models.QueryTypeDomain: domainPattern,
	models.QueryTypeURL:    urlPattern,
}

// Query validates a raw query against the selected type and returns the
// trimmed query on success. Type "auto" bypasses format checking.
func Query(query, qtype string) (string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", ErrEmptyQuery
	}
	// The cap is in characters, not bytes, so IDN and non-Latin queries
	// are measured the same as ASCII ones.
	if utf8.RuneCountInString(trimmed) > MaxQueryLength {
		return "", ErrQueryTooLong
	}

	if qtype == "" || qtype == models.QueryTypeAuto {
		return trimmed, nil
	}

	pattern, ok := patternsByType[qtype]
	if !ok {
		return "", fmt.Errorf("unknown query type %q", qtype)
	}
	if !pattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q is not a valid %s", ErrFormatMismatch, trimmed, qtype)
	}

	return trimmed, nil
}

// DetectType classifies a query by trying patterns in fixed priority order:
// IP first so a dotted quad never falls through to the weaker domain pattern,
// then email, domain, url. No match yields "unknown".
func DetectType(query string) string {
	trimmed := strings.TrimSpace(query)

	switch {
	case ipPattern.MatchString(trimmed):
		return models.QueryTypeIP
	case emailPattern.MatchString(trimmed):
		return models.QueryTypeEmail
	case domainPattern.MatchString(trimmed):
		return models.QueryTypeDomain
	case urlPattern.MatchString(trimmed):
		return models.QueryTypeURL
	default:
		return models.QueryTypeUnknown
	}
}

// allowedImageTypes is the raster formats accepted by the upload preview.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// File checks an uploaded file's size and MIME type. The upload is preview
// only; nothing is ever forwarded to the backend.
func File(name string, size int64, mimeType string) error {
	if size > MaxFileSize {
		return fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, name, size)
	}
	if !allowedImageTypes[strings.ToLower(mimeType)] {
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, mimeType)
	}
	return nil
}
