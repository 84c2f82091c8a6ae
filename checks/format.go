package checks

import (
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Format checks string values against a named format: email, uri, uuid,
// date (YYYY-MM-DD), or date-time (RFC 3339). Non-string values and
// unknown format names pass.
func Format(value any, format string, message string) *Violation {
	str, ok := value.(string)
	if !ok {
		return nil
	}

	var valid bool
	var detail string

	switch format {
	case "email":
		valid = emailRegex.MatchString(str)
		detail = "invalid email format"
	case "uri":
		u, err := url.Parse(str)
		valid = err == nil && u.Scheme != "" && u.Host != ""
		detail = "invalid URI format"
	case "uuid":
		_, err := uuid.Parse(str)
		valid = err == nil
		detail = "invalid UUID format"
	case "date":
		_, err := time.Parse("2006-01-02", str)
		valid = err == nil
		detail = "invalid date format (expected YYYY-MM-DD)"
	case "date-time":
		_, err := time.Parse(time.RFC3339, str)
		valid = err == nil
		detail = "invalid date-time format (expected RFC 3339)"
	default:
		return nil
	}

	if valid {
		return nil
	}
	if message == "" {
		message = detail
	}
	return &Violation{Code: CodeFormatViolation, Message: message, Value: value}
}

// Pattern checks string values against a regular expression. Non-string
// values pass; an uncompilable pattern is itself reported as a failure.
func Pattern(value any, pattern string, message string) *Violation {
	str, ok := value.(string)
	if !ok {
		return nil
	}

	regex, err := regexp.Compile(pattern)
	if err != nil {
		return &Violation{
			Code:    CodeInvalidPattern,
			Message: fmt.Sprintf("invalid regex pattern: %s", pattern),
			Value:   value,
		}
	}

	if regex.MatchString(str) {
		return nil
	}
	if message == "" {
		message = fmt.Sprintf("value does not match pattern: %s", pattern)
	}
	return &Violation{Code: CodePatternViolation, Message: message, Value: value}
}
