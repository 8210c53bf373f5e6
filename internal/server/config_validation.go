// config_validation.go - Startup validation of the editor configuration.
//
// Collects every problem in one pass so a misconfigured deployment fails
// fast with one readable message instead of at the first request.
package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ConfigValidationError represents a configuration validation error.
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// ConfigValidator accumulates validation errors for a set of variables.
type ConfigValidator struct {
	errors []ConfigValidationError
}

func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		errors: make([]ConfigValidationError, 0),
	}
}

func (v *ConfigValidator) AddError(field, message string) {
	v.errors = append(v.errors, ConfigValidationError{
		Field:   field,
		Message: message,
	})
}

func (v *ConfigValidator) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *ConfigValidator) Errors() []ConfigValidationError {
	return v.errors
}

// ErrorString returns a formatted string of all errors.
func (v *ConfigValidator) ErrorString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Configuration validation failed with %d error(s):\n", len(v.errors))
	for i, err := range v.errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Err returns nil when nothing was recorded.
func (v *ConfigValidator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return fmt.Errorf("%s", v.ErrorString())
}

func (v *ConfigValidator) ValidateRequired(key, value string) {
	if value == "" {
		v.AddError(key, "required environment variable not set")
	}
}

// ValidateURL accepts an empty value; check presence with ValidateRequired.
func (v *ConfigValidator) ValidateURL(key, value string) {
	if value == "" {
		return
	}

	parsed, err := url.Parse(value)
	if err != nil {
		v.AddError(key, fmt.Sprintf("invalid URL format: %v", err))
		return
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		v.AddError(key, "URL must use http or https scheme")
	}
}

// ValidateAddr checks a listen address of the form "host:port" or ":port".
// Port 0 asks the kernel for any free port.
func (v *ConfigValidator) ValidateAddr(key, value string) {
	if value == "" {
		return
	}

	i := strings.LastIndexByte(value, ':')
	if i < 0 {
		v.AddError(key, "address must be host:port or :port")
		return
	}

	port, err := strconv.Atoi(value[i+1:])
	if err != nil {
		v.AddError(key, "port must be a number")
		return
	}

	if port < 0 || port > 65535 {
		v.AddError(key, "port must be between 0 and 65535")
	}
}

func (v *ConfigValidator) ValidateMinLength(key, value string, minLen int) {
	if value == "" {
		return
	}

	if len(value) < minLen {
		v.AddError(key, fmt.Sprintf("must be at least %d characters long (got %d)", minLen, len(value)))
	}
}

func (v *ConfigValidator) ValidateEnum(key, value string, allowed []string) {
	if value == "" {
		return
	}

	for _, opt := range allowed {
		if value == opt {
			return
		}
	}

	v.AddError(key, fmt.Sprintf("must be one of: %s (got: %s)", strings.Join(allowed, ", "), value))
}

// PositiveInt parses value, recording an error and returning def when it is
// not a positive integer. An empty value yields def silently.
func (v *ConfigValidator) PositiveInt(key, value string, def int) int {
	if value == "" {
		return def
	}

	num, err := strconv.Atoi(value)
	if err != nil {
		v.AddError(key, "must be a valid integer")
		return def
	}

	if num <= 0 {
		v.AddError(key, "must be a positive integer")
		return def
	}
	return num
}

// Bool parses value with strconv.ParseBool.
func (v *ConfigValidator) Bool(key, value string, def bool) bool {
	if value == "" {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		v.AddError(key, "must be true or false")
		return def
	}
	return b
}

// Duration parses value with time.ParseDuration and requires it positive.
func (v *ConfigValidator) Duration(key, value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		v.AddError(key, "must be a valid duration (e.g. 30m, 12h)")
		return def
	}
	if d <= 0 {
		v.AddError(key, "must be a positive duration")
		return def
	}
	return d
}

// ValidatePasswordHash accepts a SHA-512 hex digest or a bcrypt hash.
func (v *ConfigValidator) ValidatePasswordHash(key, value string) {
	if value == "" {
		return
	}

	if strings.HasPrefix(value, "$2a$") ||
		strings.HasPrefix(value, "$2b$") ||
		strings.HasPrefix(value, "$2y$") {
		// Bcrypt hashes are 60 characters
		if len(value) != 60 {
			v.AddError(key, "bcrypt hash must be exactly 60 characters")
		}
		return
	}

	if len(value) != 128 {
		v.AddError(key, "must be a SHA-512 hex digest (128 characters) or a bcrypt hash")
		return
	}
	for _, c := range value {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			v.AddError(key, "SHA-512 digest must be hexadecimal")
			return
		}
	}
}
