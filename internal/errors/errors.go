// Package errors provides standardized error handling for vjj.
// It defines the error kinds surfaced by keymap loading, template rendering,
// subprocess execution and the self-invocation protocol, plus helpers for
// consistent creation, wrapping and classification.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// IO error kinds
	FileNotFound
	FileAccessDenied
	ProcessFailed
	// Config error kinds
	InvalidConfig
	MissingKeymap
	// Template error kinds
	TemplateParse
	TemplateRender
	// External tool error kinds
	ClipboardFailed
	// Protocol error kinds
	InvalidExpression
)

var kindNames = map[ErrorKind]string{
	Unknown:           "unknown",
	FileNotFound:      "file not found",
	FileAccessDenied:  "file access denied",
	ProcessFailed:     "process failed",
	InvalidConfig:     "invalid config",
	MissingKeymap:     "missing keymap",
	TemplateParse:     "template parse",
	TemplateRender:    "template render",
	ClipboardFailed:   "clipboard failed",
	InvalidExpression: "invalid expression",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// kinded lets KindOf classify every error type of this package.
type kinded interface {
	Kind() ErrorKind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration and keymaps.
// Param names the offending mode, file or setting.
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// NewMissingKeymapError reports a mode with no keymap section.
func NewMissingKeymapError(mode string) *ConfigError {
	return NewConfigError("missing keymap", mode, MissingKeymap, nil)
}

// TemplateError represents placeholder parse and render failures
type TemplateError struct {
	ApplicationError
	template string
}

// NewTemplateError creates a new template error
func NewTemplateError(msg string, template string, kind ErrorKind, err error) *TemplateError {
	return &TemplateError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		template: template,
	}
}

// Error returns the template error message
func (e *TemplateError) Error() string {
	if e.template != "" {
		return fmt.Sprintf("%s in %q", e.ApplicationError.Error(), e.template)
	}
	return e.ApplicationError.Error()
}

// Template returns the template source the error occurred in
func (e *TemplateError) Template() string {
	return e.template
}

// ProcessError represents failures of external programs (jj, the pager,
// the shell, the clipboard)
type ProcessError struct {
	ApplicationError
	program string
}

// NewProcessError creates a new process error
func NewProcessError(msg string, program string, kind ErrorKind, err error) *ProcessError {
	return &ProcessError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		program: program,
	}
}

// Error returns the process error message
func (e *ProcessError) Error() string {
	if e.program != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.program, e.msg, e.err)
		}
		return fmt.Sprintf("%s: %s", e.program, e.msg)
	}
	return e.ApplicationError.Error()
}

// Program returns the external program associated with the error
func (e *ProcessError) Program() string {
	return e.program
}

// NewExpressionError reports a malformed self-invocation payload.
func NewExpressionError(msg string, err error) error {
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: InvalidExpression,
	}
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsMissingKeymap checks if the error is a missing keymap error
func IsMissingKeymap(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == MissingKeymap
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsTemplateError checks if the error is a template parse or render error
func IsTemplateError(err error) bool {
	var templateErr *TemplateError
	return errors.As(err, &templateErr)
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsInvalidExpression checks if the error is a protocol decode error
func IsInvalidExpression(err error) bool {
	return KindOf(err) == InvalidExpression
}
