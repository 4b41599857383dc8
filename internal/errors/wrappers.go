package errors

import "fmt"

// NotFound creates an error for a method, class file or Form Request that does not exist
func NotFound(kind, name string) *BaseError {
	return Newf(NotFoundCode, "%s '%s' not found", kind, name).
		WithContext("kind", kind).
		WithContext("name", name)
}

// Unparseable creates an error for a delimiter scan that hit end of text unmatched
func Unparseable(what string, offset int) *BaseError {
	return Newf(UnparseableCode, "unmatched delimiter in %s at offset %d", what, offset).
		WithContext("what", what).
		WithContext("offset", offset)
}

// AmbiguousSource creates the soft warning raised when a method has inline rules and a Form Request hint
func AmbiguousSource(inlineShape, formRequest string) *BaseError {
	message := fmt.Sprintf("inline %s rules take precedence over form request %s", inlineShape, formRequest)
	return New(AmbiguousSourceCode, message).
		WithContext("inline_shape", inlineShape).
		WithContext("form_request", formRequest).
		WithSuggestion("Move the inline rules into the form request or drop the type-hint")
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}
