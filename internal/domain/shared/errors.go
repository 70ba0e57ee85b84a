package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized      = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden         = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrOrderDoesNotExist = NewDomainError("ORDER_NOT_FOUND", "order does not exist")
	ErrNoItemsSelected   = NewDomainError("NO_ITEMS_SELECTED", "Please select at least one item")
	ErrStaleResponse     = NewDomainError("STALE_RESPONSE", "Response superseded by a newer request")
	ErrUpstreamRejected  = NewDomainError("SUBMISSION_REJECTED", "Submission rejected by upstream service")
)
