package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL

const (
	// ==================== VALIDATION_ ====================
	ValidationInvalidInput   = "VALIDATION_INVALID_INPUT"    // malformed body or query
	ValidationInvalidID      = "VALIDATION_INVALID_ID"       // path id is not a positive integer
	ValidationInvalidQty     = "VALIDATION_INVALID_QUANTITY" // quantity < 1
	ValidationInvalidPayment = "VALIDATION_INVALID_PAYMENT"  // payment status not Paid/Unpaid

	// ==================== RESOURCE_ ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== CART_ / ORDER_ ====================
	CartEmpty              = "CART_EMPTY"
	OrderInvalidState      = "ORDER_INVALID_STATE"      // not Pending or Processing
	OrderInsufficientStock = "ORDER_INSUFFICIENT_STOCK" // reject stock policy

	// ==================== REPORT_ ====================
	ReportUnsupported = "REPORT_UNSUPPORTED" // report not offered by the live backend
	ReportUnknown     = "REPORT_UNKNOWN"

	// ==================== INTERNAL_ ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalUnavailable   = "INTERNAL_UNAVAILABLE" // storage unreachable or timed out
)
