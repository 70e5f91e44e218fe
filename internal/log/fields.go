// Package log holds the shared vocabulary for structured log attributes so
// that the same fact is always logged under the same key, no matter which
// package emits it.
package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldUserAgent     = "user_agent"
	FieldReferer       = "referer"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldUserID        = "user_id"
	FieldYear          = "year"
	FieldMonth         = "month"
	FieldTransactionID = "transaction_id"
	FieldCategoryID    = "category_id"
	FieldMethodID      = "payment_method_id"
	FieldBudgetID      = "budget_id"
	FieldAmount        = "amount"
	FieldTxnType       = "transaction_type"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentAuth        = "auth"
	ComponentTransaction = "transaction"
	ComponentStorage     = "storage"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentRecurring   = "recurring"
	ComponentCache       = "cache"
	ComponentBackend     = "backend"
)
