package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldErrorType  = "error_type"
	FieldOperation  = "operation"
	FieldTable      = "table"
	FieldRows       = "rows"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldType       = "type"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldLimit      = "limit"
	FieldFilename   = "filename"
)

// Component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentBackup  = "backup"
	ComponentBackend = "backend"
)

// Operation names
const (
	OpAppend     = "append"
	OpUpsert     = "upsert"
	OpDeleteLast = "delete_last"
	OpRestore    = "restore"
	OpExport     = "export"
	OpSummary    = "summary"
	OpRender     = "render"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)

// Error type categories
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeStorage    = "storage_error"
	ErrorTypeInternal   = "internal_error"
)

// Fields is an ordered attribute list for slog.
type Fields []any

func NewFields() Fields {
	return make(Fields, 0, 8)
}

func (f Fields) Component(c string) Fields { return append(f, FieldComponent, c) }

func (f Fields) Operation(op string) Fields { return append(f, FieldOperation, op) }

func (f Fields) Table(name string, rows int) Fields {
	return append(f, FieldTable, name, FieldRows, rows)
}

// Err adds the error and its category. A nil error adds nothing.
func (f Fields) Err(err error, errType string) Fields {
	if err == nil {
		return f
	}
	return append(f, FieldError, err.Error(), FieldErrorType, errType)
}

func (f Fields) Add(kv ...any) Fields { return append(f, kv...) }
