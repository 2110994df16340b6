package contextkeys

type contextKey string

const (
	// OperatorEmailKey - email оператора, прошедшего аутентификацию.
	OperatorEmailKey contextKey = "OperatorEmail"
)
