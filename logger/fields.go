package logger

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldMode      = "mode"
	FieldEnd       = "end"
	FieldSeq       = "seq"
	FieldValue     = "value"
	FieldYielded   = "yielded"
	FieldEmpty     = "empty"
	FieldPulls     = "pulls"
	FieldInput     = "input"
	FieldError     = "error"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("mode", "forward", "yielded", 4))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for a failed operation.
func ErrorFields(err error) map[string]interface{} {
	return map[string]interface{}{
		FieldError: err.Error(),
	}
}
