package contract

import "errors"

var (
	ErrAgentNotFound  = errors.New("agent is not registered")
	ErrModelInvoke    = errors.New("model invoke failed")
	ErrQueryExecution = errors.New("query execution failed")
	ErrValidation     = errors.New("validation failed")
	ErrDatasetLoad    = errors.New("dataset load failed")
)
