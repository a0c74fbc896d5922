package domain

import "errors"

var (
	ErrSourceNotFound        = errors.New("source not found")
	ErrInvalidIdentifier     = errors.New("invalid identifier")
	ErrUnsupportedSourceType = errors.New("unsupported source type")
	ErrQueryExecution        = errors.New("query execution failed")
)
