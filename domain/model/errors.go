package model

import "errors"

// ErrDuplicateColumnName is returned when a source contains duplicate column names
var ErrDuplicateColumnName = errors.New("duplicate column name")
