package indicators

import "errors"

// ErrMissingName indicates a KPI operation without an indicator name.
var ErrMissingName = errors.New("indicators: indicator name is required")
