package instrument

import "errors"

const Namespace = "instrument"

var (
	ErrNoCurrentMetric = errors.New(
		Namespace + ": attr attached before any counter or gauge was declared",
	)
	ErrBuilderFinalized = errors.New(
		Namespace + ": builder used after its registration call returned",
	)
	ErrEmptyName     = errors.New(Namespace + ": metric declared without a name")
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
)
