package component

import "errors"

var (
	// ErrFrozen is returned by builder operations once the exported shape has
	// been overridden or a generation method has run.
	ErrFrozen = errors.New("component: config is frozen")
	// ErrUnknownCapability is returned for capability keys that do not start
	// with renderIn.
	ErrUnknownCapability = errors.New("component: unknown capability")
	// ErrNotFormLike is returned when a non form/container component asks for
	// data model bindings.
	ErrNotFormLike = errors.New("component: only form and container components can have data model bindings")
	// ErrAlwaysSummarizable is returned by MakeSummarizable on form and
	// container components.
	ErrAlwaysSummarizable = errors.New("component: form and container components are always summarizable")
	// ErrTypeNotSet is returned by generation methods before SetType.
	ErrTypeNotSet = errors.New("component: type not set")
	// ErrSummaryOverrides is returned for duplicate or unsupported summary
	// overrides.
	ErrSummaryOverrides = errors.New("component: invalid summary overrides")
	// ErrDuplicatePlugin is returned when a plugin key is attached twice.
	ErrDuplicatePlugin = errors.New("component: duplicate plugin")
	// ErrInvalidPlugin is returned for plugins without a key, symbol or module.
	ErrInvalidPlugin = errors.New("component: invalid plugin")
)
