package cli

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidLayout  = goerr.New("layout does not match the schema")
	ErrUnknownType    = goerr.New("unknown component type")
	ErrNothingToWatch = goerr.New("no descriptor directory to watch")
	ErrInvalidFormat  = goerr.New("unsupported output format")
)
