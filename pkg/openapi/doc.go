// Package openapi exports the aggregated layout schema as an OpenAPI 3.0
// components document built with kin-openapi. Draft-07 keywords without an
// OpenAPI 3.0 counterpart are translated or dropped: const becomes a single
// value enum, examples becomes example, type null becomes nullable and
// if/then/else is removed. The AnyComponent dispatcher is expressed as a
// oneOf with a type discriminator.
package openapi
