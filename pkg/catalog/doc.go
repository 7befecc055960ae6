// Package catalog defines the section shapes and templates that drive the
// flow layout engine.
//
// # Overview
//
// Articleflow pours one block of master text and a set of image slots into a
// fixed visual template. The template is an ordered list of references into a
// catalog of reusable section shapes (hero, two-column, full-width band,
// quote, carousel, inline aside). Each shape describes its per-breakpoint
// geometry and the ordered blocks it contains; text blocks additionally carry
// a fitting policy governing how much master text they consume.
//
// Everything in this package is pure data: shapes and templates are authored
// once (in TOML or in code) and are read-only at layout time. The engine in
// package flow consumes them without mutation.
//
// # Basic Usage
//
// Load the built-in catalog and a template, then hand both to the engine:
//
//	cat := catalog.Builtin()
//	tpl := catalog.BuiltinTemplate()
//	if err := catalog.Validate(tpl, cat); err != nil {
//	    // a template entry references an unknown section shape
//	}
//
// Authoring files are decoded with [LoadFile] / [Decode]; see the examples
// directory for the file format.
//
// # Defaults
//
// Optional policy fields resolve at read time rather than load time:
// MinWords/MaxWords default to 75%/125% of TargetWords (rounded), sentence
// snapping defaults to on, and TruncateOnTextEnd defaults to true. Accessors
// ([TextPolicy.Window], [TextPolicy.Snap], [TemplateDef.Truncate]) apply the
// defaults so that zero values stay meaningful after TOML decoding.
package catalog
