// Package attr implements the typed, user-editable parameters of graph nodes.
//
// Every attribute can describe the settings control a presentation layer
// should draw for it, and can serialize itself into and out of a generic,
// JSON-shaped Document. Deserialization never partially applies a value: on
// a missing or malformed field the attribute is left untouched and a
// *FieldError explains which field failed and why.
package attr
