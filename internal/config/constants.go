package config

// Marker lexemes in signature declarations.
const (
	VarPositionalMarker  = "*"
	VarKeywordMarker     = "**"
	PositionalOnlyMarker = "/"
)

// EqualitySpecifier separates keyword from value in an argument line
// (e.g. "count=3").
const EqualitySpecifier = "="

// DefaultAnnotation is assumed when a parameter declares no type.
const DefaultAnnotation = "str"

// Built-in annotation names understood by the converter registry.
const (
	AnnotationStr      = "str"
	AnnotationInt      = "int"
	AnnotationFloat    = "float"
	AnnotationBool     = "bool"
	AnnotationChar     = "char"
	AnnotationDuration = "duration"
	AnnotationUUID     = "uuid"
	AnnotationAny      = "any"
	AnnotationYAML     = "yaml"
)
