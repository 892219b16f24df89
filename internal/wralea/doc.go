// Package wralea handles parsing and validation of wralea package manifests.
// A manifest is the declarative form of an OpenAlea __wralea__ module: package
// metadata plus its interfaces, node factories, data factories and composite
// node factories. Manifests are validated against an embedded JSON Schema.
package wralea
