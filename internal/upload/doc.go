// Package upload registers converted definitions on the catalog.
//
// Every registration first checks whether the id is already registered.
// An existing id is skipped, or removed and registered again when the
// Uploader overwrites. Registered objects are linked to their container
// with a single "contains" edge. Dependencies (interfaces of a node,
// nodes of a workflow, workflow and input data of a provenance) must
// exist on the catalog before an object referencing them is registered.
package upload
