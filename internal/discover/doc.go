// Package discover walks a directory tree for wralea package manifests and
// loads them as a validated, name-ordered package list.
package discover
