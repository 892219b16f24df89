// Package convert maps wralea declarations onto RO records. It is pure: every
// reference a record needs (interface ids, node definitions) must already be
// present in the ro.Store handed to it.
package convert
