// Package file reads values schemas from the local filesystem and watches
// them for changes.
package file
