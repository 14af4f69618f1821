// Package archive exposes compressed containers as lazy entry sequences for
// the import pipeline. Only zip is supported today; the Reader interface
// keeps container formats behind one seam.
package archive
