// Package normalisers turns uploaded documents into plain text. Each
// sub-package handles one family of file extensions; Registry picks the
// right one for a file.
package normalisers
