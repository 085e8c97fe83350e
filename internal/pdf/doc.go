// Package pdf renders greeting text into a single-page PDF document.
//
// The renderer uses the PDF core fonts, which only cover the Windows-1252
// code page. Normalize folds text into that repertoire before rendering:
// accented letters lose their diacritics and anything without a
// single-byte representation is dropped.
package pdf
