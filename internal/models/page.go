package models

// Page is a zero-based page index with a strictly positive size. Translation
// of raw from/size query parameters into a page index happens at the HTTP
// boundary, not here.
type Page struct {
	Index int
	Size  int
}

// NewPageFromOffset converts a row offset plus size into the page containing
// that offset.
func NewPageFromOffset(from, size int) Page {
	return Page{Index: from / size, Size: size}
}

// Offset returns the row offset of the first entry of the page.
func (p Page) Offset() int {
	return p.Index * p.Size
}
