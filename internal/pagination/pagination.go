// Package pagination slices ordered results into fixed-size pages.
//
// Page numbers come straight from the query string, so every bad value is
// clamped into range instead of producing an error.
package pagination

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// DefaultSize is the number of items per page.
const DefaultSize = 10

// Page describes one page of a result set.
type Page struct {
	Number     int
	Size       int
	Total      int64
	TotalPages int
}

// ParseNumber reads a page parameter, defaulting to 1 for anything that is not a number.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// New computes the page for the requested number, clamped to [1, TotalPages].
// An empty result still has one (empty) page.
func New(requested int, size int, total int64) Page {
	if size <= 0 {
		size = DefaultSize
	}
	if total < 0 {
		total = 0
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages == 0 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}
	return Page{Number: number, Size: size, Total: total, TotalPages: totalPages}
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasPrevious() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Number < p.TotalPages }

func (p Page) HasOtherPages() bool { return p.TotalPages > 1 }

func (p Page) PreviousNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

func (p Page) NextNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

// StartIndex is the 1-based position of the first item, 0 for an empty page.
func (p Page) StartIndex() int64 {
	if p.Total == 0 {
		return 0
	}
	return int64(p.Offset()) + 1
}

// EndIndex is the 1-based position of the last item on the page.
func (p Page) EndIndex() int64 {
	end := int64(p.Offset() + p.Size)
	if end > p.Total {
		end = p.Total
	}
	return end
}

// Scope limits a query to the rows of this page.
func (p Page) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Offset()).Limit(p.Size)
}
