// Package pageindex implements pagination arithmetic.
//
// Window is a pure function: it never clamps the requested page. A page
// past the end yields an empty slice; callers clamp before calling when
// they need a non-empty result.
package pageindex

import (
	"strconv"
	"strings"
)

// Window describes the visible part of a collection for one page.
type Window struct {
	Page     int
	PageSize int

	// Start and End bound the visible slice, End exclusive.
	Start int
	End   int

	// Total is ceil(length / pageSize). It is 0 for an empty collection.
	Total int
}

// Len is the number of visible items.
func (w Window) Len() int {
	return w.End - w.Start
}

// Pages is Total with an empty collection counted as one empty page, which
// is what pagination controls display.
func (w Window) Pages() int {
	if w.Total < 1 {
		return 1
	}
	return w.Total
}

// HasPrev reports whether a previous page exists.
func (w Window) HasPrev() bool {
	return w.Page > 1
}

// HasNext reports whether a following page exists.
func (w Window) HasNext() bool {
	return w.Page < w.Total
}

// TotalPages returns ceil(length / pageSize). pageSize below 1 is treated as 1.
func TotalPages(length, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if length <= 0 {
		return 0
	}
	return (length + pageSize - 1) / pageSize
}

// Compute returns the window for page of a collection with length items.
func Compute(length, pageSize, page int) Window {
	if pageSize < 1 {
		pageSize = 1
	}
	if length < 0 {
		length = 0
	}

	w := Window{
		Page:     page,
		PageSize: pageSize,
		Total:    TotalPages(length, pageSize),
	}
	if page < 1 {
		return w
	}

	start := (page - 1) * pageSize
	if start >= length {
		w.Start, w.End = length, length
		return w
	}
	end := start + pageSize
	if end > length {
		end = length
	}
	w.Start, w.End = start, end
	return w
}

// Slice returns the visible items of page together with its window.
func Slice[T any](items []T, pageSize, page int) ([]T, Window) {
	w := Compute(len(items), pageSize, page)
	return items[w.Start:w.End], w
}

// PageOf returns the 1-based page that holds the item at index. A negative
// index (item not found) maps to page 1.
func PageOf(index, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if index < 0 {
		return 1
	}
	return index/pageSize + 1
}

// Clamp bounds page to [1, max(total, 1)].
func Clamp(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// ParseJump validates direct page entry. It accepts only an integer in
// [1, total]; anything else is rejected so the control can revert.
func ParseJump(input string, total int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, false
	}
	if n < 1 || n > total {
		return 0, false
	}
	return n, true
}
