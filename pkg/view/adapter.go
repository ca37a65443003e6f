// Package view holds the paginated gallery and the single-item detail view
// shared by every catalog category.
//
// Both views are generic over the item type and reach item fields only
// through an Adapter, so one implementation serves illustrations, comic
// pages, stickers, portraits and cosmetics.
package view

import (
	"cmp"
	"slices"
)

// Adapter exposes the fields the views need from an item.
type Adapter[T any] interface {
	ID(item T) int
	Order(item T) int
	ParentKey(item T) string
	AssetPath(item T) string
	Name(item T) string
}

// AdapterFuncs implements Adapter with plain functions. Nil functions
// yield zero values.
type AdapterFuncs[T any] struct {
	GetID        func(T) int
	GetOrder     func(T) int
	GetParentKey func(T) string
	GetAssetPath func(T) string
	GetName      func(T) string
}

func (a AdapterFuncs[T]) ID(item T) int {
	if a.GetID == nil {
		return 0
	}
	return a.GetID(item)
}

func (a AdapterFuncs[T]) Order(item T) int {
	if a.GetOrder == nil {
		return 0
	}
	return a.GetOrder(item)
}

func (a AdapterFuncs[T]) ParentKey(item T) string {
	if a.GetParentKey == nil {
		return ""
	}
	return a.GetParentKey(item)
}

func (a AdapterFuncs[T]) AssetPath(item T) string {
	if a.GetAssetPath == nil {
		return ""
	}
	return a.GetAssetPath(item)
}

func (a AdapterFuncs[T]) Name(item T) string {
	if a.GetName == nil {
		return ""
	}
	return a.GetName(item)
}

// SortByOrder returns a copy of items ordered by Order ascending. Items
// with equal keys keep their relative order.
func SortByOrder[T any](items []T, a Adapter[T]) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(x, y T) int {
		return cmp.Compare(a.Order(x), a.Order(y))
	})
	return out
}

// Filter returns the items for which keep reports true.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// IndexOf returns the position of the first item with the given id, or -1.
func IndexOf[T any](items []T, a Adapter[T], id int) int {
	for i, item := range items {
		if a.ID(item) == id {
			return i
		}
	}
	return -1
}
