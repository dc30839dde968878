package session

import (
	"context"
	"slices"
)

// Page is a screen of the front-end.
type Page string

const (
	PageIndex     Page = "index"
	PageDashboard Page = "dashboard"
	PageVaccine   Page = "vaccine"
	PageCare      Page = "care"
	PageDiet      Page = "diet"
	PageExpenses  Page = "expenses"
	PagePhotos    Page = "photos"
)

// EntryPage is where unauthenticated visitors are sent.
const EntryPage = PageIndex

var publicPages = []Page{PageIndex}

// Pages lists every page in menu order.
func Pages() []Page {
	return []Page{PageIndex, PageDashboard, PageVaccine, PageCare, PageDiet, PageExpenses, PagePhotos}
}

// Protected reports whether p requires an allowed session.
func (p Page) Protected() bool {
	return !slices.Contains(publicPages, p)
}

// ParsePage returns the page named s.
func ParsePage(s string) (Page, bool) {
	p := Page(s)
	if slices.Contains(Pages(), p) {
		return p, true
	}
	return "", false
}

// Navigator moves the front-end to another page.
type Navigator interface {
	Navigate(ctx context.Context, p Page)
}
