// Package pagination derives page navigation state from a total item count.
package pagination

import "math"

const defaultPageSize = 10

// Pager tracks the current page within [1, TotalPages]. Out-of-range
// requests clamp silently rather than error.
type Pager struct {
	currentPage int
	pageSize    int
	totalItems  int
}

func New(pageSize, totalItems int) *Pager {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if totalItems < 0 {
		totalItems = 0
	}
	return &Pager{
		currentPage: 1,
		pageSize:    pageSize,
		totalItems:  totalItems,
	}
}

func (p *Pager) CurrentPage() int { return p.currentPage }

func (p *Pager) PageSize() int { return p.pageSize }

func (p *Pager) TotalItems() int { return p.totalItems }

// TotalPages is always at least 1, even with no items.
func (p *Pager) TotalPages() int {
	pages := int(math.Ceil(float64(p.totalItems) / float64(p.pageSize)))
	if pages < 1 {
		return 1
	}
	return pages
}

// GoToPage clamps n into [1, TotalPages].
func (p *Pager) GoToPage(n int) {
	total := p.TotalPages()
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	p.currentPage = n
}

func (p *Pager) NextPage() { p.GoToPage(p.currentPage + 1) }

func (p *Pager) PreviousPage() { p.GoToPage(p.currentPage - 1) }

func (p *Pager) FirstPage() { p.GoToPage(1) }

func (p *Pager) LastPage() { p.GoToPage(p.TotalPages()) }

func (p *Pager) CanGoNext() bool { return p.currentPage < p.TotalPages() }

func (p *Pager) CanGoPrevious() bool { return p.currentPage > 1 }

// SetTotalItems updates the item count, re-clamping the current page when
// the page range shrank underneath it.
func (p *Pager) SetTotalItems(totalItems int) {
	if totalItems < 0 {
		totalItems = 0
	}
	p.totalItems = totalItems
	p.GoToPage(p.currentPage)
}
