package repositories

// Page is one slice of an ordered listing.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Number  int   `json:"page"`
	PerPage int   `json:"perPage"`
	Total   int64 `json:"total"`
}

// Pages is the number of pages; an empty listing still has one.
func (p *Page[T]) Pages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

func (p *Page[T]) HasPrev() bool { return p.Number > 1 }

func (p *Page[T]) HasNext() bool { return p.Number < p.Pages() }

func (p *Page[T]) PrevNum() int {
	if !p.HasPrev() {
		return 0
	}
	return p.Number - 1
}

func (p *Page[T]) NextNum() int {
	if !p.HasNext() {
		return 0
	}
	return p.Number + 1
}

// IterPages lists the page numbers worth linking to: two at each edge and
// two either side of the current page. A 0 marks a gap.
func (p *Page[T]) IterPages() []int {
	const leftEdge, leftCurrent, rightCurrent, rightEdge = 2, 2, 2, 2

	var out []int
	last := 0
	pages := p.Pages()
	for n := 1; n <= pages; n++ {
		if n <= leftEdge ||
			(n >= p.Number-leftCurrent && n <= p.Number+rightCurrent) ||
			n > pages-rightEdge {
			if last+1 != n {
				out = append(out, 0)
			}
			out = append(out, n)
			last = n
		}
	}
	return out
}

// offset is only asked for pages within Pages(), so it cannot overflow.
func offset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}
