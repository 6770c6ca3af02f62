package menu

const (
	DefaultPageSize   = 18
	DefaultGroupWidth = 3
)

type Button struct {
	Text  string
	Token string
}

// Page is one rendered page of a paginated menu. Number is 1-based.
type Page struct {
	Rows    [][]Button
	Number  int
	Total   int
	HasPrev bool
	HasNext bool
}

// PageCount returns the number of reachable pages for n options.
func PageCount(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if n <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// BuildPage lays out page of options in rows of groupWidth, keeping input order.
// Out-of-range pages yield an empty grid without controls.
func BuildPage[T any](options []T, page, pageSize, groupWidth int, render func(T) Button) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if groupWidth <= 0 {
		groupWidth = DefaultGroupWidth
	}

	total := PageCount(len(options), pageSize)
	p := Page{Rows: [][]Button{}, Number: page, Total: total}
	if page < 1 || page > total {
		return p
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(options) {
		end = len(options)
	}

	row := make([]Button, 0, groupWidth)
	for _, opt := range options[start:end] {
		if len(row) == groupWidth {
			p.Rows = append(p.Rows, row)
			row = make([]Button, 0, groupWidth)
		}
		row = append(row, render(opt))
	}
	if len(row) > 0 {
		p.Rows = append(p.Rows, row)
	}

	p.HasPrev = page > 1
	p.HasNext = end < len(options)
	return p
}

// Controls returns the Previous/Next row for p, or nil when p needs none.
func (p Page) Controls(owner, prevText, nextText string) []Button {
	var row []Button
	if p.HasPrev {
		row = append(row, Button{Text: prevText, Token: PageToken(owner, p.Number-1)})
	}
	if p.HasNext {
		row = append(row, Button{Text: nextText, Token: PageToken(owner, p.Number+1)})
	}
	return row
}

// Keyboard is the page grid followed by its controls row.
func (p Page) Keyboard(owner, prevText, nextText string) [][]Button {
	rows := make([][]Button, 0, len(p.Rows)+1)
	rows = append(rows, p.Rows...)
	if controls := p.Controls(owner, prevText, nextText); len(controls) > 0 {
		rows = append(rows, controls)
	}
	return rows
}

// Items flattens the grid back into buttons in display order.
func (p Page) Items() []Button {
	var out []Button
	for _, row := range p.Rows {
		out = append(out, row...)
	}
	return out
}
