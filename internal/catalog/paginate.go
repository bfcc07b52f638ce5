package catalog

// Paginate 对有序列表做通用分页窗口，页码从1开始。
// 越界页返回空切片；与商品语义无关，可用于任意元素类型。
func Paginate[T any](items []T, itemsPerPage, page int) []T {
	if itemsPerPage <= 0 || page <= 0 {
		return nil
	}
	start := (page - 1) * itemsPerPage
	if start >= len(items) {
		return nil
	}
	end := start + itemsPerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages 返回总页数：ceil(n/size)。空列表为0页。
func TotalPages(total, itemsPerPage int) int {
	if itemsPerPage <= 0 {
		return 0
	}
	return (total + itemsPerPage - 1) / itemsPerPage
}

// Pager 维护当前页状态的分页器。
// 替换底层列表不会自动回到第一页：是否重置页码由调用方显式决定。
type Pager[T any] struct {
	items        []T
	itemsPerPage int
	currentPage  int
}

// NewPager 创建分页器，初始位于第1页
func NewPager[T any](items []T, itemsPerPage int) *Pager[T] {
	if itemsPerPage <= 0 {
		itemsPerPage = 6
	}
	return &Pager[T]{items: items, itemsPerPage: itemsPerPage, currentPage: 1}
}

// SetItems 替换底层列表，保留当前页码
func (p *Pager[T]) SetItems(items []T) {
	p.items = items
}

// Items 返回当前页的元素
func (p *Pager[T]) Items() []T {
	return Paginate(p.items, p.itemsPerPage, p.currentPage)
}

// Page 返回当前页码
func (p *Pager[T]) Page() int {
	return p.currentPage
}

// TotalPages 返回总页数
func (p *Pager[T]) TotalPages() int {
	return TotalPages(len(p.items), p.itemsPerPage)
}

// SetPage 跳转到指定页，越界时收敛到 [1, max(totalPages,1)]
func (p *Pager[T]) SetPage(page int) {
	total := p.TotalPages()
	if total < 1 {
		total = 1
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	p.currentPage = page
}

// Next 前进一页（带收敛）
func (p *Pager[T]) Next() {
	p.SetPage(p.currentPage + 1)
}

// Prev 后退一页（带收敛）
func (p *Pager[T]) Prev() {
	p.SetPage(p.currentPage - 1)
}

// Reset 回到第1页
func (p *Pager[T]) Reset() {
	p.currentPage = 1
}

// HasMore 判断当前页之后是否还有内容
func (p *Pager[T]) HasMore() bool {
	return p.currentPage < p.TotalPages()
}
