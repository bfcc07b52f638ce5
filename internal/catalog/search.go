package catalog

import (
	"sort"
	"strings"

	"github.com/RuiQin/stride_store/internal/domain"
)

// SearchSort 搜索结果排序方式
type SearchSort string

const (
	SearchSortRelevance SearchSort = "relevance" // 保持目录顺序
	SearchSortPriceLow  SearchSort = "price-low"
	SearchSortPriceHigh SearchSort = "price-high"
	SearchSortNewest    SearchSort = "newest"
)

// SearchOptions 搜索条件
type SearchOptions struct {
	Query      string
	Colors     []string
	PriceRange *[2]int64
	Categories []string
	SortBy     SearchSort
}

// Search 在商品列表中执行文本搜索并应用子筛选。
// 文本匹配：标题或任一SKU颜色名的大小写不敏感子串匹配；空查询返回空结果。
// 分类关键词表与筛选引擎（filter.go）的表独立维护，两者刻意不统一。
func Search(products []domain.Product, opts SearchOptions) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(opts.Query))
	if query == "" {
		return nil
	}

	results := make([]domain.Product, 0)
	for i := range products {
		p := &products[i]
		if !matchesQuery(p, query) {
			continue
		}
		if len(opts.Colors) > 0 && !matchesAnyColor(p, opts.Colors) {
			continue
		}
		if opts.PriceRange != nil {
			price := p.EffectivePriceCents()
			if price < opts.PriceRange[0] || price > opts.PriceRange[1] {
				continue
			}
		}
		if len(opts.Categories) > 0 && !matchesSearchCategories(p, opts.Categories) {
			continue
		}
		results = append(results, *p)
	}

	switch opts.SortBy {
	case SearchSortPriceLow:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].EffectivePriceCents() < results[j].EffectivePriceCents()
		})
	case SearchSortPriceHigh:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].EffectivePriceCents() > results[j].EffectivePriceCents()
		})
	case SearchSortNewest:
		sort.SliceStable(results, func(i, j int) bool {
			return isNewProduct(&results[i]) && !isNewProduct(&results[j])
		})
	}
	// relevance：保持输入顺序

	return results
}

func matchesQuery(p *domain.Product, query string) bool {
	if strings.Contains(strings.ToLower(p.Title), query) {
		return true
	}
	for _, v := range p.Variants {
		if strings.Contains(strings.ToLower(v.ColorName), query) {
			return true
		}
	}
	return false
}

// matchesSearchCategories 搜索引擎自己的分类关键词表
func matchesSearchCategories(p *domain.Product, categories []string) bool {
	title := strings.ToLower(p.Title)
	for _, c := range categories {
		switch strings.ToLower(c) {
		case "leggings":
			if strings.Contains(title, "leggings") {
				return true
			}
		case "sports-bras":
			if strings.Contains(title, "bra") {
				return true
			}
		case "tops":
			if strings.Contains(title, "tank") || strings.Contains(title, "top") || strings.Contains(title, "tee") {
				return true
			}
		case "shorts":
			if strings.Contains(title, "short") {
				return true
			}
		case "seamless":
			if strings.Contains(title, "seamless") {
				return true
			}
		case "sport":
			if strings.Contains(title, "sport") {
				return true
			}
		case "arrivals":
			if strings.Contains(title, "arrival") {
				return true
			}
		default:
			// 未知分类不约束结果
			return true
		}
	}
	return false
}

// Suggestions 生成搜索联想词：命中的商品标题，以及 "标题 - 颜色" 组合。
// 保持目录遍历顺序去重，最多返回 limit 条。
func Suggestions(products []domain.Product, query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = 5
	}

	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for i := range products {
		p := &products[i]
		if strings.Contains(strings.ToLower(p.Title), q) {
			add(p.Title)
		}
		for _, v := range p.Variants {
			if strings.Contains(strings.ToLower(v.ColorName), q) {
				add(p.Title + " - " + v.ColorName)
			}
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
