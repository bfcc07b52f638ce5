package catalog

import (
	"strings"

	"github.com/RuiQin/stride_store/internal/domain"
)

// 性别归类关键词表。
// 数据模型没有部门字段，只能从标题做启发式判定；
// 该表与搜索引擎的分类关键词表（见 search.go）是两套独立启发式，不可合并。
var menExcludeKeywords = []string{"sports bra", "bra", "leggings", "seamless", "tube top", "midi"}

var womenIncludeKeywords = []string{"seamless", "sports bra", "leggings", "tank", "tube top", "midi"}

// Filter 按筛选条件过滤商品，返回新切片，不修改输入。
// 各条件为独立可选的谓词，按合取组合；零值字段放行。
func Filter(products []domain.Product, f domain.FilterState) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for i := range products {
		if matchesFilter(&products[i], f) {
			out = append(out, products[i])
		}
	}
	return out
}

func matchesFilter(p *domain.Product, f domain.FilterState) bool {
	if !matchesCategory(p, f.Category) {
		return false
	}

	if f.Collection != "" && !p.InCollection(f.Collection) {
		return false
	}

	// 价格区间按展示参考价（划线价优先）判断，闭区间
	if f.PriceRange != nil {
		price := p.EffectivePriceCents()
		if price < f.PriceRange[0] || price > f.PriceRange[1] {
			return false
		}
	}

	if len(f.Colors) > 0 && !matchesAnyColor(p, f.Colors) {
		return false
	}

	if f.IsNew != nil && *f.IsNew && !isNewProduct(p) {
		return false
	}

	if f.IsFeatured != nil && *f.IsFeatured && !isFeaturedProduct(p) {
		return false
	}

	return true
}

// matchesCategory 处理分类条件。
// 三种形式：复合标记 "<gender>-<category>"、纯性别 "men"/"women"、普通分类ID。
func matchesCategory(p *domain.Product, category string) bool {
	if category == "" {
		return true
	}

	if idx := strings.Index(category, "-"); idx > 0 {
		gender, cat := category[:idx], category[idx+1:]
		return matchesGenderCategory(p, gender, cat)
	}

	switch category {
	case "men":
		return matchesMen(p)
	case "women":
		return matchesWomen(p)
	}

	return p.InCategory(category)
}

func matchesGenderCategory(p *domain.Product, gender, category string) bool {
	title := strings.ToLower(p.Title)

	switch gender {
	case "men":
		if !matchesMen(p) {
			return false
		}
		switch category {
		case "shorts":
			return strings.Contains(title, "short")
		case "tops":
			return strings.Contains(title, "tee") || strings.Contains(title, "shirt")
		case "sport":
			return strings.Contains(title, "sport") && !strings.Contains(title, "bra")
		case "arrivals":
			return strings.Contains(title, "arrival")
		}
		return true

	case "women":
		if !matchesWomen(p) {
			return false
		}
		switch category {
		case "leggings":
			return strings.Contains(title, "leggings")
		case "sports-bras":
			return strings.Contains(title, "bra")
		case "tops":
			return strings.Contains(title, "tank") || strings.Contains(title, "top") || strings.Contains(title, "tee")
		case "seamless":
			return strings.Contains(title, "seamless")
		}
		return true
	}

	// 未知性别标记不参与过滤
	return true
}

// matchesMen 男装判定：排除女装关键词
func matchesMen(p *domain.Product) bool {
	title := strings.ToLower(p.Title)
	for _, kw := range menExcludeKeywords {
		if strings.Contains(title, kw) {
			return false
		}
	}
	return true
}

// matchesWomen 女装判定：性别标签为 female，或标题命中女装关键词
func matchesWomen(p *domain.Product) bool {
	if p.Gender == "female" {
		return true
	}
	title := strings.ToLower(p.Title)
	for _, kw := range womenIncludeKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// matchesAnyColor 任一请求颜色与任一SKU颜色匹配即通过（大小写不敏感）
func matchesAnyColor(p *domain.Product, colors []string) bool {
	for _, want := range colors {
		w := strings.ToLower(want)
		for _, v := range p.Variants {
			if strings.ToLower(v.ColorName) == w {
				return true
			}
		}
	}
	return false
}
