package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/RuiQin/stride_store/internal/domain"
)

// titleCollator 用于标题排序的本地化比较器
var titleCollator = collate.New(language.English)

// Sort 按指定方式对商品排序，返回新切片，不修改输入。
// featured/newest 为稳定分区：命中启发式的商品排前，桶内保持输入相对顺序。
func Sort(products []domain.Product, key domain.SortKey) []domain.Product {
	sorted := make([]domain.Product, len(products))
	copy(sorted, products)

	switch key {
	case domain.SortFeatured:
		sort.SliceStable(sorted, func(i, j int) bool {
			return isFeaturedProduct(&sorted[i]) && !isFeaturedProduct(&sorted[j])
		})
	case domain.SortNewest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return isNewProduct(&sorted[i]) && !isNewProduct(&sorted[j])
		})
	case domain.SortPriceLow:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].EffectivePriceCents() < sorted[j].EffectivePriceCents()
		})
	case domain.SortPriceHigh:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].EffectivePriceCents() > sorted[j].EffectivePriceCents()
		})
	case domain.SortNameAZ:
		sort.SliceStable(sorted, func(i, j int) bool {
			return titleCollator.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	case domain.SortNameZA:
		sort.SliceStable(sorted, func(i, j int) bool {
			return titleCollator.CompareString(sorted[i].Title, sorted[j].Title) > 0
		})
	}

	return sorted
}
