// Package domain 定义店面业务的领域模型和核心业务规则。
// 领域模型独立于外部依赖（HTTP、存储等）。
package domain

// Product 表示商品领域模型。
// 目录数据在启动时一次性加载，运行期间只读。
type Product struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Slug           string           `json:"slug"`
	Description    string           `json:"description,omitempty"`
	PriceCents     int64            `json:"priceCents"`
	CompareAtCents int64            `json:"compareAtCents,omitempty"` // 原价（划线价），0 表示无
	Currency       string           `json:"currency"`
	Gender         string           `json:"gender,omitempty"`
	Fit            string           `json:"fit,omitempty"`
	Categories     []string         `json:"categories"`
	Collections    []string         `json:"collections"`
	Variants       []ProductVariant `json:"variants"` // 至少一个，首个为默认展示款
}

// ProductVariant 表示商品的颜色/尺码SKU
type ProductVariant struct {
	ID         string         `json:"id"`
	SKU        string         `json:"sku"`
	ColorName  string         `json:"colorName"`
	Size       string         `json:"size,omitempty"`
	PriceCents int64          `json:"priceCents"` // 可覆盖商品基础价
	Images     []ProductImage `json:"images"`
}

// ProductImage 商品图片
type ProductImage struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// EffectivePriceCents 返回商品的展示参考价。
// 存在划线价时返回划线价（促销前价格），筛选与排序均基于该价格；
// 购物车实际收取的是所选SKU的现价，两者刻意不一致。
func (p *Product) EffectivePriceCents() int64 {
	if p.CompareAtCents > 0 {
		return p.CompareAtCents
	}
	return p.PriceCents
}

// OnSale 判断商品是否处于促销状态
func (p *Product) OnSale() bool {
	return p.CompareAtCents > 0 && p.CompareAtCents > p.PriceCents
}

// DefaultImage 返回默认展示图URL，无图时返回占位图
func (p *Product) DefaultImage() string {
	if len(p.Variants) > 0 && len(p.Variants[0].Images) > 0 {
		return p.Variants[0].Images[0].URL
	}
	return "/placeholder.svg"
}

// InCategory 判断商品是否属于指定分类
func (p *Product) InCategory(categoryID string) bool {
	for _, c := range p.Categories {
		if c == categoryID {
			return true
		}
	}
	return false
}

// InCollection 判断商品是否属于指定合集
func (p *Product) InCollection(collectionID string) bool {
	for _, c := range p.Collections {
		if c == collectionID {
			return true
		}
	}
	return false
}

// Category 表示商品分类（只读参考数据）
type Category struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Description    string `json:"description"`
	ParentCategory string `json:"parentCategory,omitempty"`
	Image          string `json:"image"`
	SortOrder      int    `json:"sortOrder"`
}

// Collection 表示商品合集（只读参考数据），显式维护成员商品列表
type Collection struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Type        string   `json:"type"`
	Featured    bool     `json:"featured"`
	Products    []string `json:"products"`
}

// ContentBlock 表示页面内容块（只读参考数据）
type ContentBlock struct {
	ID              string `json:"id"`
	Type            string `json:"type"` // hero | collection_showcase | editorial | product_grid
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle,omitempty"`
	Description     string `json:"description,omitempty"`
	CTAText         string `json:"cta_text"`
	CTALink         string `json:"cta_link"`
	BackgroundImage string `json:"background_image"`
	Position        string `json:"position"`
}

// FilterState 表示商品筛选条件。
// 所有字段均可选，零值字段视为放行；各条件相互独立，按合取组合。
type FilterState struct {
	Category   string    // 分类ID，或 "<gender>-<category>" 形式的复合标记，或 "men"/"women"
	Collection string    // 合集ID
	PriceRange *[2]int64 // [最低价, 最高价]，按展示参考价判断，闭区间
	Colors     []string  // 颜色名（大小写不敏感）
	IsNew      *bool
	IsFeatured *bool
}

// SortKey 商品排序方式
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortNameAZ    SortKey = "name-az"
	SortNameZA    SortKey = "name-za"
)
