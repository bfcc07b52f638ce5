// Package catalog 实现商品目录：数据加载、查询、筛选、排序、分页与搜索。
// 目录数据来自打包的JSON文件，启动时一次性加载，进程生命周期内只读。
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/domain"
)

// Store 表示内存中的商品目录。
// 加载完成后不可变，可被任意多个读取方并发访问。
type Store struct {
	products      []domain.Product
	categories    []domain.Category
	collections   []domain.Collection
	contentBlocks []domain.ContentBlock

	productByID      map[string]*domain.Product
	productBySlug    map[string]*domain.Product
	categoryByID     map[string]*domain.Category
	categoryBySlug   map[string]*domain.Category
	collectionByID   map[string]*domain.Collection
	collectionBySlug map[string]*domain.Collection
}

// Load 从目录数据文件加载Store。
// 期望 dir 下存在 products.json、categories.json、collections.json、content-blocks.json。
func Load(dir string, lg *zap.Logger) (*Store, error) {
	s := &Store{}

	if err := loadJSON(filepath.Join(dir, "products.json"), &s.products); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if err := loadJSON(filepath.Join(dir, "categories.json"), &s.categories); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if err := loadJSON(filepath.Join(dir, "collections.json"), &s.collections); err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}
	if err := loadJSON(filepath.Join(dir, "content-blocks.json"), &s.contentBlocks); err != nil {
		return nil, fmt.Errorf("load content blocks: %w", err)
	}

	if err := s.buildIndexes(); err != nil {
		return nil, err
	}

	lg.Info("catalog loaded",
		zap.Int("products", len(s.products)),
		zap.Int("categories", len(s.categories)),
		zap.Int("collections", len(s.collections)),
		zap.Int("content_blocks", len(s.contentBlocks)),
	)
	return s, nil
}

func loadJSON(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// buildIndexes 建立ID和slug索引并校验目录数据的不变式
func (s *Store) buildIndexes() error {
	s.productByID = make(map[string]*domain.Product, len(s.products))
	s.productBySlug = make(map[string]*domain.Product, len(s.products))
	for i := range s.products {
		p := &s.products[i]
		if len(p.Variants) == 0 {
			return fmt.Errorf("product %s has no variants", p.ID)
		}
		if _, dup := s.productByID[p.ID]; dup {
			return fmt.Errorf("duplicate product id %s", p.ID)
		}
		if _, dup := s.productBySlug[p.Slug]; dup {
			return fmt.Errorf("duplicate product slug %s", p.Slug)
		}
		s.productByID[p.ID] = p
		s.productBySlug[p.Slug] = p
	}

	s.categoryByID = make(map[string]*domain.Category, len(s.categories))
	s.categoryBySlug = make(map[string]*domain.Category, len(s.categories))
	for i := range s.categories {
		c := &s.categories[i]
		s.categoryByID[c.ID] = c
		s.categoryBySlug[c.Slug] = c
	}

	s.collectionByID = make(map[string]*domain.Collection, len(s.collections))
	s.collectionBySlug = make(map[string]*domain.Collection, len(s.collections))
	for i := range s.collections {
		c := &s.collections[i]
		s.collectionByID[c.ID] = c
		s.collectionBySlug[c.Slug] = c
	}
	return nil
}

// Products 返回全部商品（调用方不得修改）
func (s *Store) Products() []domain.Product {
	return s.products
}

// Categories 返回全部分类
func (s *Store) Categories() []domain.Category {
	return s.categories
}

// Collections 返回全部合集
func (s *Store) Collections() []domain.Collection {
	return s.collections
}

// ProductByID 按ID查询商品，未命中返回nil
func (s *Store) ProductByID(id string) *domain.Product {
	return s.productByID[id]
}

// ProductBySlug 按slug查询商品，未命中返回nil
func (s *Store) ProductBySlug(slug string) *domain.Product {
	return s.productBySlug[slug]
}

// CategoryByID 按ID查询分类，未命中返回nil
func (s *Store) CategoryByID(id string) *domain.Category {
	return s.categoryByID[id]
}

// CategoryBySlug 按slug查询分类，未命中返回nil
func (s *Store) CategoryBySlug(slug string) *domain.Category {
	return s.categoryBySlug[slug]
}

// CollectionByID 按ID查询合集，未命中返回nil
func (s *Store) CollectionByID(id string) *domain.Collection {
	return s.collectionByID[id]
}

// CollectionBySlug 按slug查询合集，未命中返回nil
func (s *Store) CollectionBySlug(slug string) *domain.Collection {
	return s.collectionBySlug[slug]
}

// ProductsByCategory 返回指定分类下的商品
func (s *Store) ProductsByCategory(categoryID string) []domain.Product {
	var out []domain.Product
	for _, p := range s.products {
		if p.InCategory(categoryID) {
			out = append(out, p)
		}
	}
	return out
}

// ProductsByCollection 返回指定合集的成员商品，按合集声明顺序之外的目录顺序返回
func (s *Store) ProductsByCollection(collectionID string) []domain.Product {
	col := s.collectionByID[collectionID]
	if col == nil {
		return nil
	}
	member := make(map[string]bool, len(col.Products))
	for _, id := range col.Products {
		member[id] = true
	}
	var out []domain.Product
	for _, p := range s.products {
		if member[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// FeaturedProducts 返回精选商品。
// 数据模型中没有精选标记，以标题关键词（sport/arrival）启发式判定。
func (s *Store) FeaturedProducts() []domain.Product {
	var out []domain.Product
	for _, p := range s.products {
		if isFeaturedProduct(&p) {
			out = append(out, p)
		}
	}
	return out
}

// NewProducts 返回新品（标题含 arrival 的商品）
func (s *Store) NewProducts() []domain.Product {
	var out []domain.Product
	for _, p := range s.products {
		if isNewProduct(&p) {
			out = append(out, p)
		}
	}
	return out
}

// ContentBlocksByPosition 返回指定页面位置的内容块
func (s *Store) ContentBlocksByPosition(position string) []domain.ContentBlock {
	var out []domain.ContentBlock
	for _, b := range s.contentBlocks {
		if b.Position == position {
			out = append(out, b)
		}
	}
	return out
}

// isNewProduct 新品启发式：标题包含 "arrival"
func isNewProduct(p *domain.Product) bool {
	return strings.Contains(strings.ToLower(p.Title), "arrival")
}

// isFeaturedProduct 精选启发式：标题包含 "sport" 或 "arrival"
func isFeaturedProduct(p *domain.Product) bool {
	title := strings.ToLower(p.Title)
	return strings.Contains(title, "sport") || strings.Contains(title, "arrival")
}
