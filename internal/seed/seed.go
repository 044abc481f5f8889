package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Catalog は seed ファイル（YAML）の中身
type Catalog struct {
	Categories []CategorySeed `yaml:"categories"`
	Products   []ProductSeed  `yaml:"products"`
	Banners    []BannerSeed   `yaml:"banners"`
}

type CategorySeed struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type ProductSeed struct {
	Name             string   `yaml:"name"`
	Slug             string   `yaml:"slug"`
	Category         string   `yaml:"category"` // カテゴリのslug
	Description      string   `yaml:"description"`
	ShortDescription string   `yaml:"shortDescription"`
	OriginalPrice    string   `yaml:"originalPrice"`
	DiscountPrice    string   `yaml:"discountPrice"`
	StockQuantity    int64    `yaml:"stockQuantity"`
	Inactive         bool     `yaml:"inactive"`
	Featured         bool     `yaml:"featured"`
	RecentlyAdded    bool     `yaml:"recentlyAdded"`
	SKU              string   `yaml:"sku"`
	SortOrder        int      `yaml:"sortOrder"`
	Images           []string `yaml:"images"`
}

type BannerSeed struct {
	ImageURL  string `yaml:"imageUrl"`
	Alt       string `yaml:"alt"`
	Title     string `yaml:"title"`
	Subtitle  string `yaml:"subtitle"`
	Href      string `yaml:"href"`
	SortOrder int    `yaml:"sortOrder"`
}

type Repos struct {
	Categories repo.CategoryRepository
	Products   repo.ProductRepository
	Banners    repo.BannerRepository
}

// Result は作成件数（既存はスキップ）
type Result struct {
	Categories int
	Products   int
	Banners    int
	Skipped    int
}

// Parse はYAMLを読み込んで最低限の検証をする
func Parse(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return Catalog{}, errors.New("seed file is empty")
		}
		return Catalog{}, fmt.Errorf("decode seed: %w", err)
	}

	for i, cat := range c.Categories {
		if strings.TrimSpace(cat.Name) == "" || strings.TrimSpace(cat.Slug) == "" {
			return Catalog{}, fmt.Errorf("categories[%d]: name and slug are required", i)
		}
	}
	for i, p := range c.Products {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Slug) == "" {
			return Catalog{}, fmt.Errorf("products[%d]: name and slug are required", i)
		}
		if p.Category == "" {
			return Catalog{}, fmt.Errorf("products[%d]: category is required", i)
		}
		if p.StockQuantity < 0 {
			return Catalog{}, fmt.Errorf("products[%d]: stockQuantity must be >= 0", i)
		}
		if _, _, err := p.prices(); err != nil {
			return Catalog{}, fmt.Errorf("products[%d]: %w", i, err)
		}
	}
	for i, b := range c.Banners {
		if strings.TrimSpace(b.ImageURL) == "" {
			return Catalog{}, fmt.Errorf("banners[%d]: imageUrl is required", i)
		}
	}
	return c, nil
}

func (p ProductSeed) prices() (decimal.Decimal, *decimal.Decimal, error) {
	original, err := decimal.NewFromString(p.OriginalPrice)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("invalid originalPrice %q", p.OriginalPrice)
	}
	if original.IsNegative() {
		return decimal.Zero, nil, errors.New("originalPrice must be >= 0")
	}
	if p.DiscountPrice == "" {
		return original, nil, nil
	}
	discount, err := decimal.NewFromString(p.DiscountPrice)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("invalid discountPrice %q", p.DiscountPrice)
	}
	if discount.IsNegative() {
		return decimal.Zero, nil, errors.New("discountPrice must be >= 0")
	}
	return original, &discount, nil
}

// Load はslugで既存チェックしながら投入する（何度流しても同じ結果）
func Load(ctx context.Context, c Catalog, r Repos, logger *slog.Logger) (Result, error) {
	var res Result
	categoryIDs := make(map[string]int64, len(c.Categories))

	for _, cs := range c.Categories {
		existing, err := r.Categories.FindBySlug(ctx, cs.Slug)
		if err == nil {
			categoryIDs[cs.Slug] = existing.ID
			res.Skipped++
			continue
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return res, fmt.Errorf("find category %q: %w", cs.Slug, err)
		}
		created, err := r.Categories.Create(ctx, model.Category{Name: cs.Name, Slug: cs.Slug})
		if err != nil {
			return res, fmt.Errorf("create category %q: %w", cs.Slug, err)
		}
		categoryIDs[cs.Slug] = created.ID
		res.Categories++
	}

	for _, ps := range c.Products {
		if _, err := r.Products.FindBySlug(ctx, ps.Slug); err == nil {
			res.Skipped++
			continue
		} else if !errors.Is(err, repo.ErrNotFound) {
			return res, fmt.Errorf("find product %q: %w", ps.Slug, err)
		}

		categoryID, ok := categoryIDs[ps.Category]
		if !ok {
			//ファイル外で作られたカテゴリも許す
			cat, err := r.Categories.FindBySlug(ctx, ps.Category)
			if err != nil {
				return res, fmt.Errorf("product %q: category %q: %w", ps.Slug, ps.Category, err)
			}
			categoryID = cat.ID
			categoryIDs[ps.Category] = cat.ID
		}

		original, discount, err := ps.prices()
		if err != nil {
			return res, fmt.Errorf("product %q: %w", ps.Slug, err)
		}

		p := model.Product{
			Name:             ps.Name,
			Slug:             ps.Slug,
			Description:      ps.Description,
			ShortDescription: ps.ShortDescription,
			OriginalPrice:    original,
			DiscountPrice:    discount,
			StockQuantity:    ps.StockQuantity,
			IsActive:         !ps.Inactive,
			IsFeatured:       ps.Featured,
			IsRecentlyAdded:  ps.RecentlyAdded,
			SKU:              ps.SKU,
			SortOrder:        ps.SortOrder,
			CategoryID:       categoryID,
		}
		for i, url := range ps.Images {
			p.Images = append(p.Images, model.ProductImage{URL: url, SortOrder: i})
		}
		if _, err := r.Products.Create(ctx, p); err != nil {
			return res, fmt.Errorf("create product %q: %w", ps.Slug, err)
		}
		res.Products++
	}

	//バナーは自然キーが無いので、1件でもあれば投入しない
	if len(c.Banners) > 0 {
		existing, err := r.Banners.List(ctx, false)
		if err != nil {
			return res, fmt.Errorf("list banners: %w", err)
		}
		if len(existing) > 0 {
			res.Skipped += len(c.Banners)
		} else {
			for _, bs := range c.Banners {
				_, err := r.Banners.Create(ctx, model.Banner{
					ImageURL:  bs.ImageURL,
					Alt:       bs.Alt,
					Title:     bs.Title,
					Subtitle:  bs.Subtitle,
					Href:      bs.Href,
					SortOrder: bs.SortOrder,
					IsActive:  true,
				})
				if err != nil {
					return res, fmt.Errorf("create banner: %w", err)
				}
				res.Banners++
			}
		}
	}

	logger.Info("seed loaded",
		"categories", res.Categories, "products", res.Products, "banners", res.Banners, "skipped", res.Skipped)
	return res, nil
}
