package usecase

import (
	"github.com/gosimple/slug"
)

// 名前からURL用のslugを作る（ASCIIに変換し、英数字以外はハイフン）
func slugify(s string) string {
	return slug.Make(s)
}

// 指定があればそれを、無ければ名前から
func normalizeSlug(raw, name string) string {
	if s := slugify(raw); s != "" {
		return s
	}
	return slugify(name)
}
