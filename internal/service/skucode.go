package service

import (
	"fmt"
	"sort"
	"strings"

	"go-variant-inventory/internal/repository"

	"gorm.io/gorm"
)

// VariantOption pairs a sub-variant option with its owning variant's name.
// The variant name participates only in ordering, never in the code itself.
type VariantOption struct {
	VariantName string
	Option      string
}

// normalizeOption strips internal whitespace and uppercases, so "Light Blue"
// becomes "LIGHTBLUE".
func normalizeOption(option string) string {
	return strings.ToUpper(strings.ReplaceAll(option, " ", ""))
}

// buildSKUCode derives the candidate code from the product code and the
// selected options: options are sorted by (variant name, option) so the same
// set yields the same code regardless of input order, then normalized and
// joined with "-". An empty option set yields the product code itself.
func buildSKUCode(productCode string, options []VariantOption) string {
	sorted := make([]VariantOption, len(options))
	copy(sorted, options)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].VariantName != sorted[j].VariantName {
			return sorted[i].VariantName < sorted[j].VariantName
		}
		return sorted[i].Option < sorted[j].Option
	})

	parts := make([]string, len(sorted))
	for i, opt := range sorted {
		parts[i] = normalizeOption(opt.Option)
	}
	if len(parts) == 0 {
		return productCode
	}
	return productCode + "-" + strings.Join(parts, "-")
}

// assignSKUCode resolves the candidate against existing codes inside the
// creating transaction, appending "-1", "-2", ... until an unused code is
// found. The scan-and-insert is not race-free across concurrent creations
// of the same combination; the unique index on sku_code surfaces that as a
// constraint conflict at commit.
func assignSKUCode(tx *gorm.DB, skuRepo repository.SKURepository, productCode string, options []VariantOption) (string, error) {
	base := buildSKUCode(productCode, options)
	code := base
	for suffix := 1; ; suffix++ {
		taken, err := skuRepo.CodeExists(tx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		code = fmt.Sprintf("%s-%d", base, suffix)
	}
}
