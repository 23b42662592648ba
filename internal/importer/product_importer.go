package importer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/prostore/prostore-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Columns every product sheet must carry. Header matching ignores case and
// surrounding space.
var requiredColumns = []string{"name", "category", "brand", "description", "price"}

var (
	slugInvalid = regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Summary counts what happened to the sheet's data rows.
type Summary struct {
	Rows       int
	Valid      int
	Skipped    int
	Duplicates int
}

// ReadProducts parses the first sheet of an xlsx workbook into products.
// Rows missing a required value or carrying an unparsable number are
// skipped. A later row with an already seen slug is dropped.
func ReadProducts(r io.Reader) ([]model.Product, Summary, error) {
	var summary Summary

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, summary, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, summary, fmt.Errorf("no data found in XLSX file")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, summary, fmt.Errorf("missing column %q", name)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var products []model.Product
	seen := make(map[string]bool)

	for _, row := range rows[1:] {
		summary.Rows++

		product, ok := parseRow(func(name string) string { return cell(row, name) })
		if !ok {
			summary.Skipped++
			continue
		}
		if seen[product.Slug] {
			summary.Duplicates++
			continue
		}
		seen[product.Slug] = true
		products = append(products, product)
	}

	summary.Valid = len(products)
	return products, summary, nil
}

func parseRow(get func(string) string) (model.Product, bool) {
	name := get("name")
	category := get("category")
	brand := get("brand")
	description := get("description")
	if name == "" || category == "" || brand == "" || description == "" {
		return model.Product{}, false
	}

	price, err := decimal.NewFromString(get("price"))
	if err != nil || price.IsNegative() {
		return model.Product{}, false
	}

	stock := 0
	if raw := get("stock"); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return model.Product{}, false
		}
	}

	featured := false
	if raw := get("is_featured"); raw != "" {
		featured, err = strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return model.Product{}, false
		}
	}

	slug := get("slug")
	if slug == "" {
		slug = GenerateSlug(name)
	}

	images := []string{}
	for _, image := range strings.Split(get("images"), ",") {
		if image = strings.TrimSpace(image); image != "" {
			images = append(images, image)
		}
	}

	product := model.Product{
		Name:        name,
		Slug:        slug,
		Category:    category,
		Brand:       brand,
		Description: description,
		Price:       price.Round(2),
		Stock:       stock,
		Images:      images,
		IsFeatured:  featured,
	}
	if banner := get("banner"); banner != "" {
		product.Banner = &banner
	}
	return product, true
}

// GenerateSlug lowercases name and joins its words with hyphens.
func GenerateSlug(name string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(name), "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
