package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// descriptionColumns are the column names a product description may live
// under, tried in order. Shopify exports are inconsistent about this.
var descriptionColumns = []string{"Body HTML", "Body (HTML)", "body_html", "description"}

// Product is a single catalog row.
type Product struct {
	Handle string
	Title  string
	Vendor string
	Price  string
	Tags   string

	fields map[string]string
}

// Field returns the raw value of an arbitrary column.
func (p Product) Field(name string) string {
	return p.fields[name]
}

// Description returns the product description as plain text, trying the
// known column aliases in order. The second return is false when no
// description column is present or all candidates are empty.
func (p Product) Description() (string, bool) {
	for _, col := range descriptionColumns {
		if v, ok := p.fields[col]; ok && strings.TrimSpace(v) != "" {
			return StripHTML(v), true
		}
	}
	return "", false
}

// PriceValue parses the price column. Unparsable or missing prices
// return ok=false, never an error.
func (p Product) PriceValue() (float64, bool) {
	s := strings.TrimSpace(p.Price)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SearchText returns the lowercased concatenation of every field,
// used for keyword scans over the whole record.
func (p Product) SearchText() string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteString(" ")
	b.WriteString(p.Vendor)
	b.WriteString(" ")
	b.WriteString(p.Tags)
	for _, col := range descriptionColumns {
		if v, ok := p.fields[col]; ok {
			b.WriteString(" ")
			b.WriteString(v)
		}
	}
	return strings.ToLower(b.String())
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup and collapses whitespace.
func StripHTML(s string) string {
	text := tagPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(text), " ")
}

// Read loads up to limit products from a CSV catalog. Row order is
// preserved; limit <= 0 means all rows.
func Read(path string, limit int) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Parse(f, limit)
}

// Parse reads products from CSV data with a header row.
func Parse(r io.Reader, limit int) ([]Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading catalog header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	var products []Product
	for {
		if limit > 0 && len(products) >= limit {
			break
		}
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading catalog row %d: %w", len(products)+2, err)
		}

		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				fields[col] = record[i]
			}
		}
		products = append(products, Product{
			Handle: fields["Handle"],
			Title:  fields["Title"],
			Vendor: fields["Vendor"],
			Price:  firstNonEmpty(fields["Variant Price"], fields["Price"]),
			Tags:   fields["Tags"],
			fields: fields,
		})
	}
	return products, nil
}

// NewProduct builds a product from explicit fields, mainly for tests.
func NewProduct(handle, title, vendor, price, tags string, extra map[string]string) Product {
	fields := make(map[string]string, len(extra)+5)
	for k, v := range extra {
		fields[k] = v
	}
	fields["Handle"] = handle
	fields["Title"] = title
	fields["Vendor"] = vendor
	fields["Variant Price"] = price
	fields["Tags"] = tags
	return Product{Handle: handle, Title: title, Vendor: vendor, Price: price, Tags: tags, fields: fields}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
