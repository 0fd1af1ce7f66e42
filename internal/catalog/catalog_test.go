package catalog

import (
	"strings"
	"testing"
)

const sampleCSV = `Handle,Title,Vendor,Variant Price,Tags,Body (HTML)
essential-shock,Essential Shock Intense,Natura Bissé,189.00,reafirmante,"<p>Crema <b>reafirmante</b> con colágeno.</p>"
glow-serum,Glow Sérum,Sisley,95.50,serum,"<p>Sérum iluminador con vitamina C.</p>"
basic-tonic,Tónico Básico,ACME,12,tonico,
`

func TestParseCatalog(t *testing.T) {
	products, err := Parse(strings.NewReader(sampleCSV), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	if products[0].Handle != "essential-shock" {
		t.Errorf("expected handle 'essential-shock', got %q", products[0].Handle)
	}
	if products[0].Vendor != "Natura Bissé" {
		t.Errorf("expected vendor 'Natura Bissé', got %q", products[0].Vendor)
	}
}

func TestParseCatalogLimit(t *testing.T) {
	products, err := Parse(strings.NewReader(sampleCSV), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("expected 2 products, got %d", len(products))
	}
}

func TestParseCatalogBOMHeader(t *testing.T) {
	products, err := Parse(strings.NewReader("\uFEFFHandle,Title\nx,Producto X\n"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if products[0].Handle != "x" {
		t.Errorf("BOM in header not stripped, got handle %q", products[0].Handle)
	}
}

func TestDescriptionStripsHTML(t *testing.T) {
	products, _ := Parse(strings.NewReader(sampleCSV), 0)
	desc, ok := products[0].Description()
	if !ok {
		t.Fatal("expected a description")
	}
	if strings.Contains(desc, "<") {
		t.Errorf("expected HTML stripped, got %q", desc)
	}
	if desc != "Crema reafirmante con colágeno." {
		t.Errorf("unexpected description %q", desc)
	}
}

func TestDescriptionMissing(t *testing.T) {
	products, _ := Parse(strings.NewReader(sampleCSV), 0)
	if _, ok := products[2].Description(); ok {
		t.Error("expected no description for empty column")
	}
}

func TestDescriptionColumnAliases(t *testing.T) {
	for _, col := range []string{"Body HTML", "Body (HTML)", "body_html", "description"} {
		p := NewProduct("h", "T", "V", "10", "", map[string]string{col: "<p>texto</p>"})
		desc, ok := p.Description()
		if !ok || desc != "texto" {
			t.Errorf("column %q: expected 'texto', got %q (ok=%v)", col, desc, ok)
		}
	}
}

func TestPriceValue(t *testing.T) {
	cases := []struct {
		price string
		want  float64
		ok    bool
	}{
		{"189.00", 189, true},
		{"95,50", 95.5, true},
		{"", 0, false},
		{"N/A", 0, false},
	}
	for _, c := range cases {
		p := NewProduct("h", "T", "V", c.price, "", nil)
		got, ok := p.PriceValue()
		if ok != c.ok || got != c.want {
			t.Errorf("PriceValue(%q) = %v, %v; want %v, %v", c.price, got, ok, c.want, c.ok)
		}
	}
}

func TestStripHTMLCollapsesWhitespace(t *testing.T) {
	got := StripHTML("<div>uno\n  <span>dos</span>\t tres</div>")
	if got != "uno dos tres" {
		t.Errorf("got %q", got)
	}
}
