package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shelfmatch/backend/internal/domain"
)

// Field aliases seen across retailer exports. Resolution is first hit in
// order, case-insensitive.
var (
	nameAliases     = []string{"name", "product_name", "product name"}
	priceAliases    = []string{"current_price", "price", "sale_price", "selling_price"}
	brandAliases    = []string{"brand"}
	categoryAliases = []string{"category", "product_category"}
	urlAliases      = []string{"url", "product_url", "link"}
	retailerAliases = []string{"retailer", "store"}
	imageAliases    = []string{"image", "image_url", "imageurl"}
	modelAliases    = []string{"model", "sku"}
)

// Loader reads product catalogs, brand preference tables and ground-truth
// mappings from retailer export files.
type Loader struct{}

var _ domain.CatalogRepository = (*Loader)(nil)

// NewLoader creates a catalog loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a catalog from a JSON or CSV export, resolving field aliases
// to the five logical product fields plus the optional extras.
func (l *Loader) Load(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(f)
	default:
		return readJSON(f)
	}
}

// readJSON accepts a bare array of records or an object wrapping one under
// "products" or "data".
func readJSON(r io.Reader) ([]domain.Product, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		inner, ok := wrapper["products"]
		if !ok {
			inner, ok = wrapper["data"]
		}
		if !ok {
			return nil, fmt.Errorf("parse catalog: no products or data array")
		}
		if err := json.Unmarshal(inner, &records); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	}

	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, productFromRecord(rec))
	}
	return products, nil
}

func readCSV(r io.Reader) ([]domain.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse catalog csv: %w", err)
	}
	if len(rows) < 1 {
		return nil, nil
	}

	header := rows[0]
	products := make([]domain.Product, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		products = append(products, productFromRecord(rec))
	}
	return products, nil
}

func productFromRecord(rec map[string]any) domain.Product {
	return domain.Product{
		Name:     stringField(rec, nameAliases),
		Price:    priceField(rec),
		Brand:    stringField(rec, brandAliases),
		Category: stringField(rec, categoryAliases),
		URL:      domain.CanonicalURL(stringField(rec, urlAliases)),
		Retailer: stringField(rec, retailerAliases),
		Model:    stringField(rec, modelAliases),
		ImageURL: stringField(rec, imageAliases),
	}
}

// stringField resolves the first alias present in the record with a
// non-empty value, matching keys case-insensitively.
func stringField(rec map[string]any, aliases []string) string {
	for _, alias := range aliases {
		for key, val := range rec {
			if !strings.EqualFold(key, alias) {
				continue
			}
			if s := valueString(val); s != "" {
				return s
			}
		}
	}
	return ""
}

func priceField(rec map[string]any) float64 {
	for _, alias := range priceAliases {
		for key, val := range rec {
			if !strings.EqualFold(key, alias) {
				continue
			}
			if p, ok := parsePrice(val); ok {
				return p
			}
		}
	}
	return 0
}

func valueString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

// parsePrice tolerates currency symbols and thousands separators.
func parsePrice(v any) (float64, bool) {
	switch p := v.(type) {
	case float64:
		return p, true
	case string:
		cleaned := strings.NewReplacer(",", "", "฿", "", " ", "").Replace(strings.TrimSpace(p))
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// LoadPreferenceTable reads the retailer -> source brand -> preferred
// target brands mapping. An empty path yields an empty table: preferences
// are optional everywhere.
func (l *Loader) LoadPreferenceTable(path string) (domain.BrandPreferenceTable, error) {
	if path == "" {
		return domain.BrandPreferenceTable{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open preference table: %w", err)
	}
	var table domain.BrandPreferenceTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse preference table: %w", err)
	}
	return table, nil
}

// LoadGroundTruth reads a source URL -> expected target URL mapping from a
// hand-maintained CSV. The link columns are sniffed from the header: the
// reference catalog's column first, then the competitor's, falling back to
// the first two columns whose name contains "link".
func (l *Loader) LoadGroundTruth(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ground truth: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse ground truth: %w", err)
	}
	if len(rows) < 2 {
		return map[string]string{}, nil
	}

	sourceCol, targetCol := sniffLinkColumns(rows[0])
	if sourceCol < 0 || targetCol < 0 {
		return nil, fmt.Errorf("parse ground truth: no link columns in header %v", rows[0])
	}

	gt := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		if sourceCol >= len(row) || targetCol >= len(row) {
			continue
		}
		src := domain.CanonicalURL(row[sourceCol])
		tgt := domain.CanonicalURL(row[targetCol])
		if src == "" || tgt == "" {
			continue
		}
		gt[src] = tgt
	}
	return gt, nil
}

var competitorColumnHints = []string{"homepro", "globalhouse", "dohome", "megahome", "boonthavorn"}

func sniffLinkColumns(header []string) (source, target int) {
	source, target = -1, -1

	for i, col := range header {
		lower := strings.ToLower(col)
		if !strings.Contains(lower, "link") {
			continue
		}
		if strings.Contains(lower, "thaiwatsadu") {
			source = i
		}
	}
	for i, col := range header {
		lower := strings.ToLower(col)
		if !strings.Contains(lower, "link") {
			continue
		}
		for _, hint := range competitorColumnHints {
			if strings.Contains(lower, hint) {
				target = i
			}
		}
	}

	// Fall back to positional link columns.
	for i, col := range header {
		if !strings.Contains(strings.ToLower(col), "link") {
			continue
		}
		if source < 0 {
			source = i
		} else if target < 0 && i != source {
			target = i
		}
	}
	return source, target
}
