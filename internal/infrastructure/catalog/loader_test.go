package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_JSONArray(t *testing.T) {
	path := writeFile(t, "catalog.json", `[
		{"name": "หลอดไฟ LED 15W", "price": 99.0, "brand": "EVE", "url": "https://x.example/a?ref=1"},
		{"product_name": "สีน้ำ TOA 1 GAL", "current_price": "1,250", "product_url": "https://x.example/b/"}
	]`)

	products, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("len = %d, want 2", len(products))
	}

	if products[0].Name != "หลอดไฟ LED 15W" || products[0].Price != 99 || products[0].Brand != "EVE" {
		t.Errorf("products[0] = %+v", products[0])
	}
	if products[0].URL != "https://x.example/a" {
		t.Errorf("URL not canonicalized: %q", products[0].URL)
	}
	if products[1].Name != "สีน้ำ TOA 1 GAL" {
		t.Errorf("product_name alias not resolved: %+v", products[1])
	}
	if products[1].Price != 1250 {
		t.Errorf("comma-separated price = %v, want 1250", products[1].Price)
	}
	if products[1].URL != "https://x.example/b" {
		t.Errorf("trailing slash kept: %q", products[1].URL)
	}
}

func TestLoad_JSONWrapped(t *testing.T) {
	for _, wrapper := range []string{"products", "data"} {
		t.Run(wrapper, func(t *testing.T) {
			path := writeFile(t, "catalog.json",
				`{"`+wrapper+`": [{"name": "ท่อ PVC 4 นิ้ว", "price": 120}]}`)
			products, err := NewLoader().Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(products) != 1 || products[0].Name != "ท่อ PVC 4 นิ้ว" {
				t.Errorf("products = %+v", products)
			}
		})
	}
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "catalog.csv",
		"Product Name,selling_price,store,link\n"+
			"บันไดอลูมิเนียม 6 ขั้น,2500,HomePro,https://x.example/ladder?utm=9\n")

	products, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("len = %d, want 1", len(products))
	}
	p := products[0]
	if p.Name != "บันไดอลูมิเนียม 6 ขั้น" || p.Price != 2500 || p.Retailer != "HomePro" {
		t.Errorf("product = %+v", p)
	}
	if p.URL != "https://x.example/ladder" {
		t.Errorf("URL = %q", p.URL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadPreferenceTable(t *testing.T) {
	path := writeFile(t, "prefs.json",
		`{"HomePro": {"LAMPTAN": ["EVE", "PHILIPS"]}}`)

	table, err := NewLoader().LoadPreferenceTable(path)
	if err != nil {
		t.Fatalf("LoadPreferenceTable() error = %v", err)
	}
	got := table.Preferred("HomePro", "LAMPTAN")
	if len(got) != 2 || got[0] != "EVE" {
		t.Errorf("Preferred = %v", got)
	}
	if table.Preferred("DoHome", "LAMPTAN") != nil {
		t.Error("unknown retailer should have no preference")
	}
}

func TestLoadPreferenceTable_EmptyPath(t *testing.T) {
	table, err := NewLoader().LoadPreferenceTable("")
	if err != nil {
		t.Fatalf("empty path should not error: %v", err)
	}
	if table.Preferred("HomePro", "TOA") != nil {
		t.Error("empty table should have no preferences")
	}
}

func TestLoadGroundTruth(t *testing.T) {
	path := writeFile(t, "gt.csv",
		"No,Thaiwatsadu Link,Product,HomePro Link\n"+
			"1,https://twd.example/a?ref=2,foo,https://hp.example/a/\n"+
			"2,,bar,https://hp.example/b\n"+
			"3,https://twd.example/c,baz,\n")

	gt, err := NewLoader().LoadGroundTruth(path)
	if err != nil {
		t.Fatalf("LoadGroundTruth() error = %v", err)
	}
	if len(gt) != 1 {
		t.Fatalf("len = %d, want 1 (rows missing either link are dropped)", len(gt))
	}
	if gt["https://twd.example/a"] != "https://hp.example/a" {
		t.Errorf("gt = %v", gt)
	}
}

func TestLoadGroundTruth_PositionalFallback(t *testing.T) {
	path := writeFile(t, "gt.csv",
		"source link,target link\n"+
			"https://twd.example/a,https://hp.example/a\n")

	gt, err := NewLoader().LoadGroundTruth(path)
	if err != nil {
		t.Fatalf("LoadGroundTruth() error = %v", err)
	}
	if gt["https://twd.example/a"] != "https://hp.example/a" {
		t.Errorf("gt = %v", gt)
	}
}
