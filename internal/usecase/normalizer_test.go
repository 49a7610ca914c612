package usecase

import (
	"testing"

	"github.com/shelfmatch/backend/internal/infrastructure/cache"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty input", "", ""},
		{"upper cases and trims", "  toa SuperShield  ", "TOA SUPERSHIELD"},
		{"volume unit folds", "สีน้ำ 1 แกลลอน", "สีน้ำ 1 GAL"},
		{"misspelled gallon folds", "สีทาบ้าน 1 แกลอน", "สีทาบ้าน 1 GAL"},
		{"litre folds", "น้ำยา 5 ลิตร", "น้ำยา 5 L"},
		{"centimetre before metre", "กระเบื้อง 30 ซม.", "กระเบื้อง 30 CM"},
		{"millilitre before metre", "น้ำยา 900 มล.", "น้ำยา 900 ML"},
		{"metre folds", "สายไฟ 10 เมตร", "สายไฟ 10 M"},
		{"inch folds", "พัดลม 16 นิ้ว", "พัดลม 16 INCH"},
		{"watt folds", "หลอดไฟ 9 วัตต์", "หลอดไฟ 9 W"},
		{"sheen vocabulary folds", "สีน้ำ ชนิดกึ่งเงา", "สีน้ำ ชนิดSEMI-GLOSS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer(nil)

	inputs := []string{
		"",
		"สีน้ำ TOA 1 แกลลอน กึ่งเงา",
		"หลอดไฟ LED 15 วัตต์ E27",
		"สายยาง 1/2 นิ้ว 20 เมตร",
		"Already Normalized 5 L",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		if twice := n.Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestNormalize_UsesCache(t *testing.T) {
	lru := cache.NewTextLRU(16)
	n := NewNormalizer(lru)

	first := n.Normalize("สีน้ำ 1 แกลลอน")
	second := n.Normalize("สีน้ำ 1 แกลลอน")
	if first != second {
		t.Errorf("cached result differs: %q vs %q", first, second)
	}
	if lru.Len() == 0 {
		t.Error("normalization result was not cached")
	}
}
