package usecase

import (
	"testing"
)

func TestExtract_NamedSpecs(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name     string
		input    string
		key      string
		expected string
	}{
		{"wattage from W suffix", "หลอดไฟ LED 15W Daylight", SpecWattage, "15W"},
		{"wattage from Thai unit", "หลอดไฟ 9 วัตต์", SpecWattage, "9W"},
		{"fractional wattage preserved", "หลอด LED 7.5W", SpecWattage, "7.5W"},
		{"volume litres Thai", "สีน้ำอะคริลิก 9 ลิตร", SpecVolume, "9 L"},
		{"volume gallon misspelling", "สีทาบ้าน 1 แกลอน", SpecVolume, "1 GAL"},
		{"volume millilitres", "น้ำยาทำความสะอาด 900 ML", SpecVolume, "900 ML"},
		{"hose diameter fraction", "สายยาง PVC 5/8 นิ้ว 20 เมตร", SpecHoseDiameter, "5/8 INCH"},
		{"size in inches", "พัดลมตั้งพื้น 16 นิ้ว", SpecSizeInch, "16 INCH"},
		{"dimensions", "กระเบื้อง 30x60 ซม.", SpecDimensions, "30x60"},
		{"socket with count", "โคมไฟเพดาน E27x3", SpecSocket, "E27x3"},
		{"socket default count", "ขั้วหลอด E14", SpecSocket, "E14x1"},
		{"length metres", "รางปลั๊กไฟ 3 เมตร", SpecLength, "3M"},
		{"tiers", "ชั้นวางของ 4 ชั้น", SpecTiers, "4"},
		{"lines", "ราวตากผ้า 3 ราว", SpecLines, "3"},
		{"steps", "บันไดอลูมิเนียม 6 ขั้น", SpecSteps, "6"},
		{"pack count", "หลอดไฟ แพ็ค 4 หลอด", SpecPackCount, "4"},
		{"color temp daylight", "หลอด LED 13W DL", SpecColorTemp, "DAYLIGHT"},
		{"color temp warm", "หลอดไฟ WARM WHITE", SpecColorTemp, "WARMWHITE"},
		{"no brake before brake", "ลูกล้อ PP ไม่มีเบรก", SpecBrake, BrakeAbsent},
		{"brake present", "ลูกล้อยาง มีเบรก 2 นิ้ว", SpecBrake, BrakePresent},
		{"roller refill", "ไส้ลูกกลิ้งทาสี 4 นิ้ว", SpecRollerType, RollerRefill},
		{"roller full set", "ลูกกลิ้งทาสี พร้อมด้าม 10 นิ้ว", SpecRollerType, RollerFull},
		{"ladder folding", "บันไดพับอลูมิเนียม 5 ขั้น", SpecLadderType, LadderFolding},
		{"ladder extension", "บันไดสไลด์ 2 ตอน", SpecLadderType, LadderExtension},
		{"ladder two sided", "บันไดขึ้นลง 2 ด้าน 6 ขั้น", SpecLadderDirection, LadderTwoSided},
		{"lamp downlight", "ดาวน์ไลท์ LED 9W", SpecLampType, LampDownlight},
		{"lamp flood", "สปอร์ตไลท์ LED 50W", SpecLampType, LampFlood},
		{"knob bathroom", "ลูกบิดประตูห้องน้ำ สแตนเลส", SpecKnobRoom, KnobBathroom},
		{"model code", "สว่านไฟฟ้า MAKITA HP1630 13MM", SpecModel, "HP1630"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := e.Extract(tt.input)
			got, ok := set.Specs[tt.key]
			if !ok {
				t.Fatalf("Extract(%q): key %q missing, got %v", tt.input, tt.key, set.Specs)
			}
			if got != tt.expected {
				t.Errorf("Extract(%q)[%s] = %q, want %q", tt.input, tt.key, got, tt.expected)
			}
		})
	}
}

func TestExtract_HoseDiameterPrecedesSizeInch(t *testing.T) {
	e := NewExtractor()
	set := e.Extract("สายยาง 1/2 นิ้ว ยาว 10 เมตร")
	if got := set.Specs[SpecHoseDiameter]; got != "1/2 INCH" {
		t.Errorf("hose_diameter = %q, want %q", got, "1/2 INCH")
	}
	if _, ok := set.Specs[SpecSizeInch]; ok {
		t.Error("size_inch should not be set when hose_diameter claims the fraction")
	}
}

func TestExtract_Identifiers(t *testing.T) {
	e := NewExtractor()

	t.Run("model codes kept, material codes dropped", func(t *testing.T) {
		set := e.Extract("ท่อ PVC ตราช้าง SCG-100 ขนาด 4 นิ้ว")
		want := []string{"SCG-100"}
		if len(set.Identifiers) != len(want) {
			t.Fatalf("identifiers = %v, want %v", set.Identifiers, want)
		}
		for i, id := range want {
			if set.Identifiers[i] != id {
				t.Errorf("identifiers[%d] = %q, want %q", i, set.Identifiers[i], id)
			}
		}
	})

	t.Run("duplicates removed", func(t *testing.T) {
		set := e.Extract("ปั๊มน้ำ WM-P250 รุ่น WM-P250")
		if len(set.Identifiers) != 1 {
			t.Errorf("identifiers = %v, want single entry", set.Identifiers)
		}
	})
}

func TestExtract_NumericValues(t *testing.T) {
	e := NewExtractor()
	set := e.Extract("สายยาง 1/2 นิ้ว ยาว 10 เมตร")

	var gotHalf, gotTen bool
	for _, nv := range set.NumericValues {
		if nv.Value == 0.5 && nv.Unit == "INCH" {
			gotHalf = true
		}
		if nv.Value == 10 && nv.Unit == "M" {
			gotTen = true
		}
	}
	if !gotHalf {
		t.Errorf("numeric values %v missing 0.5 INCH", set.NumericValues)
	}
	if !gotTen {
		t.Errorf("numeric values %v missing 10 M", set.NumericValues)
	}
}

func TestExtract_EmptyName(t *testing.T) {
	e := NewExtractor()
	set := e.Extract("")
	if len(set.Specs) != 0 || len(set.Identifiers) != 0 || len(set.NumericValues) != 0 {
		t.Errorf("Extract(\"\") should be empty, got %+v", set)
	}
}

func TestSpecValueNumber(t *testing.T) {
	tests := []struct {
		value    string
		expected float64
		ok       bool
	}{
		{"15W", 15, true},
		{"1/2 INCH", 0.5, true},
		{"9 L", 9, true},
		{"7.5W", 7.5, true},
		{"DAYLIGHT", 0, false},
	}
	for _, tt := range tests {
		got, ok := specValueNumber(tt.value)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("specValueNumber(%q) = (%v, %v), want (%v, %v)", tt.value, got, ok, tt.expected, tt.ok)
		}
	}
}
