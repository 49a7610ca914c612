package usecase

import "testing"

func TestResolveBrand(t *testing.T) {
	r := NewBrandResolver()

	tests := []struct {
		name     string
		prodName string
		explicit string
		url      string
		expected string
	}{
		{"explicit field wins", "สีน้ำ TOA ชิลด์วัน 1 GAL", "Beger", "", "BEGER"},
		{"explicit trimmed and uppercased", "อะไรก็ได้", "  toa ", "", "TOA"},
		{"known brand in name", "สีทาบ้าน TOA ซุปเปอร์ชิลด์ 1 แกลลอน", "", "", "TOA"},
		{"longest brand wins", "ชั้นวางของ GIANT KINGKONG 4 ชั้น", "", "", "GIANT KINGKONG"},
		{"thai brand in name", "กาวซีเมนต์ จระเข้ 20 กก.", "", "", "จระเข้"},
		{"boonthavorn slug", "โคมไฟ", "", "https://www.boonthavorn.com/lamptan-downlight-9w", "LAMPTAN"},
		{"boonthavorn unknown slug", "โคมไฟ", "", "https://www.boonthavorn.com/zzz-downlight", ""},
		{"homepro branded slug", "ชั้นวาง", "", "https://www.homepro.co.th/p/stacko-shelf-4", "STACKO"},
		{"homepro default", "ชั้นวาง", "", "https://www.homepro.co.th/p/shelf-1159", "HOMEPRO"},
		{"dohome branded url", "หลอดไฟ", "", "https://www.dohome.co.th/lamptan-led-bulb", "LAMPTAN"},
		{"dohome default", "หลอดไฟ", "", "https://www.dohome.co.th/product/10233", "DOHOME"},
		{"globalhouse default", "ท่อ PVC", "", "https://www.globalhouse.co.th/product/pipe", "GLOBALHOUSE"},
		{"nothing resolves", "ชั้นวางของพลาสติก", "", "", ""},
		{"name scan beats url", "หลอดไฟ PHILIPS LED 9W", "", "https://www.homepro.co.th/p/bulb-1", "PHILIPS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ResolveBrand(tt.prodName, tt.explicit, tt.url)
			if got != tt.expected {
				t.Errorf("ResolveBrand(%q, %q, %q) = %q, want %q", tt.prodName, tt.explicit, tt.url, got, tt.expected)
			}
		})
	}
}

func TestResolveCategory(t *testing.T) {
	r := NewBrandResolver()

	tests := []struct {
		prodName string
		expected string
	}{
		{"สีน้ำอะคริลิก TOA 1 GAL", "PAINT"},
		{"สีรองพื้นปูนใหม่ 1 แกลลอน", "PRIMER"},
		{"ลูกบิดประตูห้องน้ำ", "DOOR"},
		{"มือจับสแตนเลส", "HANDLE"},
		{"หลอดไฟ LED 9W", "LIGHT_BULB"},
		{"ท่อ PVC 4 นิ้ว", "PIPE"},
		{"บันไดอลูมิเนียม 6 ขั้น", "LADDER"},
		{"ปั๊มน้ำอัตโนมัติ 250W", "PUMP"},
		{"ชั้นวางของพลาสติก", "OTHER"},
	}

	for _, tt := range tests {
		t.Run(tt.expected+"/"+tt.prodName, func(t *testing.T) {
			if got := r.ResolveCategory(tt.prodName); got != tt.expected {
				t.Errorf("ResolveCategory(%q) = %q, want %q", tt.prodName, got, tt.expected)
			}
		})
	}
}
