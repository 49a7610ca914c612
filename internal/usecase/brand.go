package usecase

import (
	"regexp"
	"sort"
	"strings"
)

// knownBrands covers the house and national brands seen across the retail
// catalogs. Matched longest-first so "GIANT KINGKONG" beats "KING".
var knownBrands = []string{
	"LUZINO", "GIANT KINGKONG", "FONTE",
	"TOA", "BEGER", "JOTUN", "NIPPON", "DULUX", "CAPTAIN", "JBP",
	"SHARK", "BARCO", "DELTA", "CHAMPION", "DAVIES",
	"SCG", "CPAC", "TPI", "ELEPHANT", "จระเข้",
	"SOLEX", "YALE", "HAFELE", "COLT", "ISON",
	"MAKITA", "BOSCH", "DEWALT", "STANLEY", "BLACK+DECKER",
	"PHILIPS", "LAMPTAN", "RACER", "EVE", "PANASONIC",
	"MITSUBISHI", "HITACHI", "TOSHIBA", "SAMSUNG", "LG",
	"ECO DOOR", "BATHIC", "MASTERWOOD", "UPVC",
	"3M", "SCOTCH", "BESBOND", "DUNLOP", "BOSNY",
	"API", "BF", "JCJ", "KING", "LE", "CLOSE",
	"MAX LIGHT", "KECH", "MATALL", "STACKO", "FURDINI",
	"SPRING", "WAVE", "ANYHOME", "HACHI", "SOMIC",
	"NASH", "MODERN", "FOTINI", "SAKURA", "AT.INDY",
	"NL HOME", "SUPER",
}

var (
	boonthavornPathRegex = regexp.MustCompile(`boonthavorn\.com/([a-z0-9-]+)`)
	homeproPathRegex     = regexp.MustCompile(`homepro\.co\.th/[^/]+/([a-z0-9-]+)`)
)

// Per-retailer slug tables. The first URL path segment's leading token maps
// to a brand; retailers with house-brand storefronts fall back to their own
// label when the slug is unknown.
var boonthavornSlugBrands = map[string]string{
	"max": "MAX LIGHT", "lamptan": "LAMPTAN", "anyhome": "ANYHOME",
	"at": "AT.INDY", "hachi": "HACHI", "somic": "SOMIC",
	"bf": "BF", "le": "LE", "super": "SUPER", "king": "KING",
	"nl": "NL HOME", "sakura": "SAKURA", "toa": "TOA",
	"jupiter": "JUPITER", "jorakay": "JORAKAY", "mex": "MEX",
	"yale": "YALE", "hitachi": "HITACHI", "mitsubishi": "MITSUBISHI",
	"panasonic": "PANASONIC", "hafele": "HAFELE", "scg": "SCG",
}

var homeproSlugBrands = map[string]string{
	"kech": "KECH", "matall": "MATALL", "stacko": "STACKO",
	"furdini": "FURDINI", "spring": "SPRING", "wave": "WAVE",
}

var dohomeURLBrands = []struct{ needle, brand string }{
	{"nash", "NASH"},
	{"eve", "EVE"},
	{"lamptan", "LAMPTAN"},
	{"modern", "MODERN"},
	{"fotini", "FOTINI"},
}

// categoryKeyword rows are evaluated in order; the first hit wins.
type categoryKeyword struct {
	keyword  string
	category string
}

var categoryKeywords = []categoryKeyword{
	{"สีน้ำ", "PAINT"}, {"สีทา", "PAINT"}, {"PAINT", "PAINT"},
	{"สีรองพื้น", "PRIMER"}, {"PRIMER", "PRIMER"},
	{"ทินเนอร์", "THINNER"}, {"THINNER", "THINNER"},
	{"ประตู", "DOOR"}, {"DOOR", "DOOR"},
	{"หน้าต่าง", "WINDOW"}, {"WINDOW", "WINDOW"},
	{"มือจับ", "HANDLE"}, {"ก้านโยก", "HANDLE"}, {"HANDLE", "HANDLE"},
	{"บานพับ", "HINGE"}, {"HINGE", "HINGE"},
	{"กุญแจ", "LOCK"}, {"LOCK", "LOCK"},
	{"สว่าน", "DRILL"}, {"DRILL", "DRILL"},
	{"หลอดไฟ", "LIGHT_BULB"},
	{"LED", "LED"},
	{"โคมไฟ", "LAMP"}, {"LAMP", "LAMP"},
	{"ท่อ", "PIPE"}, {"PIPE", "PIPE"},
	{"ปูน", "CEMENT"}, {"CEMENT", "CEMENT"},
	{"กาว", "ADHESIVE"}, {"GLUE", "ADHESIVE"},
	{"ซิลิโคน", "SILICONE"}, {"SILICONE", "SILICONE"},
	{"น้ำยา", "CHEMICAL"},
	{"ผ้า", "FABRIC"},
	{"ถุงมือ", "GLOVES"},
	{"รองเท้า", "SHOES"},
	{"บันได", "LADDER"}, {"LADDER", "LADDER"},
	{"พัดลม", "FAN"}, {"FAN", "FAN"},
	{"ปั๊ม", "PUMP"}, {"PUMP", "PUMP"},
}

// brandsByLength is knownBrands sorted longest-first, built once.
var brandsByLength = func() []string {
	sorted := make([]string, len(knownBrands))
	copy(sorted, knownBrands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return sorted
}()

// BrandResolver derives brands and coarse categories from product records.
// Pure functions over static tables; safe for concurrent use.
type BrandResolver struct{}

// NewBrandResolver creates a brand and category resolver.
func NewBrandResolver() *BrandResolver {
	return &BrandResolver{}
}

// ResolveBrand applies the resolution chain: an explicit brand field wins,
// then a longest-first scan of the known-brand list against the upper-cased
// name, then per-retailer URL-path inference. Empty string when nothing
// resolves.
func (r *BrandResolver) ResolveBrand(name, explicitBrand, url string) string {
	if b := strings.ToUpper(strings.TrimSpace(explicitBrand)); b != "" {
		return b
	}

	upper := strings.ToUpper(name)
	for _, brand := range brandsByLength {
		if strings.Contains(upper, brand) {
			return brand
		}
	}

	return brandFromURL(url)
}

// brandFromURL applies the per-retailer URL-path grammar. HomePro, DoHome
// and GlobalHouse product pages default to the retailer's own house label
// when no branded slug is recognized; Boonthavorn pages carry the brand as
// the first slug token and have no default.
func brandFromURL(url string) string {
	if url == "" {
		return ""
	}
	lower := strings.ToLower(url)

	if strings.Contains(lower, "boonthavorn.com/") {
		if m := boonthavornPathRegex.FindStringSubmatch(lower); m != nil {
			slug, _, _ := strings.Cut(m[1], "-")
			return boonthavornSlugBrands[slug]
		}
		return ""
	}

	if strings.Contains(lower, "homepro.co.th/") {
		if m := homeproPathRegex.FindStringSubmatch(lower); m != nil {
			slug, _, _ := strings.Cut(m[1], "-")
			if b, ok := homeproSlugBrands[slug]; ok {
				return b
			}
		}
		return "HOMEPRO"
	}

	if strings.Contains(lower, "dohome.co.th/") {
		for _, rule := range dohomeURLBrands {
			if strings.Contains(lower, rule.needle) {
				return rule.brand
			}
		}
		return "DOHOME"
	}

	if strings.Contains(lower, "globalhouse.co.th/") {
		return "GLOBALHOUSE"
	}

	return ""
}

// ResolveCategory returns the first keyword hit from the category table, or
// OTHER.
func (r *BrandResolver) ResolveCategory(name string) string {
	upper := strings.ToUpper(name)
	for _, row := range categoryKeywords {
		if strings.Contains(upper, row.keyword) {
			return row.category
		}
	}
	return "OTHER"
}
