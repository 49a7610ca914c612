package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shelfmatch/backend/internal/domain"
)

// Spec keys produced by the extractor.
const (
	SpecWattage         = "wattage"
	SpecVolume          = "volume"
	SpecHoseDiameter    = "hose_diameter"
	SpecSizeInch        = "size_inch"
	SpecDimensions      = "dimensions"
	SpecSocket          = "socket"
	SpecLength          = "length"
	SpecTiers           = "tiers"
	SpecLines           = "lines"
	SpecSteps           = "steps"
	SpecPackCount       = "pack_count"
	SpecColorTemp       = "color_temp"
	SpecBrake           = "brake"
	SpecRollerType      = "roller_type"
	SpecLadderType      = "ladder_type"
	SpecLadderDirection = "ladder_direction"
	SpecLampType        = "lamp_type"
	SpecKnobRoom        = "knob_room"
	SpecModel           = "model"
)

// Categorical values. Mutually exclusive per key.
const (
	BrakePresent = "HAS_BRAKE"
	BrakeAbsent  = "NO_BRAKE"

	RollerRefill = "REFILL"
	RollerFull   = "FULL"

	LadderFolding   = "FOLDING"
	LadderExtension = "EXTENSION"
	LadderAFrame    = "A_FRAME"

	LadderTwoSided    = "TWO_SIDED"
	LadderSingleSided = "SINGLE_SIDED"

	LampDownlight = "DOWNLIGHT"
	LampWall      = "WALL"
	LampCeiling   = "CEILING"
	LampPendant   = "PENDANT"
	LampTrack     = "TRACK"
	LampFlood     = "FLOOD"

	KnobBathroom = "BATHROOM"
	KnobGeneral  = "GENERAL"
)

// Package-level compiled regex patterns for performance
var (
	// \b is an ASCII assertion and never holds after a Thai letter, so
	// boundary anchors go on the Latin unit spellings only.
	wattageRegex    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:วัตต์|WATTS?\b|W\b)`)
	volumeRegex     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(ลิตร|แกลลอน|แกลอน|GAL\b|มล\.|ML\b|กก\.|KG\b|L\b)`)
	hoseFracRegex   = regexp.MustCompile(`(\d+/\d+|\d+(?:\.\d+)?)\s*(?:นิ้ว|INCH\b|")`)
	sizeInchRegex   = regexp.MustCompile(`(\d+/\d+|\d+(?:\.\d+)?)\s*(?:นิ้ว|INCH\b|")`)
	dimensionsRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[X×]\s*(\d+(?:\.\d+)?)`)
	socketRegex     = regexp.MustCompile(`(E27|E14|GU10|MR16)\s*(?:X\s*(\d+))?`)
	lengthRegex     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:เมตร|ม\.|M\b)`)
	tiersRegex      = regexp.MustCompile(`(\d+)\s*(?:ชั้น|TIERS?\b)`)
	linesRegex      = regexp.MustCompile(`(\d+)\s*(?:ราว|เส้น|LINES?\b)`)
	stepsRegex      = regexp.MustCompile(`(\d+)\s*(?:ขั้น|STEPS?\b)`)
	packCountRegex  = regexp.MustCompile(`(\d+)\s*(?:แพ็ค|PACKS?\b|PCS\b|ชิ้น|หลอด|ตัว)|PACK\s*(?:OF\s*)?(\d+)`)

	identifierRegex = regexp.MustCompile(`[A-Z0-9][A-Z0-9/-]{2,}`)
	hasDigitRegex   = regexp.MustCompile(`\d`)
	hasAlphaRegex   = regexp.MustCompile(`[A-Z]`)
	modelCodeRegex  = regexp.MustCompile(`\b[A-Z]{1,6}-?\d{2,6}[A-Z0-9-]*\b`)
	numericRegex    = regexp.MustCompile(`(\d+/\d+|\d+(?:\.\d+)?)\s*(ลิตร|แกลลอน|แกลอน|นิ้ว|เมตร|วัตต์|ชั้น|ขั้น|แพ็ค|ราว|กก\.|มล\.|ซม\.|GAL\b|INCH\b|ML\b|KG\b|CM\b|MM\b|L\b|M\b|W\b|")?`)
)

// volumeUnits folds every accepted volume spelling onto one canonical unit
// string per key.
var volumeUnits = map[string]string{
	"ลิตร": "L", "L": "L",
	"แกลลอน": "GAL", "แกลอน": "GAL", "GAL": "GAL",
	"มล.": "ML", "ML": "ML",
	"กก.": "KG", "KG": "KG",
}

var numericUnits = map[string]string{
	"ลิตร": "L", "แกลลอน": "GAL", "แกลอน": "GAL", "นิ้ว": "INCH", "\"": "INCH",
	"เมตร": "M", "วัตต์": "W", "ชั้น": "TIER", "ขั้น": "STEP", "แพ็ค": "PACK",
	"ราว": "LINE", "กก.": "KG", "มล.": "ML", "ซม.": "CM",
	"GAL": "GAL", "INCH": "INCH", "ML": "ML", "KG": "KG", "CM": "CM",
	"MM": "MM", "L": "L", "M": "M", "W": "W",
}

// identifierStoplist removes material and spec abbreviations a model-code scan
// would otherwise pick up.
var identifierStoplist = map[string]bool{
	"PVC": true, "UPVC": true, "CPVC": true, "PPR": true, "PP-R": true,
	"LED": true, "E27": true, "E14": true, "GU10": true, "MR16": true,
	"3M": true, "DL": true, "WW": true, "CW": true, "SS": true, "SN": true,
	"USB": true, "SET": true, "IP20": true, "IP44": true, "IP65": true,
}

// specExtractor is one named extraction step. A key is claimed by the first
// extractor in order that matches; order, not context, resolves overlapping
// patterns (a bare number next to M could be length or part of a model code).
type specExtractor struct {
	key string
	fn  func(upper, raw string) (string, bool)
}

// specExtractors is the documented pattern precedence, evaluated top to
// bottom. hose_diameter must precede size_inch or hose fractions would be
// claimed as generic inch sizes.
var specExtractors = []specExtractor{
	{SpecSocket, extractSocket},
	{SpecWattage, extractWattage},
	{SpecVolume, extractVolume},
	{SpecHoseDiameter, extractHoseDiameter},
	{SpecSizeInch, extractSizeInch},
	{SpecDimensions, extractDimensions},
	{SpecLength, extractLength},
	{SpecTiers, extractTiers},
	{SpecLines, extractLines},
	{SpecSteps, extractSteps},
	{SpecPackCount, extractPackCount},
	{SpecColorTemp, extractColorTemp},
	{SpecBrake, extractBrake},
	{SpecRollerType, extractRollerType},
	{SpecLadderType, extractLadderType},
	{SpecLadderDirection, extractLadderDirection},
	{SpecLampType, extractLampType},
	{SpecKnobRoom, extractKnobRoom},
	{SpecModel, extractModel},
}

// Extractor derives a typed SpecSet from a raw product name. Best effort and
// total: a pattern that fails to match simply omits its key.
type Extractor struct{}

// NewExtractor creates an attribute extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs every named extractor in precedence order and collects the
// auxiliary identifier and numeric-value lists. Deterministic for a given
// name; the returned set is never mutated afterwards.
func (e *Extractor) Extract(rawName string) domain.SpecSet {
	set := domain.SpecSet{Specs: map[string]string{}}
	if rawName == "" {
		return set
	}
	upper := strings.ToUpper(rawName)

	for _, ex := range specExtractors {
		// A hose fraction is the product's diameter, not a generic inch size.
		if ex.key == SpecSizeInch && set.Has(SpecHoseDiameter) {
			continue
		}
		if v, ok := ex.fn(upper, rawName); ok {
			set.Specs[ex.key] = v
		}
	}

	set.Identifiers = extractIdentifiers(upper)
	set.NumericValues = extractNumericValues(upper)
	return set
}

func extractWattage(upper, _ string) (string, bool) {
	m := wattageRegex.FindStringSubmatch(upper)
	if m == nil {
		return "", false
	}
	return formatNumber(m[1]) + "W", true
}

func extractVolume(upper, _ string) (string, bool) {
	m := volumeRegex.FindStringSubmatch(upper)
	if m == nil {
		return "", false
	}
	return formatNumber(m[1]) + " " + volumeUnits[m[2]], true
}

func extractHoseDiameter(upper, _ string) (string, bool) {
	if !strings.Contains(upper, "สายยาง") && !strings.Contains(upper, "HOSE") {
		return "", false
	}
	m := hoseFracRegex.FindStringSubmatch(upper)
	if m == nil {
		return "", false
	}
	return m[1] + " INCH", true
}

func extractSizeInch(upper, _ string) (string, bool) {
	m := sizeInchRegex.FindStringSubmatch(upper)
	if m == nil {
		return "", false
	}
	return formatNumber(m[1]) + " INCH", true
}

func extractDimensions(upper, _ string) (string, bool) {
	m := dimensionsRegex.FindStringSubmatch(upper)
	if m == nil {
		return "", false
	}
	return formatNumber(m[1]) + "x" + formatNumber(m[2]), true
}

func extractSocket(upper, _ string) (string, bool) {
	m := socketRegex.FindStringSubmatch(upper)
	if m == nil {
		return "", false
	}
	count := m[2]
	if count == "" {
		count = "1"
	}
	return m[1] + "x" + count, true
}

func extractLength(upper, _ string) (string, bool) {
	m := lengthRegex.FindStringSubmatch(upper)
	if m == nil {
		return "", false
	}
	return formatNumber(m[1]) + "M", true
}

func extractTiers(upper, _ string) (string, bool) {
	return firstCount(tiersRegex, upper)
}

func extractLines(upper, _ string) (string, bool) {
	return firstCount(linesRegex, upper)
}

func extractSteps(upper, _ string) (string, bool) {
	return firstCount(stepsRegex, upper)
}

func extractPackCount(upper, _ string) (string, bool) {
	m := packCountRegex.FindStringSubmatch(upper)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

func firstCount(re *regexp.Regexp, upper string) (string, bool) {
	m := re.FindStringSubmatch(upper)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func extractColorTemp(upper, _ string) (string, bool) {
	switch {
	case strings.Contains(upper, "DAYLIGHT") || containsToken(upper, "DL"):
		return "DAYLIGHT", true
	case strings.Contains(upper, "WARM") || containsToken(upper, "WW"):
		return "WARMWHITE", true
	case strings.Contains(upper, "COOL") || containsToken(upper, "CW"):
		return "COOLWHITE", true
	}
	return "", false
}

func extractBrake(upper, raw string) (string, bool) {
	// Negative form first: "ไม่มีเบรก" contains "มีเบรก".
	switch {
	case strings.Contains(raw, "ไม่มีเบรก") || strings.Contains(upper, "NO BRAKE"):
		return BrakeAbsent, true
	case strings.Contains(raw, "มีเบรก") || strings.Contains(raw, "เบรก") || containsToken(upper, "BRAKE"):
		return BrakePresent, true
	}
	return "", false
}

func extractRollerType(upper, raw string) (string, bool) {
	if !strings.Contains(raw, "ลูกกลิ้ง") && !strings.Contains(upper, "ROLLER") {
		return "", false
	}
	switch {
	case strings.Contains(raw, "รีฟิล") || strings.Contains(raw, "ไส้") || strings.Contains(upper, "REFILL"):
		return RollerRefill, true
	default:
		return RollerFull, true
	}
}

func extractLadderType(upper, raw string) (string, bool) {
	if !strings.Contains(raw, "บันได") && !strings.Contains(upper, "LADDER") {
		return "", false
	}
	switch {
	case strings.Contains(raw, "สไลด์") || strings.Contains(raw, "ยืด") || strings.Contains(upper, "EXTENSION"):
		return LadderExtension, true
	case strings.Contains(raw, "ทรงเอ") || strings.Contains(upper, "A-FRAME"):
		return LadderAFrame, true
	case strings.Contains(raw, "พับ") || strings.Contains(upper, "FOLDING"):
		return LadderFolding, true
	}
	return "", false
}

func extractLadderDirection(upper, raw string) (string, bool) {
	if !strings.Contains(raw, "บันได") && !strings.Contains(upper, "LADDER") {
		return "", false
	}
	switch {
	case strings.Contains(raw, "2 ด้าน") || strings.Contains(raw, "สองด้าน") || strings.Contains(raw, "ขึ้นลง 2"):
		return LadderTwoSided, true
	case strings.Contains(raw, "ด้านเดียว") || strings.Contains(raw, "ขึ้นลงด้านเดียว"):
		return LadderSingleSided, true
	}
	return "", false
}

func extractLampType(upper, raw string) (string, bool) {
	switch {
	case strings.Contains(raw, "ดาวน์ไลท์") || strings.Contains(upper, "DOWNLIGHT"):
		return LampDownlight, true
	case strings.Contains(raw, "โคมไฟผนัง") || strings.Contains(raw, "โคมไฟกิ่ง") || strings.Contains(upper, "WALL LAMP"):
		return LampWall, true
	case strings.Contains(raw, "โคมไฟเพดาน") || strings.Contains(upper, "CEILING LAMP"):
		return LampCeiling, true
	case strings.Contains(raw, "โคมไฟห้อย") || strings.Contains(raw, "โคมไฟแขวน") || strings.Contains(upper, "PENDANT"):
		return LampPendant, true
	case strings.Contains(raw, "แทรคไลท์") || strings.Contains(upper, "TRACK LIGHT"):
		return LampTrack, true
	case strings.Contains(raw, "สปอร์ตไลท์") || strings.Contains(upper, "FLOODLIGHT") || strings.Contains(upper, "FLOOD LIGHT"):
		return LampFlood, true
	}
	return "", false
}

func extractKnobRoom(upper, raw string) (string, bool) {
	if !strings.Contains(raw, "ลูกบิด") && !strings.Contains(raw, "กุญแจ") &&
		!strings.Contains(upper, "KNOB") && !strings.Contains(upper, "LOCKSET") {
		return "", false
	}
	switch {
	case strings.Contains(raw, "ห้องน้ำ") || strings.Contains(upper, "BATHROOM"):
		return KnobBathroom, true
	case strings.Contains(raw, "ทั่วไป") || strings.Contains(upper, "ENTRANCE") || strings.Contains(upper, "PASSAGE"):
		return KnobGeneral, true
	}
	return "", false
}

func extractModel(upper, _ string) (string, bool) {
	for _, tok := range modelCodeRegex.FindAllString(upper, -1) {
		if identifierStoplist[tok] {
			continue
		}
		return tok, true
	}
	return "", false
}

// extractIdentifiers scans for candidate model or part codes: alphanumeric
// tokens carrying both letters and digits, minus the stoplist.
func extractIdentifiers(upper string) []string {
	var ids []string
	seen := map[string]bool{}
	for _, tok := range identifierRegex.FindAllString(upper, -1) {
		if identifierStoplist[tok] || seen[tok] {
			continue
		}
		if !hasDigitRegex.MatchString(tok) || !hasAlphaRegex.MatchString(tok) {
			continue
		}
		seen[tok] = true
		ids = append(ids, tok)
	}
	return ids
}

// extractNumericValues records every (number, unit) occurrence for the fuzzy
// cross-key comparison applied when no named key lines up.
func extractNumericValues(upper string) []domain.NumericValue {
	var out []domain.NumericValue
	for _, m := range numericRegex.FindAllStringSubmatch(upper, -1) {
		v, ok := parseNumeric(m[1])
		if !ok {
			continue
		}
		out = append(out, domain.NumericValue{Value: v, Unit: numericUnits[m[2]]})
	}
	return out
}

// parseNumeric handles both fractional ("1/2") and decimal ("0.5") forms.
func parseNumeric(s string) (float64, bool) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// formatNumber drops an insignificant fractional part ("15.0" -> "15").
func formatNumber(s string) string {
	v, ok := parseNumeric(s)
	if !ok {
		return s
	}
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// containsToken reports a whole-token occurrence of tok in s.
func containsToken(s, tok string) bool {
	for _, f := range strings.Fields(s) {
		if strings.Trim(f, "().,-") == tok {
			return true
		}
	}
	return false
}

// specValueNumber pulls the leading numeric component out of a stored spec
// value ("15W" -> 15, "1/2 INCH" -> 0.5).
func specValueNumber(value string) (float64, bool) {
	m := numericRegex.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	return parseNumeric(m[1])
}

// specString renders a SpecSet the way candidate manifests and logs need it.
func specString(set domain.SpecSet) string {
	if len(set.Specs) == 0 {
		return "N/A"
	}
	parts := make([]string, 0, len(set.Specs))
	for _, ex := range specExtractors {
		if v, ok := set.Specs[ex.key]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", ex.key, v))
		}
	}
	return strings.Join(parts, ", ")
}
