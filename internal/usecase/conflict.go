package usecase

import (
	"strings"

	"github.com/shelfmatch/backend/internal/domain"
)

// Conflict thresholds. Tuned against the observed retail catalogs.
const (
	volumeConflictRatio = 0.5
	countConflictRatio  = 0.7
)

// conflictSide is one product's view for rule evaluation, computed once per
// pair.
type conflictSide struct {
	name  string
	upper string
	specs domain.SpecSet
}

// conflictRule is a single named predicate. Rules are pure; any positive
// rule short-circuits the dispatcher.
type conflictRule struct {
	name  string
	check func(src, tgt conflictSide) bool
}

// termPair marks two literal terms as mutually exclusive: one name carrying
// A and the other carrying B (without also carrying A) is a conflict. The
// containment guard matters when A is a superstring of B, as with the brass
// threading pair.
type termPair struct {
	a, b string
}

var conflictTermPairs = []termPair{
	{"บาง", "หนา"},                     // thin vs thick fittings
	{"เกลียวในทองเหลือง", "เกลียวใน"}, // brass vs plain threading
	{"ภายใน", "ภายนอก"},               // interior vs exterior paint
	{"น้ำมัน", "น้ำอะคริลิก"},         // oil vs acrylic base
}

// variantFamily is one exclusive variant with every spelling that marks it.
// Families are scanned in slice order so overlapping indicators (finish
// names sharing substrings) resolve deterministically.
type variantFamily struct {
	key        string
	indicators []string
}

// colorVariantFamilies are handle finishes. Applied only to handle products.
var colorVariantFamilies = []variantFamily{
	{"BP", []string{"BP", "สเตนเลสดำ"}},
	{"SN", []string{"SN", "สเตนเลสเงา", "ซาตินนิกเกิล", "นิกเกิลด้าน", "นิกเกิ้ลด้าน"}},
	{"SS", []string{"SS", "สเตนเลส", "สแตนเลส"}},
	{"AC", []string{"AC", "ทองแดงรมดำ"}},
	{"BLACK", []string{"BLACK", "BLK", "สีดำ", "ดำ"}},
}

// scentVariants marks cleaning-product scents. A source scent the target
// lacks is a conflict.
var scentVariants = []string{
	"กลิ่นวิคตอเรีย", "กลิ่นโรแมนติกโรส", "กลิ่นแวนด้า", "กลิ่นลาเวนเดอร์",
	"กลิ่นมะลิ", "กลิ่นเลมอน", "กลิ่นส้ม", "กลิ่นบลูสกาย", "กลิ่นซากุระ",
	"VICTORIA", "ROMANTIC ROSE", "LAVENDER", "LEMON", "SAKURA",
}

// pipeBrandFamilies names the pipe manufacturers stamped into fitting
// names. Cross-manufacturer fittings are not substitutes.
var pipeBrandFamilies = []variantFamily{
	{"ตรามือ", []string{"ตรามือ", "HAND BRAND"}},
	{"ท่อน้ำไทย", []string{"ท่อน้ำไทย", "น้ำไทย", "THAI PIPE"}},
	{"THAI PP-R", []string{"THAI PP-R", "PP-R"}},
	{"SCG", []string{"SCG"}},
	{"ไชโย", []string{"ไชโย", "CHAIYO"}},
}

var (
	handleKeywords   = []string{"ก้านโยก", "มือจับ"}
	cleaningKeywords = []string{"น้ำยา", "สปาคลีน", "SPACLEAN", "ถูพื้น", "ดันฝุ่น"}
	pipeKeywords     = []string{"ท่อ", "ข้องอ", "ข้อต่อ", "PVC"}
)

// exclusiveCategoricalSpecs are the keys where an explicit disagreement
// makes a pair non-substitutable outright, before any scoring.
var exclusiveCategoricalSpecs = []string{
	SpecBrake,
	SpecRollerType,
	SpecLadderType,
	SpecLadderDirection,
	SpecLampType,
	SpecKnobRoom,
}

// conflictRules is the registered rule order: literal term pairs first,
// then the structural predicates. Evaluation stops at the first hit.
var conflictRules = []conflictRule{
	{"term_pair", termPairConflict},
	{"handle_color_variant", handleColorConflict},
	{"cleaner_scent_variant", scentConflict},
	{"pipe_manufacturer", pipeBrandConflict},
	{"volume_ratio", volumeRatioConflict},
	{"socket", socketConflict},
	{"categorical", categoricalConflict},
	{"hose_diameter", hoseDiameterConflict},
	{"bicycle_wheel_size", bicycleWheelConflict},
	{"count_ratio", countRatioConflict},
}

// ConflictDetector decides whether two products are structurally
// incompatible substitutes. It runs before scoring as a hard admission
// filter: a conflicting pair is excluded no matter how similar the text is.
type ConflictDetector struct {
	extractor *Extractor
}

// NewConflictDetector creates a detector sharing the given extractor.
func NewConflictDetector(extractor *Extractor) *ConflictDetector {
	if extractor == nil {
		extractor = NewExtractor()
	}
	return &ConflictDetector{extractor: extractor}
}

// Conflicting evaluates the registered rules in order against two raw names
// and their extracted spec sets. Callers that already extracted specs pass
// them in to avoid repeating the work inside the candidate loop.
func (d *ConflictDetector) Conflicting(sourceName, targetName string, sourceSpecs, targetSpecs domain.SpecSet) bool {
	src := conflictSide{name: sourceName, upper: strings.ToUpper(sourceName), specs: sourceSpecs}
	tgt := conflictSide{name: targetName, upper: strings.ToUpper(targetName), specs: targetSpecs}
	for _, rule := range conflictRules {
		if rule.check(src, tgt) {
			return true
		}
	}
	return false
}

// ConflictingNames is the name-only form; it extracts specs itself.
func (d *ConflictDetector) ConflictingNames(sourceName, targetName string) bool {
	return d.Conflicting(sourceName, targetName, d.extractor.Extract(sourceName), d.extractor.Extract(targetName))
}

func termPairConflict(src, tgt conflictSide) bool {
	for _, p := range conflictTermPairs {
		if strings.Contains(src.name, p.a) && strings.Contains(tgt.name, p.b) && !strings.Contains(tgt.name, p.a) {
			return true
		}
		if strings.Contains(tgt.name, p.a) && strings.Contains(src.name, p.b) && !strings.Contains(src.name, p.a) {
			return true
		}
	}
	return false
}

func containsAny(name string, keywords []string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range keywords {
		if strings.Contains(name, kw) || strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// detectVariant returns the first family whose indicator appears in the
// name, in either original or upper-cased form.
func detectVariant(side conflictSide, families []variantFamily) *variantFamily {
	for i, family := range families {
		if hasVariant(side, family.indicators) {
			return &families[i]
		}
	}
	return nil
}

func hasVariant(side conflictSide, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(side.name, ind) || strings.Contains(side.upper, strings.ToUpper(ind)) {
			return true
		}
	}
	return false
}

// handleColorConflict fires when a handle product names a specific finish
// the other side does not carry.
func handleColorConflict(src, tgt conflictSide) bool {
	if !containsAny(src.name, handleKeywords) {
		return false
	}
	family := detectVariant(src, colorVariantFamilies)
	if family == nil {
		return false
	}
	return !hasVariant(tgt, family.indicators)
}

// scentConflict fires when a cleaning product names a scent the other side
// lacks.
func scentConflict(src, tgt conflictSide) bool {
	if !containsAny(src.name, cleaningKeywords) {
		return false
	}
	for _, scent := range scentVariants {
		if strings.Contains(src.name, scent) || strings.Contains(src.upper, strings.ToUpper(scent)) {
			return !(strings.Contains(tgt.name, scent) || strings.Contains(tgt.upper, strings.ToUpper(scent)))
		}
	}
	return false
}

// pipeBrandConflict fires when a pipe or fitting names a manufacturer and
// the other side carries none of that manufacturer's marks.
func pipeBrandConflict(src, tgt conflictSide) bool {
	if !containsAny(src.name, pipeKeywords) {
		return false
	}
	family := detectVariant(src, pipeBrandFamilies)
	if family == nil {
		return false
	}
	return !hasVariant(tgt, family.indicators)
}

// volumeRatioConflict fires when both sides state a same-unit volume and
// the smaller is under half the larger. A 1 L bottle never substitutes a
// 5 L canister.
func volumeRatioConflict(src, tgt conflictSide) bool {
	sv, ok1 := src.specs.Get(SpecVolume)
	tv, ok2 := tgt.specs.Get(SpecVolume)
	if !ok1 || !ok2 || specUnit(sv) != specUnit(tv) {
		return false
	}
	return ratioBelow(sv, tv, volumeConflictRatio)
}

func ratioBelow(a, b string, threshold float64) bool {
	av, ok1 := specValueNumber(a)
	bv, ok2 := specValueNumber(b)
	if !ok1 || !ok2 || av <= 0 || bv <= 0 {
		return false
	}
	ratio := av / bv
	if ratio > 1 {
		ratio = 1 / ratio
	}
	return ratio < threshold
}

// socketConflict fires on socket type or count disagreement (E27x1 vs
// E14x1, or E27x1 vs E27x3).
func socketConflict(src, tgt conflictSide) bool {
	ss, ok1 := src.specs.Get(SpecSocket)
	ts, ok2 := tgt.specs.Get(SpecSocket)
	if !ok1 || !ok2 {
		return false
	}
	return ss != ts
}

// categoricalConflict fires when both sides are explicit about an exclusive
// categorical key and disagree.
func categoricalConflict(src, tgt conflictSide) bool {
	for _, key := range exclusiveCategoricalSpecs {
		sv, ok1 := src.specs.Get(key)
		tv, ok2 := tgt.specs.Get(key)
		if ok1 && ok2 && sv != tv {
			return true
		}
	}
	return false
}

func hoseDiameterConflict(src, tgt conflictSide) bool {
	sv, ok1 := src.specs.Get(SpecHoseDiameter)
	tv, ok2 := tgt.specs.Get(SpecHoseDiameter)
	return ok1 && ok2 && sv != tv
}

// bicycleWheelConflict fires for bicycles whose stated wheel sizes differ.
func bicycleWheelConflict(src, tgt conflictSide) bool {
	if !strings.Contains(src.name, "จักรยาน") || !strings.Contains(tgt.name, "จักรยาน") {
		return false
	}
	sv, ok1 := src.specs.Get(SpecSizeInch)
	tv, ok2 := tgt.specs.Get(SpecSizeInch)
	return ok1 && ok2 && sv != tv
}

// countRatioConflict fires when a count spec (tiers, lines, steps, packs)
// disagrees beyond tolerance on both sides.
func countRatioConflict(src, tgt conflictSide) bool {
	for _, key := range []string{SpecTiers, SpecLines, SpecSteps, SpecPackCount} {
		sv, ok1 := src.specs.Get(key)
		tv, ok2 := tgt.specs.Get(key)
		if ok1 && ok2 && ratioBelow(sv, tv, countConflictRatio) {
			return true
		}
	}
	return false
}
