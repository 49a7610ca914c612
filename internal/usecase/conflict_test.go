package usecase

import "testing"

func TestConflictingNames(t *testing.T) {
	d := NewConflictDetector(NewExtractor())

	tests := []struct {
		name     string
		source   string
		target   string
		conflict bool
	}{
		{
			"brake presence mismatch",
			"ลูกล้อยาง 2 นิ้ว ไม่มีเบรก",
			"ลูกล้อยาง 2 นิ้ว มีเบรก",
			true,
		},
		{
			"brake agreement",
			"ลูกล้อยาง 2 นิ้ว มีเบรก",
			"ลูกล้อ PVC 2 นิ้ว มีเบรก",
			false,
		},
		{
			"thin vs thick fitting",
			"ข้องอ PVC บาง 45 องศา",
			"ข้องอ PVC หนา 45 องศา",
			true,
		},
		{
			"brass threading vs plain",
			"ข้อต่อเกลียวในทองเหลือง 1/2 นิ้ว",
			"ข้อต่อเกลียวใน 1/2 นิ้ว",
			true,
		},
		{
			"same brass threading both sides",
			"ข้อต่อเกลียวในทองเหลือง 1/2 นิ้ว",
			"ข้อต่อตรงเกลียวในทองเหลือง 1/2 นิ้ว",
			false,
		},
		{
			"handle finish mismatch",
			"ก้านโยกประตู สเตนเลสเงา SN",
			"ก้านโยกประตู สีดำ BLACK",
			true,
		},
		{
			"handle finish match",
			"ก้านโยกประตู สีดำ",
			"ก้านโยกประตู BLACK",
			false,
		},
		{
			"cleaner scent mismatch",
			"น้ำยาถูพื้น กลิ่นลาเวนเดอร์ 900 ML",
			"น้ำยาถูพื้น กลิ่นมะลิ 900 ML",
			true,
		},
		{
			"cleaner scent match",
			"น้ำยาถูพื้น กลิ่นลาเวนเดอร์ 900 ML",
			"น้ำยาถูพื้น สูตรเข้มข้น กลิ่นลาเวนเดอร์ 900 ML",
			false,
		},
		{
			"pipe manufacturer mismatch",
			"ท่อ PVC ตรามือ 4 นิ้ว",
			"ท่อ PVC SCG 4 นิ้ว",
			true,
		},
		{
			"volume ratio below half",
			"น้ำยาเช็ดกระจก 1 ลิตร",
			"น้ำยาเช็ดกระจก 5 ลิตร",
			true,
		},
		{
			"volume ratio acceptable",
			"สีน้ำ 9 ลิตร",
			"สีน้ำ 10 ลิตร",
			false,
		},
		{
			"socket type mismatch",
			"โคมไฟเพดาน E27x1",
			"โคมไฟเพดาน E14x1",
			true,
		},
		{
			"socket count mismatch",
			"โคมไฟเพดาน E27x1",
			"โคมไฟเพดาน E27x3",
			true,
		},
		{
			"hose diameter fraction mismatch",
			"สายยาง 1/2 นิ้ว 20 เมตร",
			"สายยาง 5/8 นิ้ว 20 เมตร",
			true,
		},
		{
			"bicycle wheel size mismatch",
			"จักรยานเสือภูเขา 26 นิ้ว",
			"จักรยานเสือภูเขา 24 นิ้ว",
			true,
		},
		{
			"step count beyond tolerance",
			"บันไดอลูมิเนียม 4 ขั้น",
			"บันไดอลูมิเนียม 6 ขั้น",
			true,
		},
		{
			"step count within tolerance",
			"บันไดอลูมิเนียม 6 ขั้น",
			"บันไดอลูมิเนียม 5 ขั้น",
			false,
		},
		{
			"no signals no conflict",
			"ชั้นวางของพลาสติก",
			"ชั้นวางของเหล็ก",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.ConflictingNames(tt.source, tt.target); got != tt.conflict {
				t.Errorf("ConflictingNames(%q, %q) = %v, want %v", tt.source, tt.target, got, tt.conflict)
			}
		})
	}
}

func TestConflicting_ShortCircuitsOnFirstRule(t *testing.T) {
	d := NewConflictDetector(NewExtractor())
	// Both a term-pair hit and a volume-ratio hit; either way it must
	// conflict without panicking on the remaining rules.
	if !d.ConflictingNames("ข้องอบาง 1 ลิตร", "ข้องอหนา 5 ลิตร") {
		t.Error("expected conflict")
	}
}
