package fonts

import "testing"

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"sans":        Sans,
		"font-sans":   Sans,
		"font-mono":   Mono,
		"Monospace":   Mono,
		"small-caps":  SmallCaps,
		"italic":      Italic,
		"Comic Sans":  Sans,
		"":            Sans,
		" font-mono ": Mono,
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFaceCachesAndMeasures(t *testing.T) {
	f1, err := Face("sans", 400, 24)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	f2, _ := Face("font-sans", 300, 24)
	if f1 != f2 {
		t.Error("equivalent requests should share a cached face")
	}

	bold, err := Face("sans", 700, 24)
	if err != nil {
		t.Fatalf("Face bold: %v", err)
	}
	if bold == f1 {
		t.Error("bold weight should select a different face")
	}

	if m := f1.Metrics(); m.Height <= 0 {
		t.Errorf("Metrics().Height = %v, want > 0", m.Height)
	}

	for _, fam := range Families {
		if _, err := Face(fam, 400, 12); err != nil {
			t.Errorf("Face(%s): %v", fam, err)
		}
	}

	if _, err := Face("sans", 400, 0); err == nil {
		t.Error("zero size should fail")
	}
}
