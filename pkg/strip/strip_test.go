package strip

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/matzehuels/photostrip/pkg/errors"
)

func TestElementValidate(t *testing.T) {
	tests := []struct {
		name    string
		elem    Element
		wantErr bool
	}{
		{"text ok", NewText("a", "Hello", 20, 700), false},
		{"image ok", NewImage("b", "data:x", 60, 1.5), false},
		{"missing id", NewText("", "x", 10, 400), true},
		{"text with image payload", Element{ID: "c", Kind: KindText, Text: &TextPayload{Size: 1}, Image: &ImagePayload{Width: 1, Aspect: 1}}, true},
		{"image without payload", Element{ID: "d", Kind: KindImage}, true},
		{"unknown kind", Element{ID: "e", Kind: "video"}, true},
		{"zero aspect", NewImage("f", "x", 60, 0), true},
		{"oversized text", NewText("i", "x", MaxTextSize+1, 400), true},
		{"oversized sticker", NewImage("j", "x", MaxCanvasHeight+1, 1), true},
		{"sticker too tall", NewImage("k", "x", 100, 1e6), true},
		{"bad tracking", func() Element { e := NewText("g", "x", 10, 400); e.Text.Tracking = "loose"; return e }(), true},
		{"bad role", func() Element { e := NewText("h", "x", 10, 400); e.Role = "footer"; return e }(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.elem.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidElement) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidElement)
			}
		})
	}
}

func TestElementCloneIsDeep(t *testing.T) {
	e := NewText("a", "Hello", 20, 700)
	c := e.Clone()
	c.Text.Content = "Changed"
	if e.Text.Content != "Hello" {
		t.Errorf("original mutated through clone: %q", e.Text.Content)
	}

	img := NewImage("b", "src", 50, 1)
	ci := CloneElements([]Element{img})
	ci[0].Image.Width = 99
	if img.Image.Width != 50 {
		t.Errorf("original image mutated: %v", img.Image.Width)
	}
}

func TestTrackingEm(t *testing.T) {
	if got := TrackingWidest.Em(); got != 0.1 {
		t.Errorf("widest = %v, want 0.1", got)
	}
	if got := Tracking("bogus").Em(); got != 0 {
		t.Errorf("unknown = %v, want 0", got)
	}
}

func TestBackgroundValidate(t *testing.T) {
	tests := []struct {
		bg      Background
		wantErr bool
	}{
		{Background{Mode: BackgroundColor, Value: "#ff0000"}, false},
		{Background{Mode: BackgroundColor, Value: "#f00"}, false},
		{Background{Mode: BackgroundColor}, false},
		{Background{Mode: BackgroundColor, Value: "red"}, true},
		{Background{Mode: BackgroundImage, Value: "file:a.png"}, false},
		{Background{Mode: BackgroundTemplate}, true},
		{Background{Mode: "gradient", Value: "x"}, true},
	}
	for _, tt := range tests {
		err := tt.bg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%+v) error = %v, wantErr %v", tt.bg, err, tt.wantErr)
		}
	}
}

func TestRecordJSONShape(t *testing.T) {
	r := &Record{
		ID:         "01J0000000000000000000000",
		Name:       "Party",
		Background: Background{Mode: BackgroundTemplate, Value: "file:frame.png"},
		Params:     DefaultParams(),
		Slots:      DefaultSlots(),
		Elements:   []Element{NewText("t1", "Title", 24, 700)},
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"id", "name", "background", "paddingTop", "paddingSide", "paddingBottom", "gap", "cornerRadius", "elements", "slots", "canvasHeight"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("record JSON missing key %q", key)
		}
	}

	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal record: %v", err)
	}
	if back.Elements[0].Text.Content != "Title" || len(back.Slots) != 3 || back.CanvasHeight != DefaultCanvasHeight {
		t.Errorf("round trip lost data: %+v", back)
	}
}

func TestRecordValidate(t *testing.T) {
	good := &Record{Name: "ok", Background: Background{Mode: BackgroundColor}, Params: DefaultParams(), Slots: DefaultSlots()}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	dup := good.Clone()
	dup.Slots[1].ID = dup.Slots[0].ID
	if err := dup.Validate(); !errors.Is(err, errors.ErrCodeInvalidTemplate) {
		t.Errorf("duplicate slot ids: err = %v", err)
	}

	small := good.Clone()
	small.Slots[0].W = 5
	if err := small.Validate(); err == nil {
		t.Error("undersized slot should fail validation")
	}

	unnamed := good.Clone()
	unnamed.Name = ""
	if err := unnamed.Validate(); err == nil {
		t.Error("empty name should fail validation")
	}

	tall := good.Clone()
	tall.CanvasHeight = 1e9
	if err := tall.Validate(); !errors.Is(err, errors.ErrCodeInvalidTemplate) {
		t.Errorf("oversized canvas height: err = %v", err)
	}

	huge := good.Clone()
	huge.Slots[0].H = MaxCanvasHeight + 1
	if err := huge.Validate(); !errors.Is(err, errors.ErrCodeInvalidTemplate) {
		t.Errorf("oversized slot: err = %v", err)
	}
}

func TestParamsNormalize(t *testing.T) {
	p := Params{PaddingTop: -4, Gap: 1e12, CanvasHeight: 1e12}.Normalize()
	if p.PaddingTop != 0 {
		t.Errorf("PaddingTop = %v, want 0", p.PaddingTop)
	}
	if p.Gap != MaxCanvasHeight || p.CanvasHeight != MaxCanvasHeight {
		t.Errorf("Gap/CanvasHeight = %v/%v, want capped at %d", p.Gap, p.CanvasHeight, MaxCanvasHeight)
	}
	if got := (Params{}).Normalize().CanvasHeight; got != DefaultCanvasHeight {
		t.Errorf("missing height = %v, want default", got)
	}
}

func TestRecents(t *testing.T) {
	r := Recents{}
	for _, c := range []string{"#1", "#2", "#3", "#4", "#5", "#6"} {
		r.Push(RecentColors, c)
	}
	got := r.Get(RecentColors)
	if len(got) != RecentsLimit || got[0] != "#6" || got[4] != "#2" {
		t.Errorf("recents = %v", got)
	}

	r.Push(RecentColors, "#4")
	got = r.Get(RecentColors)
	if got[0] != "#4" || len(got) != RecentsLimit {
		t.Errorf("after re-push = %v", got)
	}
	seen := map[string]bool{}
	for _, v := range got {
		if seen[v] {
			t.Errorf("duplicate %q in %v", v, got)
		}
		seen[v] = true
	}

	r.Push(RecentColors, "")
	if r.Get(RecentColors)[0] != "#4" {
		t.Error("empty push should be ignored")
	}
}

func TestDesignByID(t *testing.T) {
	if d := DesignByID("soft-cream"); d.Background != "#f4f1ea" {
		t.Errorf("soft-cream bg = %s", d.Background)
	}
	if d := DesignByID("nope"); d.ID != "wbc-party" {
		t.Errorf("fallback = %s", d.ID)
	}
}

func TestClampPhotoCount(t *testing.T) {
	for in, want := range map[int]int{0: 1, 1: 1, 3: 3, 4: 4, 9: 4} {
		if got := ClampPhotoCount(in); got != want {
			t.Errorf("ClampPhotoCount(%d) = %d, want %d", in, got, want)
		}
	}
}
