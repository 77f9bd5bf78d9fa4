package cards

import (
	"errors"
	"testing"

	"github.com/angristan/lifx-tui/internal/actions"
	"github.com/angristan/lifx-tui/internal/models"
)

type call struct {
	action string
	id     string
	hex    string
	kelvin uint16
}

type fakeDispatcher struct {
	calls []call
}

func (f *fakeDispatcher) TogglePower(lightID string) *actions.Task {
	f.calls = append(f.calls, call{action: "toggle", id: lightID})
	return nil
}

func (f *fakeDispatcher) SetColor(lightID, hex string, kelvin uint16) (*actions.Task, error) {
	f.calls = append(f.calls, call{action: "color", id: lightID, hex: hex, kelvin: kelvin})
	return nil, nil
}

func newTestBoard() (*Board, *fakeDispatcher) {
	d := &fakeDispatcher{}
	return NewBoard(d, models.ScaleCanonical, nil), d
}

func lightOn(label string) models.LightState {
	return models.LightState{
		Label:      label,
		Power:      models.PowerOn,
		Hue:        0,
		Saturation: 65535,
		Brightness: 65535,
		Kelvin:     3500,
		Known:      true,
	}
}

func TestReconcile_EmptySnapshot(t *testing.T) {
	b, _ := newTestBoard()

	res := b.Reconcile(models.Snapshot{})
	if !res.Placeholder || !b.Placeholder() {
		t.Error("empty snapshot should show the placeholder")
	}
	if b.Len() != 0 {
		t.Errorf("expected no cards, got %d", b.Len())
	}
	if !b.Loaded() {
		t.Error("board should be loaded after a reconcile")
	}
}

func TestReconcile_EmptySnapshotKeepsCards(t *testing.T) {
	b, _ := newTestBoard()
	b.Reconcile(models.Snapshot{"a": lightOn("A")})

	res := b.Reconcile(models.Snapshot{})
	if !res.Placeholder {
		t.Error("expected placeholder")
	}
	card, ok := b.Card("a")
	if !ok {
		t.Fatal("card removed by empty snapshot")
	}
	if card.Stale {
		t.Error("empty snapshot must not touch cards")
	}

	b.Reconcile(models.Snapshot{"a": lightOn("A")})
	if b.Placeholder() {
		t.Error("placeholder should hide once lights are back")
	}
}

func TestReconcile_CreatesCard(t *testing.T) {
	tests := []struct {
		name   string
		power  int
		wantOn bool
	}{
		{name: "on", power: 65535, wantOn: true},
		{name: "off", power: 0, wantOn: false},
		{name: "partial power is not on", power: 32768, wantOn: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBoard()
			light := lightOn("Desk")
			light.Power = tt.power

			res := b.Reconcile(models.Snapshot{"desk": light})
			if len(res.Created) != 1 || b.Len() != 1 {
				t.Fatalf("expected exactly one card, created=%v len=%d", res.Created, b.Len())
			}

			card, _ := b.Card("desk")
			if card.On != tt.wantOn {
				t.Errorf("On = %v, want %v", card.On, tt.wantOn)
			}
			if card.Color != "#FF0000" {
				t.Errorf("Color = %s, want #FF0000", card.Color)
			}
			if card.Kelvin != 3500 {
				t.Errorf("Kelvin = %d, want 3500", card.Kelvin)
			}
		})
	}
}

func TestReconcile_OneCardPerID(t *testing.T) {
	b, _ := newTestBoard()
	snapshot := models.Snapshot{"a": lightOn("A"), "b": lightOn("B")}

	for i := 0; i < 5; i++ {
		b.Reconcile(snapshot)
	}
	if b.Len() != 2 {
		t.Errorf("expected 2 cards after repeated reconciles, got %d", b.Len())
	}
}

func TestReconcile_PowerPatchLeavesColor(t *testing.T) {
	b, _ := newTestBoard()
	b.Reconcile(models.Snapshot{"desk": lightOn("Desk")})

	card, _ := b.Card("desk")
	// User moved the picker; the registry has not caught up yet
	card.Color = "#00FF00"

	light := lightOn("Desk")
	light.Power = 0
	res := b.Reconcile(models.Snapshot{"desk": light})

	if len(res.Patched) != 1 {
		t.Fatalf("expected one patched card, got %v", res.Patched)
	}
	if card.On {
		t.Error("power should be patched to off")
	}
	if card.Color != "#00FF00" {
		t.Errorf("color control overwritten: %s", card.Color)
	}
}

func TestReconcile_UnknownColorFilledOnce(t *testing.T) {
	b, _ := newTestBoard()
	b.Reconcile(models.Snapshot{"new": {}})

	card, _ := b.Card("new")
	if card.Color != "#000000" {
		t.Errorf("unknown color should render black, got %s", card.Color)
	}

	b.Reconcile(models.Snapshot{"new": lightOn("New")})
	if card.Color != "#FF0000" {
		t.Errorf("first known color should fill the control, got %s", card.Color)
	}

	green := lightOn("New")
	green.Hue = 21845
	b.Reconcile(models.Snapshot{"new": green})
	if card.Color != "#FF0000" {
		t.Errorf("color control patched after it was set: %s", card.Color)
	}
}

func TestReconcile_EditModePreserved(t *testing.T) {
	b, _ := newTestBoard()
	b.Reconcile(models.Snapshot{"desk": lightOn("Desk")})

	if !b.BeginEdit("desk") {
		t.Fatal("BeginEdit failed")
	}
	b.SetDraft("desk", "Offi")

	b.Reconcile(models.Snapshot{"desk": lightOn("Somebody Else")})

	card, _ := b.Card("desk")
	if !card.Editing || card.Draft != "Offi" {
		t.Errorf("edit state lost: editing=%v draft=%q", card.Editing, card.Draft)
	}
	if card.Label != "Desk" {
		t.Errorf("label patched during edit: %q", card.Label)
	}

	b.CancelEdit("desk")
	b.Reconcile(models.Snapshot{"desk": lightOn("Somebody Else")})
	if card.Label != "Somebody Else" {
		t.Errorf("label should patch after edit ends, got %q", card.Label)
	}
}

func TestCommitLabel_HoldsAgainstStaleEcho(t *testing.T) {
	b, _ := newTestBoard()
	b.Reconcile(models.Snapshot{"desk": lightOn("Desk")})
	b.BeginEdit("desk")

	if !b.CommitLabel("desk", "Office") {
		t.Fatal("CommitLabel failed")
	}
	card, _ := b.Card("desk")
	if card.Editing || card.Label != "Office" {
		t.Fatalf("commit should exit edit mode with new label: %+v", card)
	}

	// A poll issued before the rename still reports the old label
	b.Reconcile(models.Snapshot{"desk": lightOn("Desk")})
	if card.Label != "Office" {
		t.Errorf("stale echo applied: %q", card.Label)
	}

	// Registry confirms, hold released, later renames apply
	b.Reconcile(models.Snapshot{"desk": lightOn("Office")})
	b.Reconcile(models.Snapshot{"desk": lightOn("Study")})
	if card.Label != "Study" {
		t.Errorf("label after confirmation = %q, want Study", card.Label)
	}
}

func TestApplyLabel_KeepsOpenEdit(t *testing.T) {
	b, _ := newTestBoard()
	b.Reconcile(models.Snapshot{"desk": lightOn("Desk")})
	b.BeginEdit("desk")
	b.SetDraft("desk", "Desk?")

	if !b.ApplyLabel("desk", "Desk!") {
		t.Fatal("ApplyLabel failed")
	}
	card, _ := b.Card("desk")
	if !card.Editing || card.Draft != "Desk?" {
		t.Errorf("open edit should survive: editing=%v draft=%q", card.Editing, card.Draft)
	}
	if card.Label != "Desk!" {
		t.Errorf("label = %q, want Desk!", card.Label)
	}

	b.CancelEdit("desk")
	b.Reconcile(models.Snapshot{"desk": lightOn("Desk")})
	if card.Label != "Desk!" {
		t.Errorf("stale echo applied after ApplyLabel: %q", card.Label)
	}

	if b.ApplyLabel("nope", "x") {
		t.Error("ApplyLabel on unknown card should fail")
	}
}

func TestToggleBinding(t *testing.T) {
	b, d := newTestBoard()
	for i := 0; i < 3; i++ {
		b.Reconcile(models.Snapshot{"a": lightOn("A"), "b": lightOn("B")})
	}

	card, _ := b.Card("b")
	card.Toggle()

	if len(d.calls) != 1 {
		t.Fatalf("expected one dispatch, got %v", d.calls)
	}
	if d.calls[0] != (call{action: "toggle", id: "b"}) {
		t.Errorf("unexpected dispatch %+v", d.calls[0])
	}
}

func TestPickColor_UsesLatestKelvin(t *testing.T) {
	b, d := newTestBoard()
	b.Reconcile(models.Snapshot{"desk": lightOn("Desk")})

	warmer := lightOn("Desk")
	warmer.Kelvin = 2700
	b.Reconcile(models.Snapshot{"desk": warmer})

	if _, err := b.PickColor("desk", "#00ff00"); err != nil {
		t.Fatalf("PickColor returned error: %v", err)
	}

	want := call{action: "color", id: "desk", hex: "#00FF00", kelvin: 2700}
	if len(d.calls) != 1 || d.calls[0] != want {
		t.Errorf("dispatch = %+v, want %+v", d.calls, want)
	}
	card, _ := b.Card("desk")
	if card.Color != "#00FF00" {
		t.Errorf("color control = %s, want #00FF00", card.Color)
	}
}

func TestPickColor_Errors(t *testing.T) {
	b, d := newTestBoard()
	b.Reconcile(models.Snapshot{"desk": lightOn("Desk")})

	if _, err := b.PickColor("desk", "green"); !errors.Is(err, models.ErrInvalidHex) {
		t.Errorf("expected ErrInvalidHex, got %v", err)
	}
	if _, err := b.PickColor("ghost", "#000000"); err == nil {
		t.Error("expected error for unknown light")
	}
	if len(d.calls) != 0 {
		t.Errorf("nothing should be dispatched, got %v", d.calls)
	}
}

func TestReconcile_VanishedLightMarkedStale(t *testing.T) {
	b, _ := newTestBoard()
	b.Reconcile(models.Snapshot{"a": lightOn("A"), "b": lightOn("B")})

	res := b.Reconcile(models.Snapshot{"a": lightOn("A")})
	if len(res.Stale) != 1 || res.Stale[0] != "b" {
		t.Errorf("Stale = %v, want [b]", res.Stale)
	}
	card, ok := b.Card("b")
	if !ok || !card.Stale {
		t.Fatal("vanished light should keep a stale card")
	}

	b.Reconcile(models.Snapshot{"a": lightOn("A"), "b": lightOn("B")})
	if card.Stale {
		t.Error("card should no longer be stale once the light reappears")
	}
}

func TestCards_CreationOrder(t *testing.T) {
	b, _ := newTestBoard()
	b.Reconcile(models.Snapshot{"m": lightOn("M"), "c": lightOn("C")})
	b.Reconcile(models.Snapshot{"a": lightOn("A"), "c": lightOn("C"), "m": lightOn("M")})

	var got []string
	for _, c := range b.Cards() {
		got = append(got, c.ID)
	}
	want := []string{"c", "m", "a"}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestCardTitle(t *testing.T) {
	c := &Card{ID: "10.0.0.1:56700"}
	if c.Title() != "10.0.0.1:56700" {
		t.Errorf("Title = %q, want identifier", c.Title())
	}
	c.Label = "Lamp"
	if c.Title() != "Lamp" {
		t.Errorf("Title = %q, want Lamp", c.Title())
	}
}
