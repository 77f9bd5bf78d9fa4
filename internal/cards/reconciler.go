// Package cards keeps one card per light and merges polled snapshots into
// them without clobbering what the user is editing.
package cards

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/angristan/lifx-tui/internal/actions"
	"github.com/angristan/lifx-tui/internal/models"
)

// Dispatcher is the subset of the action dispatcher cards bind to
type Dispatcher interface {
	TogglePower(lightID string) *actions.Task
	SetColor(lightID, hex string, kelvin uint16) (*actions.Task, error)
}

// Card is the rendered state of one light
type Card struct {
	ID string
	// Label shown on the card; empty falls back to ID
	Label string
	On    bool
	// Current value of the color control, #RRGGBB
	Color    string
	Kelvin   uint16
	Firmware string
	// Stale is set while the light is missing from the latest snapshot
	Stale bool

	Editing bool
	Draft   string

	colorSet    bool
	toggle      func() *actions.Task
	commitColor func(hex string) (*actions.Task, error)
}

// Title returns the label to display
func (c *Card) Title() string {
	if c.Label == "" {
		return c.ID
	}
	return c.Label
}

// Toggle flips the light's power through the bound dispatcher
func (c *Card) Toggle() *actions.Task {
	if c.toggle == nil {
		return nil
	}
	return c.toggle()
}

// CommitColor sends hex with the card's Kelvin as it stands at commit
// time, not when the card was built.
func (c *Card) CommitColor(hex string) (*actions.Task, error) {
	if c.commitColor == nil {
		return nil, fmt.Errorf("card %s has no color binding", c.ID)
	}
	return c.commitColor(hex)
}

// Result describes what a reconcile pass did
type Result struct {
	Placeholder bool
	Created     []string
	Patched     []string
	Stale       []string
}

// Board owns every card, keyed by light identifier. It is not safe for
// concurrent use; the UI mutates it from its update loop only.
type Board struct {
	dispatcher Dispatcher
	scale      models.DeviceScale
	holds      *LabelHolds

	cards       map[string]*Card
	order       []string
	placeholder bool
	loaded      bool
}

// NewBoard creates an empty board
func NewBoard(dispatcher Dispatcher, scale models.DeviceScale, holds *LabelHolds) *Board {
	if holds == nil {
		holds = NewLabelHolds(0)
	}
	return &Board{
		dispatcher: dispatcher,
		scale:      scale,
		holds:      holds,
		cards:      make(map[string]*Card),
	}
}

// Reconcile merges a snapshot into the board. Cards are created for new
// lights and patched in place for known ones. Nothing is ever removed.
func (b *Board) Reconcile(snapshot models.Snapshot) Result {
	b.loaded = true
	b.holds.Cleanup()

	if len(snapshot) == 0 {
		b.placeholder = true
		return Result{Placeholder: true}
	}
	b.placeholder = false

	var res Result
	for _, id := range snapshot.IDs() {
		light := snapshot[id]

		card, ok := b.cards[id]
		if !ok {
			b.create(id, light)
			res.Created = append(res.Created, id)
			continue
		}
		b.patch(card, light)
		res.Patched = append(res.Patched, id)
	}

	for _, id := range b.order {
		card := b.cards[id]
		_, present := snapshot[id]
		if !present && !card.Stale {
			log.Debug().Str("light", id).Msg("Light missing from snapshot")
		}
		card.Stale = !present
		if card.Stale {
			res.Stale = append(res.Stale, id)
		}
	}

	return res
}

func (b *Board) create(id string, light models.LightState) {
	card := &Card{
		ID:       id,
		Label:    light.Label,
		On:       light.IsOn(),
		Color:    light.Hex(b.scale),
		Kelvin:   light.KelvinValue(),
		Firmware: light.FirmwareVersion,
		colorSet: light.Known,
	}
	b.bind(card)

	b.cards[id] = card
	b.order = append(b.order, id)
	log.Debug().Str("light", id).Str("color", card.Color).Msg("Card created")
}

func (b *Board) patch(card *Card, light models.LightState) {
	if !card.Editing && !b.holds.ShouldIgnore(card.ID, light.Label) {
		card.Label = light.Label
	}

	card.On = light.IsOn()
	card.toggle = b.toggleFor(card.ID)

	// The color control belongs to the user once it shows a real color.
	// A card created before the light reported any color gets it once.
	if !card.colorSet && light.Known {
		card.Color = light.Hex(b.scale)
		card.colorSet = true
	}

	card.Kelvin = light.KelvinValue()
	card.Firmware = light.FirmwareVersion
}

func (b *Board) bind(card *Card) {
	card.toggle = b.toggleFor(card.ID)
	card.commitColor = func(hex string) (*actions.Task, error) {
		return b.dispatcher.SetColor(card.ID, hex, card.Kelvin)
	}
}

func (b *Board) toggleFor(id string) func() *actions.Task {
	return func() *actions.Task {
		return b.dispatcher.TogglePower(id)
	}
}

// Placeholder reports whether the empty-state placeholder is showing
func (b *Board) Placeholder() bool {
	return b.placeholder
}

// Loaded reports whether at least one snapshot has been reconciled
func (b *Board) Loaded() bool {
	return b.loaded
}

// Len returns the number of cards
func (b *Board) Len() int {
	return len(b.order)
}

// Card returns the card for a light
func (b *Board) Card(id string) (*Card, bool) {
	card, ok := b.cards[id]
	return card, ok
}

// Cards returns every card in creation order
func (b *Board) Cards() []*Card {
	out := make([]*Card, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.cards[id])
	}
	return out
}

// BeginEdit switches a card into label-edit mode with the current label
// as draft. Polls stop touching the label until the edit ends.
func (b *Board) BeginEdit(id string) bool {
	card, ok := b.cards[id]
	if !ok {
		return false
	}
	card.Editing = true
	card.Draft = card.Label
	return true
}

// SetDraft updates the in-progress label
func (b *Board) SetDraft(id, text string) {
	if card, ok := b.cards[id]; ok && card.Editing {
		card.Draft = text
	}
}

// CancelEdit abandons an edit, keeping the label as it was
func (b *Board) CancelEdit(id string) {
	if card, ok := b.cards[id]; ok {
		card.Editing = false
		card.Draft = ""
	}
}

// CommitLabel leaves edit mode showing the new label right away. Polls
// still carrying the old label are ignored until the registry catches up.
func (b *Board) CommitLabel(id, label string) bool {
	if !b.ApplyLabel(id, label) {
		return false
	}
	b.CancelEdit(id)
	return true
}

// ApplyLabel is CommitLabel without touching edit mode, for a rename
// that lands after its editor was closed.
func (b *Board) ApplyLabel(id, label string) bool {
	card, ok := b.cards[id]
	if !ok {
		return false
	}
	card.Label = label
	b.holds.Hold(id, label)
	return true
}

// PickColor sets the card's color control and sends it to the light
func (b *Board) PickColor(id, hex string) (*actions.Task, error) {
	card, ok := b.cards[id]
	if !ok {
		return nil, fmt.Errorf("unknown light %s", id)
	}
	if _, _, _, err := models.HexToRGB(hex); err != nil {
		return nil, err
	}

	card.Color = strings.ToUpper(hex)
	card.colorSet = true
	return card.CommitColor(card.Color)
}
