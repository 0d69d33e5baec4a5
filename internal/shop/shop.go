// Package shop owns cosmetic ownership, the equipped selection and the
// XP boost. Catalog membership and pricing are configuration; this
// package only applies cost and effect.
package shop

import "slices"

type ItemKind string

const (
	KindFrame ItemKind = "frame"
	KindSkin  ItemKind = "skin"
	KindBadge ItemKind = "badge"
	KindBoost ItemKind = "boost"
)

func (k ItemKind) IsValid() bool {
	switch k {
	case KindFrame, KindSkin, KindBadge, KindBoost:
		return true
	default:
		return false
	}
}

// Item is one catalog entry. Multiplier and DurationMs only apply to
// boost offers.
type Item struct {
	ID         string   `json:"id" yaml:"id"`
	Kind       ItemKind `json:"kind" yaml:"kind"`
	Label      string   `json:"label" yaml:"label"`
	Cost       int      `json:"cost" yaml:"cost"`
	Multiplier float64  `json:"multiplier,omitempty" yaml:"multiplier"`
	DurationMs int64    `json:"durationMs,omitempty" yaml:"duration_ms"`
}

// Hard defaults every profile owns from the start.
const (
	DefaultFrame = "classic"
	DefaultSkin  = "default"
)

type State struct {
	OwnedFrames   []string `json:"ownedFrames"`
	OwnedSkins    []string `json:"ownedSkins"`
	OwnedBadges   []string `json:"ownedBadges,omitempty"`
	EquippedFrame string   `json:"equippedFrame"`
	EquippedSkin  string   `json:"equippedSkin"`
	Boost         *XpBoost `json:"boost,omitempty"`
}

func NewState() State {
	return State{
		OwnedFrames:   []string{DefaultFrame},
		OwnedSkins:    []string{DefaultSkin},
		EquippedFrame: DefaultFrame,
		EquippedSkin:  DefaultSkin,
	}
}

func (s State) Owns(kind ItemKind, id string) bool {
	switch kind {
	case KindFrame:
		return slices.Contains(s.OwnedFrames, id)
	case KindSkin:
		return slices.Contains(s.OwnedSkins, id)
	case KindBadge:
		return slices.Contains(s.OwnedBadges, id)
	default:
		return false
	}
}

// AddOwned records ownership of a cosmetic, once.
func (s State) AddOwned(kind ItemKind, id string) State {
	if s.Owns(kind, id) {
		return s
	}
	switch kind {
	case KindFrame:
		s.OwnedFrames = append(slices.Clone(s.OwnedFrames), id)
	case KindSkin:
		s.OwnedSkins = append(slices.Clone(s.OwnedSkins), id)
	case KindBadge:
		s.OwnedBadges = append(slices.Clone(s.OwnedBadges), id)
	}
	return s
}

// Equip selects an owned cosmetic; unowned ids are rejected.
func (s State) Equip(kind ItemKind, id string) (State, bool) {
	if !s.Owns(kind, id) {
		return s, false
	}
	switch kind {
	case KindFrame:
		s.EquippedFrame = id
	case KindSkin:
		s.EquippedSkin = id
	default:
		return s, false
	}
	return s, true
}

// Normalize repairs restored state: equipped ids must be owned, owned
// lists always include the hard defaults. Used by the snapshot
// reconciler.
func Normalize(s State) State {
	if !slices.Contains(s.OwnedFrames, DefaultFrame) {
		s.OwnedFrames = append([]string{DefaultFrame}, s.OwnedFrames...)
	}
	if !slices.Contains(s.OwnedSkins, DefaultSkin) {
		s.OwnedSkins = append([]string{DefaultSkin}, s.OwnedSkins...)
	}
	if !slices.Contains(s.OwnedFrames, s.EquippedFrame) {
		s.EquippedFrame = s.OwnedFrames[0]
	}
	if !slices.Contains(s.OwnedSkins, s.EquippedSkin) {
		s.EquippedSkin = s.OwnedSkins[0]
	}
	return s
}

// Catalog is the static price/effect table, usually loaded from the
// balance config.
type Catalog struct {
	Items []Item
}

func (c Catalog) Find(id string) (Item, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// DefaultCatalog mirrors the built-in shop table.
func DefaultCatalog() Catalog {
	return Catalog{Items: []Item{
		{ID: DefaultFrame, Kind: KindFrame, Label: "Classic Frame", Cost: 0},
		{ID: "gilded", Kind: KindFrame, Label: "Gilded Frame", Cost: 120},
		{ID: "obsidian", Kind: KindFrame, Label: "Obsidian Frame", Cost: 250},
		{ID: DefaultSkin, Kind: KindSkin, Label: "Default Skin", Cost: 0},
		{ID: "midnight", Kind: KindSkin, Label: "Midnight Skin", Cost: 150},
		{ID: "aurora", Kind: KindSkin, Label: "Aurora Skin", Cost: 300},
		{ID: "badge_veteran", Kind: KindBadge, Label: "Veteran", Cost: 200},
		{ID: "boost_2x_1h", Kind: KindBoost, Label: "2x XP (1h)", Cost: 100, Multiplier: 2, DurationMs: 3_600_000},
		{ID: "boost_1_5x_4h", Kind: KindBoost, Label: "1.5x XP (4h)", Cost: 80, Multiplier: 1.5, DurationMs: 14_400_000},
	}}
}
