package shop

import (
	"math"
	"time"
)

// XpBoost is a temporary multiplicative XP bonus. At most one exists;
// buying another while active stacks duration onto the existing expiry.
type XpBoost struct {
	Multiplier float64   `json:"multiplier"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func (b *XpBoost) IsActive(now time.Time) bool {
	return b != nil && b.ExpiresAt.After(now)
}

// PurchaseBoost returns the boost resulting from buying an offer. An
// active boost extends from its current expiry; an expired or absent
// one starts fresh from now.
func PurchaseBoost(current *XpBoost, multiplier float64, duration time.Duration, now time.Time) *XpBoost {
	base := now
	if current.IsActive(now) {
		base = current.ExpiresAt
	}
	return &XpBoost{Multiplier: multiplier, ExpiresAt: base.Add(duration)}
}

// BoostedXP scales a raw XP amount by the active multiplier, rounded
// to the nearest integer. Reading an expired boost lazily clears it:
// the returned boost pointer replaces the stored one.
func BoostedXP(current *XpBoost, raw int, now time.Time) (int, *XpBoost) {
	if !current.IsActive(now) {
		return raw, nil
	}
	return int(math.Round(float64(raw) * current.Multiplier)), current
}
