package models

// Tier is a user's subscription level. Upgrades are owned by the billing
// component; this package only maps tiers to quota limits.
type Tier string

const (
	TierFree      Tier = "free"
	TierStarter   Tier = "starter"
	TierStandard  Tier = "standard"
	TierPro       Tier = "pro"
	TierUnlimited Tier = "unlimited"
)

// ErrInvalidTier is returned when a tier value is not one of the known plans
var ErrInvalidTier = UserError{"invalid subscription tier"}

// IsValidTier checks if a tier value is valid
func IsValidTier(t string) bool {
	switch Tier(t) {
	case TierFree, TierStarter, TierStandard, TierPro, TierUnlimited:
		return true
	}
	return false
}

// PlanLimits holds the quota limits for a tier
type PlanLimits struct {
	// MaxCollections is the number of collections a user may own.
	// A negative value means no limit.
	MaxCollections int

	// MaxItemsPerCollection caps the lifetime number of items ever added to
	// a single collection. Removing items never frees headroom.
	MaxItemsPerCollection int
}

// Unlimited reports whether the collection count is uncapped
func (l PlanLimits) Unlimited() bool {
	return l.MaxCollections < 0
}

// AllowsCollections reports whether a user holding count collections may
// create another one
func (l PlanLimits) AllowsCollections(count int) bool {
	return l.Unlimited() || count < l.MaxCollections
}

var planLimits = map[Tier]PlanLimits{
	TierFree:      {MaxCollections: 1, MaxItemsPerCollection: 20},
	TierStarter:   {MaxCollections: 2, MaxItemsPerCollection: 25},
	TierStandard:  {MaxCollections: 3, MaxItemsPerCollection: 30},
	TierPro:       {MaxCollections: 4, MaxItemsPerCollection: 35},
	TierUnlimited: {MaxCollections: -1, MaxItemsPerCollection: 40},
}

// LimitsFor returns the quota limits for a tier. Unknown tiers fall back to
// the free plan rather than granting headroom.
func LimitsFor(tier Tier) PlanLimits {
	if limits, ok := planLimits[tier]; ok {
		return limits
	}
	return planLimits[TierFree]
}
