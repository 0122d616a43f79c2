package services

import "pawrate_go_backend/internal/models"

// UnlimitedScans is the allowance sentinel for tiers without a cap.
const UnlimitedScans = -1

// AllowanceForTier resolves a subscription tier to its scan allowance
// per billing cycle. Pure; unknown or missing tiers fall back to the
// free allowance.
func AllowanceForTier(tier models.SubscriptionTier) int {
	switch tier {
	case models.TierPro:
		return 10
	case models.TierUnlimited:
		return UnlimitedScans
	case models.TierFree, models.TierBasic:
		return 2
	default:
		return 2
	}
}

// RemainingScans computes how many scans are left on a usage record
// for the given tier, counting purchased top-up credit. Returns
// UnlimitedScans for uncapped tiers.
func RemainingScans(tier models.SubscriptionTier, usage *models.UsageRecord) int {
	allowance := AllowanceForTier(tier)
	if allowance == UnlimitedScans {
		return UnlimitedScans
	}
	remaining := allowance + usage.PurchasedScans - usage.ScansThisMonth
	if remaining < 0 {
		return 0
	}
	return remaining
}
