package checkout

// EffectiveAmount applies a percentage discount to a unit price in cents.
// Integer arithmetic, fractions round down.
func EffectiveAmount(priceCents int64, discountPercent int) int64 {
	if discountPercent <= 0 {
		return priceCents
	}
	if discountPercent >= 100 {
		return 0
	}
	return priceCents * int64(100-discountPercent) / 100
}
