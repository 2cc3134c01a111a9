package rating

// SplitPoints divides total points across n team members so the shares sum
// to exactly total: every member gets total/n, and the first total%n members
// (in roster order) carry one extra point each.
//
// The same routine is used for crediting the winning side and debiting the
// losing side, so the totals applied to the two sides are equal and opposite
// by construction even when the team sizes differ. Any other split leaks
// points on uneven matchups like 1v2.
func SplitPoints(total, n int) []int {
	if n <= 0 {
		return nil
	}
	shares := make([]int, n)
	base := total / n
	remainder := total % n
	for i := range shares {
		shares[i] = base
		switch {
		case remainder > 0 && i < remainder:
			shares[i]++
		case remainder < 0 && i < -remainder:
			shares[i]--
		}
	}
	return shares
}
