package engine

import (
	"math"
	"sort"

	"ptrs-service/internal/models"
)

// FilterSBTCP returns the small-business trade-credit-payment subset the
// regulator metrics are computed over: records classified small business
// that are neither partial payments nor excluded.
func FilterSBTCP(records []*models.PaymentRecord) []*models.PaymentRecord {
	var out []*models.PaymentRecord
	for _, r := range records {
		if r.IsSb != nil && *r.IsSb && !r.PartialPayment && !r.ExcludedTcp {
			out = append(out, r)
		}
	}
	return out
}

// ComputeMetrics derives the statistical summary for the regulator
// submission from the SBTCP subset. Every figure is a pure function of the
// input slice, so the same dataset always reproduces the same result.
//
// An empty dataset resolves every figure to nil ("insufficient data"),
// never zero. Records with an unknown payment time stay in every percentage
// denominator but count toward no numerator, so the bucket percentages may
// sum below 100.
func ComputeMetrics(sbtcp []*models.PaymentRecord) *models.MetricsResult {
	result := &models.MetricsResult{TotalRecords: len(sbtcp)}
	if len(sbtcp) == 0 {
		return result
	}

	terms := paymentTerms(sbtcp)
	result.ModePaymentTerm = modeOf(terms)
	result.PayerModeTermMin, result.PayerModeTermMax = payerModeRange(sbtcp)

	// The expected next-period figures carry the current period forward
	result.ExpectedModePaymentTerm = copyInt(result.ModePaymentTerm)
	result.ExpectedPayerModeTermMin = copyInt(result.PayerModeTermMin)
	result.ExpectedPayerModeTermMax = copyInt(result.PayerModeTermMax)

	times := paymentTimes(sbtcp)
	result.AveragePaymentTime = meanOf(times)
	result.MedianPaymentTime = medianOf(times)
	result.PaymentTime80th = percentileOf(times, 0.80)
	result.PaymentTime95th = percentileOf(times, 0.95)

	total := len(sbtcp)
	withinTerms := 0
	within30 := 0
	between31And60 := 0
	over60 := 0
	for _, r := range sbtcp {
		if r.PaymentTime == nil {
			continue
		}
		t := *r.PaymentTime
		if r.PaymentTerm != nil && t <= *r.PaymentTerm {
			withinTerms++
		}
		switch {
		case t <= 30:
			within30++
		case t <= 60:
			between31And60++
		default:
			over60++
		}
	}
	result.PaidWithinTermsPct = pct(withinTerms, total)
	result.PaidWithin30Pct = pct(within30, total)
	result.Paid31To60Pct = pct(between31And60, total)
	result.PaidOver60Pct = pct(over60, total)

	return result
}

func paymentTerms(records []*models.PaymentRecord) []int {
	var out []int
	for _, r := range records {
		if r.PaymentTerm != nil {
			out = append(out, *r.PaymentTerm)
		}
	}
	return out
}

func paymentTimes(records []*models.PaymentRecord) []int {
	var out []int
	for _, r := range records {
		if r.PaymentTime != nil {
			out = append(out, *r.PaymentTime)
		}
	}
	return out
}

// modeOf returns the most frequent value. Ties break to the value first
// encountered in iteration order, not the numerically smallest; the
// submission format depends on this exact tie-break.
func modeOf(values []int) *int {
	if len(values) == 0 {
		return nil
	}
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best := 0
	for _, v := range values {
		if counts[v] > best {
			best = counts[v]
		}
	}
	for _, v := range values {
		if counts[v] == best {
			return &v
		}
	}
	return nil
}

// payerModeRange groups records by payer entity, takes the payment-term
// mode within each group, and reports the min and max of those group modes.
func payerModeRange(records []*models.PaymentRecord) (*int, *int) {
	var payers []string
	groups := make(map[string][]int)
	for _, r := range records {
		if r.PaymentTerm == nil {
			continue
		}
		if _, ok := groups[r.PayerEntityName]; !ok {
			payers = append(payers, r.PayerEntityName)
		}
		groups[r.PayerEntityName] = append(groups[r.PayerEntityName], *r.PaymentTerm)
	}

	var min, max *int
	for _, payer := range payers {
		mode := modeOf(groups[payer])
		if mode == nil {
			continue
		}
		if min == nil || *mode < *min {
			min = copyInt(mode)
		}
		if max == nil || *mode > *max {
			max = copyInt(mode)
		}
	}
	return min, max
}

func meanOf(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	mean := float64(sum) / float64(len(values))
	return &mean
}

// medianOf sorts and takes the midpoint; even-length inputs average the two
// central values.
func medianOf(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	var median float64
	if len(sorted)%2 == 0 {
		median = float64(sorted[mid-1]+sorted[mid]) / 2
	} else {
		median = float64(sorted[mid])
	}
	return &median
}

// percentileOf uses the nearest-rank method: sort ascending and take the
// element at index ceil(p*n)-1, with no interpolation.
func percentileOf(values []int, p float64) *int {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return &sorted[rank]
}

func pct(count, total int) *float64 {
	if total == 0 {
		return nil
	}
	v := float64(count) / float64(total) * 100
	return &v
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
