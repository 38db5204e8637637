// README: Cancellation refund table keyed by service type, status, and lead time.
package trip

import "time"

// LeadBucket classifies how far before the trip start a cancellation lands.
type LeadBucket string

const (
	LeadOverDay  LeadBucket = "OVER_24H"
	LeadSameDay  LeadBucket = "2H_TO_24H"
	LeadImminent LeadBucket = "UNDER_2H"
)

func BucketLead(lead time.Duration) LeadBucket {
	switch {
	case lead >= 24*time.Hour:
		return LeadOverDay
	case lead >= 2*time.Hour:
		return LeadSameDay
	default:
		return LeadImminent
	}
}

// refundPercent is an explicit lookup table, not nested dynamic structures:
// rows are (status, lead bucket), with a per-service-type override where
// shared rides differ (seats are resold, so late cancels refund less).
var refundPercent = map[Status]map[LeadBucket]int{
	StatusBooking: {
		LeadOverDay:  100,
		LeadSameDay:  100,
		LeadImminent: 100,
	},
	StatusConfirmed: {
		LeadOverDay:  100,
		LeadSameDay:  70,
		LeadImminent: 30,
	},
}

var sharedRefundPercent = map[Status]map[LeadBucket]int{
	StatusConfirmed: {
		LeadOverDay:  100,
		LeadSameDay:  50,
		LeadImminent: 0,
	},
}

// RefundPercent returns the percentage of the trip amount refunded when a
// trip in the given status is cancelled with the given lead time. Statuses
// past CONFIRMED refund nothing.
func RefundPercent(serviceType ServiceType, status Status, lead time.Duration) int {
	bucket := BucketLead(lead)
	if serviceType == ServiceShared {
		if row, ok := sharedRefundPercent[status]; ok {
			return row[bucket]
		}
	}
	row, ok := refundPercent[status]
	if !ok {
		return 0
	}
	return row[bucket]
}
