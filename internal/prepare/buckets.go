package prepare

// Severity bucket labels for the delay classification.
const (
	SeverityCritical = "Critico >31d"
	SeverityModerate = "Moderado 1-31d"
	SeverityNone     = "Sin retraso"
)

// Impact bucket labels for the sales-impact classification.
const (
	ImpactOver500K  = ">$500K"
	Impact100To500K = "$100K-$500K"
	ImpactUpTo100K  = "$1-$100K"
	ImpactNone      = "Sin impacto"
)

// SeverityBucket classifies delay days. The 31-day boundary belongs to the
// moderate bucket (critical is strictly >31); zero and negatives are "no
// delay".
func SeverityBucket(days float64) string {
	switch {
	case days > 31:
		return SeverityCritical
	case days > 0:
		return SeverityModerate
	default:
		return SeverityNone
	}
}

// ImpactBucket classifies a sales-impact amount. Each upper boundary is
// inclusive of the lower bucket ($500K itself falls in $100K-$500K).
func ImpactBucket(amount float64) string {
	switch {
	case amount > 500000:
		return ImpactOver500K
	case amount > 100000:
		return Impact100To500K
	case amount > 0:
		return ImpactUpTo100K
	default:
		return ImpactNone
	}
}
