package domain

// TicketCategory enumerates supported problem areas.
type TicketCategory string

const (
	CategoryHardware TicketCategory = "hardware"
	CategorySoftware TicketCategory = "software"
	CategoryNetwork  TicketCategory = "network"
	CategoryAccess   TicketCategory = "access"
	CategoryGeneral  TicketCategory = "general"
)

// KnownCategories lists every category the classifier may emit.
var KnownCategories = []TicketCategory{
	CategoryHardware,
	CategorySoftware,
	CategoryNetwork,
	CategoryAccess,
	CategoryGeneral,
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c TicketCategory) bool {
	for _, known := range KnownCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Urgency enumerates SLA urgency.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// ValidUrgency reports whether u is a known urgency level.
func ValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}

// ExpertiseLevel enumerates the support tier a ticket requires.
type ExpertiseLevel string

const (
	ExpertiseTier1 ExpertiseLevel = "tier1"
	ExpertiseTier2 ExpertiseLevel = "tier2"
	ExpertiseTier3 ExpertiseLevel = "tier3"
)

// ValidExpertiseLevel reports whether e is a known tier.
func ValidExpertiseLevel(e ExpertiseLevel) bool {
	switch e {
	case ExpertiseTier1, ExpertiseTier2, ExpertiseTier3:
		return true
	}
	return false
}

// TierRank maps a tier to a comparable rank; unknown tiers rank zero.
func TierRank(e ExpertiseLevel) int {
	switch e {
	case ExpertiseTier1:
		return 1
	case ExpertiseTier2:
		return 2
	case ExpertiseTier3:
		return 3
	}
	return 0
}

// Classification is the validated output of the classifier stage.
type Classification struct {
	Category       TicketCategory `json:"category"`
	Urgency        Urgency        `json:"urgency"`
	ExpertiseLevel ExpertiseLevel `json:"expertise_level"`
	Reasoning      string         `json:"reasoning"`
}
