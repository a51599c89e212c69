package domain

import "errors"

// ErrInvalidPlatform is returned when a string does not name a known platform.
var ErrInvalidPlatform = errors.New("domain: invalid platform")

// Platform identifies one of the third-party SaaS systems the suite integrates with.
type Platform string

const (
	// PlatformQuickBooks is Intuit QuickBooks Online (accounting).
	PlatformQuickBooks Platform = "quickbooks"
	// PlatformADP is ADP Workforce Now (payroll).
	PlatformADP Platform = "adp"
	// PlatformSAP is SAP S/4HANA Cloud (ERP).
	PlatformSAP Platform = "sap"
	// PlatformStripe is Stripe Connect (payments).
	PlatformStripe Platform = "stripe"
)

// AllPlatforms returns every supported platform in a stable order.
func AllPlatforms() []Platform {
	return []Platform{PlatformQuickBooks, PlatformADP, PlatformSAP, PlatformStripe}
}

// IsValid returns true if the platform is one of the enumerated values.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformQuickBooks, PlatformADP, PlatformSAP, PlatformStripe:
		return true
	default:
		return false
	}
}

func (p Platform) String() string {
	return string(p)
}

// DisplayName returns a human-readable name for the platform.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformQuickBooks:
		return "QuickBooks Online"
	case PlatformADP:
		return "ADP Workforce Now"
	case PlatformSAP:
		return "SAP S/4HANA Cloud"
	case PlatformStripe:
		return "Stripe"
	default:
		return string(p)
	}
}

// ParsePlatform converts s into a Platform, rejecting unknown values.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.IsValid() {
		return "", ErrInvalidPlatform
	}
	return p, nil
}

// SyncType selects between pulling every record or only changed ones.
type SyncType string

const (
	SyncTypeFull        SyncType = "full"
	SyncTypeIncremental SyncType = "incremental"
)

// IsValid returns true if the sync type is valid.
func (t SyncType) IsValid() bool {
	return t == SyncTypeFull || t == SyncTypeIncremental
}

func (t SyncType) String() string {
	return string(t)
}

// SyncState is the lifecycle state of a single sync attempt.
type SyncState string

const (
	SyncStatePending    SyncState = "pending"
	SyncStateInProgress SyncState = "in_progress"
	SyncStateCompleted  SyncState = "completed"
	SyncStateFailed     SyncState = "failed"
)

// IsTerminal returns true for states that allow no further transition.
func (s SyncState) IsTerminal() bool {
	return s == SyncStateCompleted || s == SyncStateFailed
}

func (s SyncState) String() string {
	return string(s)
}
