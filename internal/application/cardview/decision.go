package cardview

import (
	"github.com/khoahotran/cardify/internal/domain/profile"
)

type DecisionKind int

const (
	NoCard DecisionKind = iota
	Pending
	OwnLiveCard
	ForeignCard
	NotFound
)

func (k DecisionKind) String() string {
	switch k {
	case NoCard:
		return "no_card"
	case Pending:
		return "pending"
	case OwnLiveCard:
		return "own_live_card"
	case ForeignCard:
		return "foreign_card"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Decision is what the resolver concluded for one requested card id.
// Profile is set only for ForeignCard. Err is set for a NotFound caused by a
// failed fetch rather than a missing record.
type Decision struct {
	Kind        DecisionKind
	RequestedID string
	Profile     *profile.Profile
	Err         error
}
