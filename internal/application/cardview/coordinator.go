package cardview

import (
	"github.com/khoahotran/cardify/internal/application/session"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/internal/domain/theme"
	"github.com/khoahotran/cardify/pkg/logger"
	"go.uber.org/zap"
)

// Slot is the part of the profile store the coordinator writes to.
type Slot interface {
	Active() session.ActiveView
	Replace(p *profile.Profile, themeID string)
}

type State int

const (
	Idle State = iota
	Patched
)

func (s State) String() string {
	if s == Patched {
		return "patched"
	}
	return "idle"
}

// PatchRecord is the slot content captured right before a foreign card replaced it.
type PatchRecord struct {
	View session.ActiveView
}

// Coordinator overlays foreign cards on the shared slot and puts the original
// back afterwards. It is not safe for concurrent use; Page serializes access.
type Coordinator struct {
	slot   Slot
	patch  *PatchRecord
	logger logger.Logger
}

func NewCoordinator(slot Slot, log logger.Logger) *Coordinator {
	return &Coordinator{slot: slot, logger: log}
}

func (c *Coordinator) State() State {
	if c.patch != nil {
		return Patched
	}
	return Idle
}

// Record returns the outstanding patch record, or nil when Idle.
func (c *Coordinator) Record() *PatchRecord {
	return c.patch
}

// SessionView is what the slot holds outside of any patch: the captured view
// while Patched, the live slot otherwise.
func (c *Coordinator) SessionView() session.ActiveView {
	if c.patch != nil {
		return c.patch.View
	}
	return c.slot.Active()
}

// Apply feeds one resolver decision into the state machine.
func (c *Coordinator) Apply(d Decision) {
	switch d.Kind {
	case Pending:
		return
	case ForeignCard:
		c.show(d.Profile)
	case OwnLiveCard, NoCard, NotFound:
		c.restore(d.Kind.String())
	}
}

// Teardown restores the slot if a patch is active. Safe to call more than once.
func (c *Coordinator) Teardown() {
	c.restore("teardown")
}

func (c *Coordinator) show(p *profile.Profile) {
	if c.patch == nil {
		c.patch = &PatchRecord{View: c.slot.Active()}
		c.slot.Replace(p, p.Theme)
		c.logger.Debug("Patched active profile",
			zap.String("card_user_id", p.UserID),
			zap.String("restore_user_id", c.patch.View.UserID()))
		return
	}

	cur := c.slot.Active()
	if cur.UserID() != p.UserID || cur.ThemeID != theme.Resolve(p.Theme) {
		c.slot.Replace(p, p.Theme)
	}
}

func (c *Coordinator) restore(reason string) {
	if c.patch == nil {
		return
	}
	rec := c.patch
	c.patch = nil
	c.slot.Replace(rec.View.Profile, rec.View.ThemeID)
	c.logger.Debug("Restored active profile",
		zap.String("reason", reason),
		zap.String("user_id", rec.View.UserID()))
}
