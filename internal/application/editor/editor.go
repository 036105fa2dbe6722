package editor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/cardify/internal/application/session"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/internal/domain/theme"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
)

var tracer = otel.Tracer("editor")

var (
	ErrNoSession = errors.New("no active profile to edit")
	ErrNoDraft   = errors.New("editing has not begun")
)

type ImageKind = profile.ImageKind

const (
	ImageProfile = profile.ImageProfile
	ImageCover   = profile.ImageCover
)

type Persister interface {
	SaveProfile(ctx context.Context, p *profile.Profile) error
}

type ImageUploader interface {
	UploadImage(ctx context.Context, userID string, kind ImageKind, filename string, r io.Reader) (string, error)
}

// SaveError means validation passed but the record could not be written. The
// draft is kept so the save can be retried.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return fmt.Sprintf("save failed: %v", e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }

// Editor holds a private draft of the session's profile. Nothing reaches the
// shared store until Save has persisted the draft.
type Editor struct {
	store     *session.Store
	persister Persister
	uploader  ImageUploader
	logger    logger.Logger

	draft *profile.Profile
	base  *profile.Profile
}

func New(store *session.Store, persister Persister, uploader ImageUploader, log logger.Logger) *Editor {
	return &Editor{store: store, persister: persister, uploader: uploader, logger: log}
}

// Begin starts a fresh draft from the active profile.
func (e *Editor) Begin() error {
	active := e.store.Active()
	if active.Empty() {
		return ErrNoSession
	}
	e.base = active.Profile.Clone()
	e.draft = active.Profile.Clone()
	e.draft.Theme = active.ThemeID
	return nil
}

// Draft exposes the draft for direct field edits. Before Begin it is nil and
// the list helpers below report failure ("" or false).
func (e *Editor) Draft() *profile.Profile {
	return e.draft
}

// Dirty reports whether the draft differs from what editing started from.
func (e *Editor) Dirty() bool {
	if e.draft == nil {
		return false
	}
	return !equalProfiles(e.base, e.draft)
}

func (e *Editor) Discard() {
	e.draft = nil
	e.base = nil
}

func (e *Editor) SetTheme(id string) error {
	if e.draft == nil {
		return ErrNoDraft
	}
	if !theme.Exists(id) {
		return apperror.NewInvalidInput(fmt.Sprintf("unknown theme '%s'", id), nil)
	}
	e.draft.Theme = id
	return nil
}

func newID() string {
	return uuid.NewString()
}

func skillID(s profile.Skill) string              { return s.ID }
func educationID(e profile.EducationEntry) string { return e.ID }
func linkID(l profile.SocialLink) string          { return l.ID }
func detailID(d profile.ProfessionalDetail) string {
	return d.ID
}

func (e *Editor) AddSkill(name string) string {
	if e.draft == nil {
		return ""
	}
	s := profile.Skill{ID: newID(), Name: name, IsVisible: true}
	e.draft.Skills = append(e.draft.Skills, s)
	return s.ID
}

func (e *Editor) UpdateSkill(s profile.Skill) bool {
	if e.draft == nil {
		return false
	}
	return replaceByID(e.draft.Skills, s.ID, s, skillID)
}

func (e *Editor) RemoveSkill(id string) bool {
	if e.draft == nil {
		return false
	}
	var ok bool
	e.draft.Skills, ok = removeByID(e.draft.Skills, id, skillID)
	return ok
}

func (e *Editor) MoveSkill(id string, to int) bool {
	if e.draft == nil {
		return false
	}
	return moveByID(e.draft.Skills, id, to, skillID)
}

func (e *Editor) AddEducation(entry profile.EducationEntry) string {
	if e.draft == nil {
		return ""
	}
	entry.ID = newID()
	e.draft.Education = append(e.draft.Education, entry)
	return entry.ID
}

func (e *Editor) UpdateEducation(entry profile.EducationEntry) bool {
	if e.draft == nil {
		return false
	}
	return replaceByID(e.draft.Education, entry.ID, entry, educationID)
}

func (e *Editor) RemoveEducation(id string) bool {
	if e.draft == nil {
		return false
	}
	var ok bool
	e.draft.Education, ok = removeByID(e.draft.Education, id, educationID)
	return ok
}

func (e *Editor) MoveEducation(id string, to int) bool {
	if e.draft == nil {
		return false
	}
	return moveByID(e.draft.Education, id, to, educationID)
}

func (e *Editor) AddLink(l profile.SocialLink) string {
	if e.draft == nil {
		return ""
	}
	l.ID = newID()
	e.draft.Links = append(e.draft.Links, l)
	return l.ID
}

func (e *Editor) UpdateLink(l profile.SocialLink) bool {
	if e.draft == nil {
		return false
	}
	return replaceByID(e.draft.Links, l.ID, l, linkID)
}

func (e *Editor) RemoveLink(id string) bool {
	if e.draft == nil {
		return false
	}
	var ok bool
	e.draft.Links, ok = removeByID(e.draft.Links, id, linkID)
	return ok
}

func (e *Editor) MoveLink(id string, to int) bool {
	if e.draft == nil {
		return false
	}
	return moveByID(e.draft.Links, id, to, linkID)
}

func (e *Editor) AddProfessionalDetail(d profile.ProfessionalDetail) string {
	if e.draft == nil {
		return ""
	}
	d.ID = newID()
	e.draft.ProfessionalDetails = append(e.draft.ProfessionalDetails, d)
	return d.ID
}

func (e *Editor) UpdateProfessionalDetail(d profile.ProfessionalDetail) bool {
	if e.draft == nil {
		return false
	}
	return replaceByID(e.draft.ProfessionalDetails, d.ID, d, detailID)
}

func (e *Editor) RemoveProfessionalDetail(id string) bool {
	if e.draft == nil {
		return false
	}
	var ok bool
	e.draft.ProfessionalDetails, ok = removeByID(e.draft.ProfessionalDetails, id, detailID)
	return ok
}

func (e *Editor) MoveProfessionalDetail(id string, to int) bool {
	if e.draft == nil {
		return false
	}
	return moveByID(e.draft.ProfessionalDetails, id, to, detailID)
}

// UploadImage sends an image to the hosting service and stores the resulting
// URL in the draft field for kind.
func (e *Editor) UploadImage(ctx context.Context, kind ImageKind, filename string, r io.Reader) (string, error) {
	if e.draft == nil {
		return "", ErrNoDraft
	}
	url, err := e.uploader.UploadImage(ctx, e.draft.UserID, kind, filename, r)
	if err != nil {
		e.logger.Warn("Image upload failed", zap.String("kind", string(kind)), zap.Error(err))
		return "", err
	}
	switch kind {
	case ImageCover:
		e.draft.CoverPhotoURL = url
	default:
		e.draft.ProfilePictureURL = url
	}
	return url, nil
}

// Save validates and persists the draft, then publishes it to the store. On any
// failure the store is left alone and the draft stays editable.
func (e *Editor) Save(ctx context.Context) error {
	if e.draft == nil {
		return ErrNoDraft
	}
	ctx, span := tracer.Start(ctx, "Save")
	defer span.End()

	if err := profile.Validate(e.draft); err != nil {
		var fe profile.FieldErrors
		if errors.As(err, &fe) {
			return apperror.NewValidation(fe)
		}
		return apperror.NewInvalidInput("profile validation failed", err)
	}

	saved := e.draft.Clone()
	if err := e.persister.SaveProfile(ctx, saved); err != nil {
		span.RecordError(err)
		e.logger.Error("Failed to save profile", err, zap.String("user_id", saved.UserID))
		return &SaveError{Err: err}
	}

	e.store.Replace(saved, saved.Theme)
	e.base = saved.Clone()
	e.logger.Info("Profile saved", zap.String("user_id", saved.UserID))
	return nil
}
