package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
)

const profilesTable = "user_profiles"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var profileColumns = []string{
	"user_id", "short_id",
	"first_name", "last_name", "headline", "profession", "company", "location",
	"profile_picture_url", "cover_photo_url", "contact_email", "contact_phone",
	"skills", "education", "links", "professional_details",
	"show_headline", "show_profession", "show_company", "show_location",
	"show_contact_email", "show_contact_phone",
	"theme", "updated_at",
}

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

func (r *postgresProfileRepo) scanProfile(row pgx.Row, identifier string) (*profile.Profile, error) {
	p := &profile.Profile{}
	var skills, education, links, details []byte

	err := row.Scan(
		&p.UserID, &p.ShortID,
		&p.FirstName, &p.LastName, &p.Headline, &p.Profession, &p.Company, &p.Location,
		&p.ProfilePictureURL, &p.CoverPhotoURL, &p.ContactEmail, &p.ContactPhone,
		&skills, &education, &links, &details,
		&p.ShowHeadline, &p.ShowProfession, &p.ShowCompany, &p.ShowLocation,
		&p.ShowContactEmail, &p.ShowContactPhone,
		&p.Theme, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("profile", identifier)
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}

	// Unmarshal JSONB
	r.unmarshalList(skills, &p.Skills, "skills", p.UserID)
	r.unmarshalList(education, &p.Education, "education", p.UserID)
	r.unmarshalList(links, &p.Links, "links", p.UserID)
	r.unmarshalList(details, &p.ProfessionalDetails, "professional_details", p.UserID)

	return p.Normalize(), nil
}

func (r *postgresProfileRepo) unmarshalList(raw []byte, dst any, column, userID string) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		r.logger.Warn("Failed to unmarshal "+column, zap.String("user_id", userID), zap.Error(err))
	}
}

func (r *postgresProfileRepo) getBy(ctx context.Context, column, value string) (*profile.Profile, error) {
	query, args, err := psql.Select(profileColumns...).
		From(profilesTable).
		Where(sq.Eq{column: value}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile query", err)
	}
	return r.scanProfile(r.db.QueryRow(ctx, query, args...), value)
}

func (r *postgresProfileRepo) GetByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	return r.getBy(ctx, "user_id", userID)
}

func (r *postgresProfileRepo) GetByShortID(ctx context.Context, shortID string) (*profile.Profile, error) {
	return r.getBy(ctx, "short_id", shortID)
}

// Replace writes the whole record; an existing row for the user is overwritten.
func (r *postgresProfileRepo) Replace(ctx context.Context, p *profile.Profile) error {
	p.Normalize()
	lists := make([][]byte, 0, 4)
	for _, l := range []any{p.Skills, p.Education, p.Links, p.ProfessionalDetails} {
		b, err := json.Marshal(l)
		if err != nil {
			return apperror.NewInternal("failed to marshal profile lists", err)
		}
		lists = append(lists, b)
	}
	if p.ShortID == "" {
		p.ShortID = profile.ShortID(p.UserID)
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	updates := make([]string, 0, len(profileColumns)-1)
	for _, c := range profileColumns[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	query, args, err := psql.Insert(profilesTable).
		Columns(profileColumns...).
		Values(
			p.UserID, p.ShortID,
			p.FirstName, p.LastName, p.Headline, p.Profession, p.Company, p.Location,
			p.ProfilePictureURL, p.CoverPhotoURL, p.ContactEmail, p.ContactPhone,
			lists[0], lists[1], lists[2], lists[3],
			p.ShowHeadline, p.ShowProfession, p.ShowCompany, p.ShowLocation,
			p.ShowContactEmail, p.ShowContactPhone,
			p.Theme, p.UpdatedAt,
		).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET " + strings.Join(updates, ", ")).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build profile upsert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return apperror.NewInternal("failed to upsert profile", err)
	}
	return nil
}
