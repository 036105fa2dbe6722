package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/khoahotran/cardify/internal/application/session"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/internal/domain/theme"
)

const cardWidth = 56

const (
	EmptyMessage    = "No profile data available. Please log in or select a user."
	NotFoundTitle   = "Card Not Found"
	NotFoundMessage = "The digital business card you're looking for doesn't exist or is unavailable."
	LoadingMessage  = "Loading Digital Card..."
)

// Renderer turns the active view into terminal output. It looks at nothing but
// its arguments, so the same renderer serves the editor preview and card pages.
type Renderer struct {
	lg *lipgloss.Renderer
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{lg: lipgloss.NewRenderer(w)}
}

type styles struct {
	frame   lipgloss.Style
	name    lipgloss.Style
	muted   lipgloss.Style
	section lipgloss.Style
	accent  lipgloss.Style
}

func (r *Renderer) stylesFor(t theme.Theme) styles {
	return styles{
		frame: r.lg.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Accent)).
			Foreground(lipgloss.Color(t.Foreground)).
			Background(lipgloss.Color(t.Background)).
			Padding(1, 2).
			Width(cardWidth),
		name:    r.lg.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Accent)),
		muted:   r.lg.NewStyle().Italic(true),
		section: r.lg.NewStyle().Bold(true).Underline(true),
		accent:  r.lg.NewStyle().Foreground(lipgloss.Color(t.Accent)),
	}
}

// Card renders the three states of a card: skeleton while pending, an empty
// state when nothing is loaded, and the full card otherwise.
func (r *Renderer) Card(view session.ActiveView, pending bool) string {
	if pending {
		return r.Skeleton()
	}
	if view.Empty() {
		return r.Message("", EmptyMessage)
	}
	return r.full(view.Profile, theme.ByID(view.ThemeID))
}

func (r *Renderer) Skeleton() string {
	st := r.stylesFor(theme.ByID(theme.DefaultID))
	bar := strings.Repeat("░", cardWidth-8)
	half := strings.Repeat("░", (cardWidth-8)/2)
	lines := []string{half, "", bar, bar, "", LoadingMessage}
	return st.frame.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) NotFound() string {
	return r.Message(NotFoundTitle, NotFoundMessage)
}

func (r *Renderer) Message(title, body string) string {
	st := r.stylesFor(theme.ByID(theme.DefaultID))
	if title == "" {
		return st.frame.Render(body)
	}
	return st.frame.Render(st.name.Render(title) + "\n\n" + body)
}

func (r *Renderer) full(p *profile.Profile, t theme.Theme) string {
	st := r.stylesFor(t)
	var b strings.Builder

	if p.CoverPhotoURL != "" {
		fmt.Fprintf(&b, "[cover] %s\n", p.CoverPhotoURL)
	}
	if p.ProfilePictureURL != "" {
		fmt.Fprintf(&b, "[photo] %s\n", p.ProfilePictureURL)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}

	b.WriteString(st.name.Render(p.FullName()))
	b.WriteString("\n")
	if p.ShowHeadline && p.Headline != "" {
		b.WriteString(st.muted.Render(p.Headline))
		b.WriteString("\n")
	}

	var work []string
	if p.ShowProfession && p.Profession != "" {
		work = append(work, "Profession: "+p.Profession)
	}
	if p.ShowCompany && p.Company != "" {
		work = append(work, "Company: "+p.Company)
	}
	if p.ShowLocation && p.Location != "" {
		work = append(work, "Location: "+p.Location)
	}
	for _, d := range p.ProfessionalDetails {
		if !d.Visible() {
			continue
		}
		line := d.Profession
		if d.Company != "" {
			line += " @ " + d.Company
		}
		if d.Location != "" {
			line += " (" + d.Location + ")"
		}
		work = append(work, line)
	}
	writeSection(&b, st, "", work)

	var contact []string
	if p.ShowContactEmail && p.ContactEmail != "" {
		contact = append(contact, "Email: "+p.ContactEmail)
	}
	if p.ShowContactPhone && p.ContactPhone != "" {
		contact = append(contact, "Phone: "+p.ContactPhone)
	}
	writeSection(&b, st, "Contact", contact)

	var skills []string
	for _, s := range p.Skills {
		if s.IsVisible {
			skills = append(skills, st.accent.Render("•")+" "+s.Name)
		}
	}
	writeSection(&b, st, "Skills", skills)

	var education []string
	for _, e := range p.Education {
		if e.IsVisible {
			education = append(education, fmt.Sprintf("%s, %s (%s)", e.Degree, e.Institution, e.Period))
		}
	}
	writeSection(&b, st, "Education", education)

	var links []string
	for _, l := range p.Links {
		if !l.IsVisible {
			continue
		}
		label := l.Label
		if label == "" {
			label = l.Platform
		}
		links = append(links, label+": "+l.URL)
	}
	writeSection(&b, st, "Links", links)

	return st.frame.Render(strings.TrimRight(b.String(), "\n"))
}

func writeSection(b *strings.Builder, st styles, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString("\n")
	if title != "" {
		b.WriteString(st.section.Render(title))
		b.WriteString("\n")
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
}
