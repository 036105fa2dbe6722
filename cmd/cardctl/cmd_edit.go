package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/khoahotran/cardify/internal/application/editor"
	"github.com/khoahotran/cardify/internal/domain/profile"
	"github.com/khoahotran/cardify/internal/domain/theme"
)

var editSettings []string

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your card",
	Long:  "Edit your card in a form, or non-interactively with --set key=value (repeatable). Nothing is shown to others until the save succeeds.",
	Example: `  cardctl edit
  cardctl edit --set headline="Building things" --set theme=ocean --set showContactPhone=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireSession(); err != nil {
			return err
		}
		ed := cli.editor()
		if err := ed.Begin(); err != nil {
			return err
		}

		if len(editSettings) > 0 {
			for _, kv := range editSettings {
				key, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("--set expects key=value, got %q", kv)
				}
				if err := applySetting(ed, key, value); err != nil {
					return err
				}
			}
		} else if err := runEditForm(ed); err != nil {
			return err
		}

		if !ed.Dirty() {
			cli.println("No changes.")
			return nil
		}
		if err := cli.toast(ed.Save(cli.ctx)); err != nil {
			return err
		}
		cli.println(cli.renderer.Card(cli.store.Active(), false))
		return nil
	},
}

func init() {
	editCmd.Flags().StringArrayVar(&editSettings, "set", nil, "set a field, e.g. headline=Hello or showCompany=false")
}

func applySetting(ed *editor.Editor, key, value string) error {
	d := ed.Draft()
	text := map[string]*string{
		"firstName":         &d.FirstName,
		"lastName":          &d.LastName,
		"headline":          &d.Headline,
		"profession":        &d.Profession,
		"company":           &d.Company,
		"location":          &d.Location,
		"contactEmail":      &d.ContactEmail,
		"contactPhone":      &d.ContactPhone,
		"profilePictureUrl": &d.ProfilePictureURL,
		"coverPhotoUrl":     &d.CoverPhotoURL,
	}
	flags := map[string]*bool{
		"showHeadline":     &d.ShowHeadline,
		"showProfession":   &d.ShowProfession,
		"showCompany":      &d.ShowCompany,
		"showLocation":     &d.ShowLocation,
		"showContactEmail": &d.ShowContactEmail,
		"showContactPhone": &d.ShowContactPhone,
	}

	if key == "theme" {
		return ed.SetTheme(value)
	}
	if field, ok := text[key]; ok {
		*field = value
		return nil
	}
	if field, ok := flags[key]; ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false", key)
		}
		*field = b
		return nil
	}
	return fmt.Errorf("unknown field %q", key)
}

var visibilityOptions = []struct {
	label string
	key   string
}{
	{"Headline", "showHeadline"},
	{"Profession", "showProfession"},
	{"Company", "showCompany"},
	{"Location", "showLocation"},
	{"Email", "showContactEmail"},
	{"Phone", "showContactPhone"},
}

func runEditForm(ed *editor.Editor) error {
	d := ed.Draft()
	themeID := d.Theme

	visible := make([]string, 0, len(visibilityOptions))
	flagOf := func(key string) *bool {
		switch key {
		case "showHeadline":
			return &d.ShowHeadline
		case "showProfession":
			return &d.ShowProfession
		case "showCompany":
			return &d.ShowCompany
		case "showLocation":
			return &d.ShowLocation
		case "showContactEmail":
			return &d.ShowContactEmail
		default:
			return &d.ShowContactPhone
		}
	}
	visOpts := make([]huh.Option[string], 0, len(visibilityOptions))
	for _, o := range visibilityOptions {
		visOpts = append(visOpts, huh.NewOption(o.label, o.key))
		if *flagOf(o.key) {
			visible = append(visible, o.key)
		}
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All()))
	for _, t := range theme.All() {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.ID))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("First name").Value(&d.FirstName),
			huh.NewInput().Title("Last name").Value(&d.LastName),
			huh.NewInput().Title("Headline").CharLimit(100).Value(&d.Headline),
			huh.NewInput().Title("Profession").Value(&d.Profession),
			huh.NewInput().Title("Company").Value(&d.Company),
			huh.NewInput().Title("Location").Value(&d.Location),
		).Title("About"),
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&d.ContactEmail),
			huh.NewInput().Title("Phone").Value(&d.ContactPhone),
			huh.NewMultiSelect[string]().Title("Show on card").Options(visOpts...).Value(&visible),
		).Title("Contact"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").Options(themeOpts...).Value(&themeID),
		).Title("Appearance"),
	)
	if err := form.Run(); err != nil {
		return err
	}

	shown := make(map[string]bool, len(visible))
	for _, k := range visible {
		shown[k] = true
	}
	for _, o := range visibilityOptions {
		*flagOf(o.key) = shown[o.key]
	}
	return ed.SetTheme(themeID)
}

// listDraft is the editor surface shared by the skill and link subcommands.
type listDraft struct {
	describe func(d *profile.Profile) []string
	remove   func(ed *editor.Editor, id string) bool
	move     func(ed *editor.Editor, id string, to int) bool
	visible  func(ed *editor.Editor, id string, v bool) bool
}

func saveEdit(ed *editor.Editor) error {
	return cli.toast(ed.Save(cli.ctx))
}

func listCommands(noun string, ld listDraft) []*cobra.Command {
	begin := func() (*editor.Editor, error) {
		if err := cli.requireSession(); err != nil {
			return nil, err
		}
		ed := cli.editor()
		return ed, ed.Begin()
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List " + noun + "s with their ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.requireSession(); err != nil {
				return err
			}
			for i, line := range ld.describe(cli.store.Active().Profile) {
				cli.println(fmt.Sprintf("%d. %s", i, line))
			}
			return nil
		},
	}
	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := begin()
			if err != nil {
				return err
			}
			if !ld.remove(ed, args[0]) {
				return fmt.Errorf("no %s with id %q", noun, args[0])
			}
			return saveEdit(ed)
		},
	}
	mv := &cobra.Command{
		Use:   "mv <id> <position>",
		Short: "Move a " + noun + " to a zero-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("position must be a number")
			}
			ed, err := begin()
			if err != nil {
				return err
			}
			if !ld.move(ed, args[0], to) {
				return fmt.Errorf("cannot move %s %q to %d", noun, args[0], to)
			}
			return saveEdit(ed)
		},
	}
	visibility := func(use string, v bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: strings.ToUpper(use[:1]) + use[1:] + " a " + noun + " on the card",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ed, err := begin()
				if err != nil {
					return err
				}
				if !ld.visible(ed, args[0], v) {
					return fmt.Errorf("no %s with id %q", noun, args[0])
				}
				return saveEdit(ed)
			},
		}
	}
	return []*cobra.Command{ls, rm, mv, visibility("show", true), visibility("hide", false)}
}
