package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khoahotran/cardify/internal/application/editor"
	"github.com/khoahotran/cardify/internal/domain/profile"
)

func hidden(visible bool) string {
	if visible {
		return ""
	}
	return " (hidden)"
}

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage the skills on your card",
}

var skillAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireSession(); err != nil {
			return err
		}
		ed := cli.editor()
		if err := ed.Begin(); err != nil {
			return err
		}
		ed.AddSkill(args[0])
		return saveEdit(ed)
	},
}

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage the links on your card",
}

var linkLabel string

var linkAddCmd = &cobra.Command{
	Use:   "add <platform> <url>",
	Short: "Add a link",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.requireSession(); err != nil {
			return err
		}
		ed := cli.editor()
		if err := ed.Begin(); err != nil {
			return err
		}
		ed.AddLink(profile.SocialLink{Platform: args[0], URL: args[1], Label: linkLabel, IsVisible: true})
		return saveEdit(ed)
	},
}

func init() {
	skillCmd.AddCommand(skillAddCmd)
	skillCmd.AddCommand(listCommands("skill", listDraft{
		describe: func(p *profile.Profile) []string {
			out := make([]string, len(p.Skills))
			for i, s := range p.Skills {
				out[i] = fmt.Sprintf("%s [%s]%s", s.Name, s.ID, hidden(s.IsVisible))
			}
			return out
		},
		remove: (*editor.Editor).RemoveSkill,
		move:   (*editor.Editor).MoveSkill,
		visible: func(ed *editor.Editor, id string, v bool) bool {
			for _, s := range ed.Draft().Skills {
				if s.ID == id {
					s.IsVisible = v
					return ed.UpdateSkill(s)
				}
			}
			return false
		},
	})...)

	linkAddCmd.Flags().StringVar(&linkLabel, "label", "", "text shown instead of the platform name")
	linkCmd.AddCommand(linkAddCmd)
	linkCmd.AddCommand(listCommands("link", listDraft{
		describe: func(p *profile.Profile) []string {
			out := make([]string, len(p.Links))
			for i, l := range p.Links {
				out[i] = fmt.Sprintf("%s %s [%s]%s", l.Platform, l.URL, l.ID, hidden(l.IsVisible))
			}
			return out
		},
		remove: (*editor.Editor).RemoveLink,
		move:   (*editor.Editor).MoveLink,
		visible: func(ed *editor.Editor, id string, v bool) bool {
			for _, l := range ed.Draft().Links {
				if l.ID == id {
					l.IsVisible = v
					return ed.UpdateLink(l)
				}
			}
			return false
		},
	})...)
}
