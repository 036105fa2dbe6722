package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/khoahotran/cardify/internal/domain/profile"
)

var uploadCmd = &cobra.Command{
	Use:       "upload <profile|cover> <file>",
	Short:     "Upload a profile picture or cover photo",
	Long:      "Upload an image. Profile pictures are cropped to 400x400 and cover photos to 1280x400; files up to 32 MiB are accepted.",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(profile.ImageProfile), string(profile.ImageCover)},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := profile.ImageKind(args[0])
		if _, err := profile.SpecFor(kind); err != nil {
			return err
		}
		if err := cli.requireSession(); err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		if info, err := f.Stat(); err == nil && info.Size() > profile.MaxImageBytes {
			return fmt.Errorf("%s is larger than %d MiB", args[1], profile.MaxImageBytes>>20)
		}

		ed := cli.editor()
		if err := ed.Begin(); err != nil {
			return err
		}
		url, err := ed.UploadImage(cli.ctx, kind, filepath.Base(args[1]), f)
		if err != nil {
			cli.println(cli.renderer.Message("Upload Failed", err.Error()))
			return err
		}
		cli.println("Uploaded: " + url)
		return saveEdit(ed)
	},
}
