package calcskin

import (
	"errors"
	"fmt"
	"io"

	"github.com/dasdy/calcskin/layout"
	"github.com/dasdy/calcskin/model"
	"github.com/dasdy/calcskin/render"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Checking more files than this shows a progress bar.
const checkProgressThreshold = 4

var checkKeymaps []string

var checkCmd = &cobra.Command{
	Use:   "check [skin...]",
	Short: "Parse skins and keymaps and report what they define",
	Long: `Parse every given skin (name or .layout path) and every --keymap file.
Prints a summary per file and fails if any of them could not be read.
Without arguments the built-in skin and keymap are checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 0 && len(checkKeymaps) == 0 {
			printSkinSummary(out, layout.DefaultSkinName, layout.DefaultSkin(), true)
			fmt.Fprintf(out, "keymap (built-in): %d entries\n", len(layout.DefaultKeymap()))

			return nil
		}

		var bar *progressbar.ProgressBar
		if len(args)+len(checkKeymaps) > checkProgressThreshold {
			bar = progressbar.Default(int64(len(args)+len(checkKeymaps)), "checking")
		}

		var errs []error

		for _, name := range args {
			if err := checkSkin(out, name); err != nil {
				errs = append(errs, err)
			}

			if bar != nil {
				_ = bar.Add(1)
			}
		}

		for _, path := range checkKeymaps {
			if err := checkKeymap(out, path); err != nil {
				errs = append(errs, err)
			}

			if bar != nil {
				_ = bar.Add(1)
			}
		}

		return errors.Join(errs...)
	},
}

func checkSkin(out io.Writer, name string) error {
	s, err := layout.LoadSkin(name)
	if err != nil {
		fmt.Fprintf(out, "%s: %s\n", name, err)

		return err
	}

	img, err := render.LoadSkinImage(name)
	if err != nil {
		fmt.Fprintf(out, "%s: %s\n", name, err)

		return err
	}

	printSkinSummary(out, name, s, img != nil)

	if img != nil {
		b := img.Bounds()
		if b.Dx() < s.Base.Right() || b.Dy() < s.Base.Bottom() {
			fmt.Fprintf(out, "  warning: image is %dx%d, smaller than the skin base\n", b.Dx(), b.Dy())
		}
	}

	return nil
}

func printSkinSummary(out io.Writer, name string, s *model.Skin, hasImage bool) {
	annunciators := 0

	for _, a := range s.Annunciators {
		if a.Defined {
			annunciators++
		}
	}

	fmt.Fprintf(out, "%s: %dx%d, %d keys, %d macros, %d annunciators, %d keymap entries",
		name, s.Base.Width, s.Base.Height, len(s.Keys), len(s.Macros), annunciators, len(s.Keymap))

	if !hasImage {
		fmt.Fprint(out, ", no image")
	}

	fmt.Fprintln(out)
}

func checkKeymap(out io.Writer, path string) error {
	file, err := layout.OpenPath(path)
	if err != nil {
		fmt.Fprintf(out, "%s: %s\n", path, err)

		return err
	}
	defer file.Close()

	km, err := layout.ParseKeymap(file)
	if err != nil {
		fmt.Fprintf(out, "%s: %s\n", path, err)

		return fmt.Errorf("could not parse keymap %s: %w", path, err)
	}

	fmt.Fprintf(out, "keymap %s: %d entries\n", path, len(km))

	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringSliceVar(&checkKeymaps, "keymap", []string{},
		"Keymap files to check")
}
