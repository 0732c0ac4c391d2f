package calcskin

import (
	"fmt"
	"image"
	"os"

	"github.com/dasdy/calcskin/geometry"
	"github.com/dasdy/calcskin/render"
	"github.com/dasdy/calcskin/skin"
	"github.com/spf13/cobra"
)

var (
	renderSkin      string
	renderKeymap    string
	renderOut       string
	renderView      string
	renderShortcuts bool
	renderSmooth    bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a skin to a PNG file",
	Long: `Draw the skin with a blank display. With --shortcuts, the keyboard shortcuts
bound to each key are drawn over it. Skins without an image are drawn as a flat face.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, global, err := loadSkinAndKeymap(renderSkin, renderKeymap)
		if err != nil {
			return err
		}

		skinImage, err := render.LoadSkinImage(renderSkin)
		if err != nil {
			return err
		}

		c := render.NewCompositor(skin.New(s, nil), skinImage)
		c.Smooth = renderSmooth

		if renderShortcuts {
			c.Shortcuts = render.Shortcuts(s, global)
		}

		var img image.Image
		if renderView == "" {
			img = c.Compose()
		} else {
			view, err := parseSize(renderView)
			if err != nil {
				return err
			}

			img = c.Render(view, geometry.FitScale(view, c.Layout.Size(), maintainAspect))
		}

		file, err := os.Create(renderOut)
		if err != nil {
			return fmt.Errorf("could not create %s: %w", renderOut, err)
		}
		defer file.Close()

		if err := render.EncodePNG(file, img); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", renderOut, img.Bounds().Dx(), img.Bounds().Dy())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	addSkinFlags(renderCmd, &renderSkin, &renderKeymap)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "./skin.png", "Output PNG path")
	renderCmd.Flags().StringVar(&renderView, "view", "", "View size as WIDTHxHEIGHT (skin size when empty)")
	renderCmd.Flags().BoolVar(&renderShortcuts, "shortcuts", false, "Draw keyboard shortcuts over the keys")
	renderCmd.Flags().BoolVar(&renderSmooth, "smooth", false, "Scale with bilinear filtering")
	renderCmd.Flags().BoolVar(&maintainAspect, "maintain-aspect", true, "Keep the skin's aspect ratio in the view")
}
