package calcskin

import (
	"fmt"
	"strconv"

	"github.com/dasdy/calcskin/geometry"
	"github.com/dasdy/calcskin/model"
	"github.com/dasdy/calcskin/skin"
	"github.com/spf13/cobra"
)

var (
	hitSkin        string
	hitKeymap      string
	hitView        string
	hitMenu        bool
	hitAlpha       bool
	maintainAspect bool
)

var hitCmd = &cobra.Command{
	Use:   "hit X Y",
	Short: "Show which key a point of the view lands on",
	Long: `Map a device point to skin coordinates for the given view size and hit-test it.
Prints the skin point, the key region found and the action its code resolves to.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("bad x coordinate: %w", err)
		}

		y, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("bad y coordinate: %w", err)
		}

		s, _, err := loadSkinAndKeymap(hitSkin, hitKeymap)
		if err != nil {
			return err
		}

		l := skin.New(s, nil)

		t := geometry.Identity
		if hitView != "" {
			view, err := parseSize(hitView)
			if err != nil {
				return err
			}

			t = geometry.FitScale(view, l.Size(), maintainAspect)
		}

		p := t.ToSkin(x, y)
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "skin point: %d,%d\n", p.X, p.Y)

		index, code := l.FindKey(hitMenu, p)
		if index == model.NoKey {
			switch l.InMenuArea(p) {
			case skin.MenuLeft:
				fmt.Fprintln(out, "no key, left menu area")
			case skin.MenuRight:
				fmt.Fprintln(out, "no key, right menu area")
			case skin.MenuNone:
				fmt.Fprintln(out, "no key")
			}

			return nil
		}

		fmt.Fprintf(out, "region: %d\ncode: %d\n", index, code)

		if r, ok := l.KeyRect(index); ok {
			d := t.RectToDevice(r)
			fmt.Fprintf(out, "highlight: %d,%d %dx%d\n", d.X, d.Y, d.Width, d.Height)
		}

		action := l.Resolve(code, hitAlpha)
		fmt.Fprintf(out, "action: %s", action.Kind)

		switch action.Kind {
		case model.ActionKey:
			fmt.Fprintf(out, " %d", action.Code)
		case model.ActionMacro:
			fmt.Fprintf(out, " %v", action.Keys)
		case model.ActionCommand:
			fmt.Fprintf(out, " %q text=%t", action.Command, action.IsText)
		case model.ActionNone:
		}

		fmt.Fprintln(out)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(hitCmd)

	addSkinFlags(hitCmd, &hitSkin, &hitKeymap)
	hitCmd.Flags().StringVar(&hitView, "view", "", "View size as WIDTHxHEIGHT (skin size when empty)")
	hitCmd.Flags().BoolVar(&hitMenu, "menu", false, "Treat the display as showing a menu")
	hitCmd.Flags().BoolVar(&hitAlpha, "alpha", false, "Treat the alpha menu as active")
	hitCmd.Flags().BoolVar(&maintainAspect, "maintain-aspect", true, "Keep the skin's aspect ratio in the view")
}
