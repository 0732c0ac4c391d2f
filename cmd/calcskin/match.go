package calcskin

import (
	"fmt"

	"github.com/dasdy/calcskin/dispatch"
	"github.com/dasdy/calcskin/keymap"
	"github.com/dasdy/calcskin/layout"
	"github.com/spf13/cobra"
)

var (
	matchSkin   string
	matchKeymap string
	matchQuery  keymap.Query
	matchAlpha  bool
	matchHex    bool
)

var matchCmd = &cobra.Command{
	Use:   "match KEY",
	Short: "Look up a keyboard key in the skin and global keymaps",
	Long: `Match a key against the keymaps the way a key press would be matched.
KEY is a single character, a hex code such as 0x41, or a key name such as ESCAPE.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, global, err := loadSkinAndKeymap(matchSkin, matchKeymap)
		if err != nil {
			return err
		}

		q := matchQuery
		q.KeyChar = layout.ParseKeyChar(args[0])

		m := keymap.NewMatcher(s.Keymap, global).Match(q, dispatch.IdleEngine{Alpha: matchAlpha, Hex: matchHex})
		out := cmd.OutOrStdout()

		switch {
		case m.Macro != nil:
			fmt.Fprintf(out, "macro: %v exact=%t\n", m.Macro, m.Exact)

			if keymap.IsRunStop(m.Macro) {
				fmt.Fprintln(out, "run/stop: key releases immediately")
			}
		case m.Code != 0:
			fmt.Fprintf(out, "reserved: code %d\n", m.Code)
		default:
			fmt.Fprintln(out, "no match")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	addSkinFlags(matchCmd, &matchSkin, &matchKeymap)
	matchCmd.Flags().BoolVar(&matchQuery.Ctrl, "ctrl", false, "Ctrl is held")
	matchCmd.Flags().BoolVar(&matchQuery.Alt, "alt", false, "Alt is held")
	matchCmd.Flags().BoolVar(&matchQuery.Shift, "shift", false, "Shift is held")
	matchCmd.Flags().BoolVar(&matchQuery.Numpad, "numpad", false, "Key is on the numeric keypad")
	matchCmd.Flags().BoolVar(&matchQuery.CShift, "cshift", false, "Calculator shift is active")
	matchCmd.Flags().BoolVar(&matchAlpha, "alpha", false, "Alpha menu is active")
	matchCmd.Flags().BoolVar(&matchHex, "hex", false, "Hex menu is active")
}
