package calcskin

import (
	"errors"
	"fmt"
	"os"

	"github.com/dasdy/calcskin/db"
	"github.com/spf13/cobra"
)

var (
	mergeInputs []string
	mergeOut    string
)

// mergeCmd represents the merge command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge journals into one",
	Long:  `Given several journals, create a new one holding the keystrokes of all of them.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if len(mergeInputs) == 0 {
			return errors.New("no journals to merge")
		}

		if _, err := os.Stat(mergeOut); err == nil {
			return fmt.Errorf("output file %s already exists", mergeOut)
		}

		inputs := make([]*db.SQLiteStorage, 0, len(mergeInputs))

		defer func() {
			for _, in := range inputs {
				in.Close()
			}
		}()

		for _, fn := range mergeInputs {
			store, err := db.NewStorageFromPath(fn)
			if err != nil {
				return err
			}

			inputs = append(inputs, store)
		}

		output, err := db.NewStorageFromPath(mergeOut)
		if err != nil {
			return err
		}
		defer output.Close()

		if err := db.Merge(inputs, output); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "merged %d journals into %s\n", len(inputs), mergeOut)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringSliceVarP(&mergeInputs, "file", "f", []string{},
		"Journals to merge")
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", "./merged.sqlite",
		"Output path for the merged journal")
}
