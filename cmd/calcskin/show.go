package calcskin

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dasdy/calcskin/db"
	"github.com/dasdy/calcskin/render"
	"github.com/dasdy/calcskin/skin"
	"github.com/dasdy/calcskin/web"
	"github.com/dasdy/calcskin/web/routes"
	"github.com/spf13/cobra"
)

var (
	showSkin   string
	showKeymap string
	showPort   int
)

// showCmd represents the show command.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show collected statistics",
	Long:  `Use the journal written by the track command to show a web interface with key usage.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, global, err := loadSkinAndKeymap(showSkin, showKeymap)
		if err != nil {
			return err
		}

		skinImage, err := render.LoadSkinImage(showSkin)
		if err != nil {
			slog.Warn("Drawing flat skin face", "error", err)
		}

		slog.Info("Journal", "path", storagePath)

		storage, err := db.NewStorageFromPath(storagePath)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", storagePath, err)
		}
		defer storage.Close()

		usage, err := db.NewUsageCounterFromDB(storage, true)
		if err != nil {
			return fmt.Errorf("could not create usage counter: %w", err)
		}

		sequences, err := db.NewSequenceCounterFromDB(storage)
		if err != nil {
			return fmt.Errorf("could not create sequence counter: %w", err)
		}

		<-usage.Ready()

		return web.StartServer(ctx, showPort, &routes.ServerHandler{
			Storage:         storage,
			Layout:          skin.New(s, nil),
			SkinImage:       skinImage,
			Keymap:          global,
			SequenceTracker: sequences,
			SourceTracker:   usage,
		}, dev)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	addSkinFlags(showCmd, &showSkin, &showKeymap)
	showCmd.Flags().IntVarP(&showPort, "port", "p", 9000,
		"Port on which server should be watching")
	showCmd.Flags().StringVarP(&storagePath, "storage", "s", "./keystrokes.sqlite",
		"Journal path")
	showCmd.Flags().BoolVar(&dev, "dev", false, "Enable developer mode")
}
