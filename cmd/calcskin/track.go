package calcskin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dasdy/calcskin/db"
	"github.com/dasdy/calcskin/dispatch"
	"github.com/dasdy/calcskin/keylog"
	"github.com/dasdy/calcskin/keylog/ports"
	"github.com/dasdy/calcskin/keymap"
	"github.com/dasdy/calcskin/model"
	"github.com/dasdy/calcskin/render"
	"github.com/dasdy/calcskin/skin"
	"github.com/dasdy/calcskin/web"
	"github.com/dasdy/calcskin/web/routes"
	"github.com/spf13/cobra"
)

var errInputClosed = errors.New("input closed")

var (
	filenames        []string
	storagePath      string
	port             int
	baudRate         int
	disableInterface bool
	monitor          bool
	verbose          bool
	dev              bool
	trackSkin        string
	trackKeymap      string
	trackView        string
)

// trackCmd represents the track command.
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Replay input events through a skin and journal the keystrokes",
	Long: `Read "key down:", "key up:", "touch down:" and "touch up:" lines from serial devices,
files or stdin and dispatch them against a skin as the emulator would. Every keystroke
handed to the calculator is written to a sqlite journal; a web server optionally shows
the live skin and a heatmap of the journal.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ch, closer, err := openInput(ctx)
		if err != nil {
			return err
		}
		defer closer()

		s, global, err := loadSkinAndKeymap(trackSkin, trackKeymap)
		if err != nil {
			return err
		}

		slog.Info("Journal", "path", storagePath)

		storage, err := db.NewStorageFromPath(storagePath)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", storagePath, err)
		}
		defer storage.Close()

		usage, err := db.NewUsageCounterFromDB(storage, !verbose)
		if err != nil {
			return fmt.Errorf("could not create usage counter: %w", err)
		}

		sequences, err := db.NewSequenceCounterFromDB(storage)
		if err != nil {
			return fmt.Errorf("could not create sequence counter: %w", err)
		}

		opts := []dispatch.Option{
			dispatch.WithJournal(keylog.NewRecorder(storage, verbose, usage, sequences)),
			dispatch.WithMaintainAspect(maintainAspect),
			dispatch.WithMenuHandler(func(area skin.MenuArea) {
				slog.Info("Menu requested", "area", area)
			}),
		}

		d := dispatch.New(skin.New(s, &model.AnnunciatorState{}), keymap.NewMatcher(s.Keymap, global),
			dispatch.IdleEngine{}, dispatch.RepaintFunc(nil), opts...)
		defer d.Close()

		if trackView != "" {
			view, err := parseSize(trackView)
			if err != nil {
				return err
			}

			d.Resize(view)
		}

		if !disableInterface {
			skinImage, err := render.LoadSkinImage(trackSkin)
			if err != nil {
				slog.Warn("Drawing flat skin face", "error", err)
			}

			handler := &routes.ServerHandler{
				Storage:         storage,
				Layout:          d.Layout(),
				SkinImage:       skinImage,
				Keymap:          global,
				SequenceTracker: sequences,
				SourceTracker:   usage,
			}

			go func() {
				if err := web.StartServer(ctx, port, handler, dev); err != nil {
					slog.Error("Web interface stopped", "error", err)
				}
			}()
		}

		slog.Info("Main loop")
		keylog.Loop(ctx, ch, d, verbose)

		if ctx.Err() != nil {
			return nil
		}

		// air only restarts on a non-zero exit code.
		return errInputClosed
	},
}

// openInput picks the event source: the given files, polled serial devices, or stdin.
func openInput(ctx context.Context) (<-chan string, func(), error) {
	switch {
	case len(filenames) > 0:
		ch, closer, err := ports.OpenFiles(baudRate, filenames...)
		if err == nil {
			return ch, closer, nil
		}

		names, errInner := ports.GetAvailableDevices()
		if errInner != nil {
			return nil, nil, fmt.Errorf("could not open file: %w; could not suggest devices: %w", err, errInner)
		}

		if len(names) > 0 {
			return nil, nil, fmt.Errorf("error opening files: %w. Maybe try instead: %+v", err, names)
		}

		return nil, nil, fmt.Errorf("error opening files: %w. No serial device seems to be connected", err)
	case monitor:
		return ports.DefaultMonitoringDeviceReader(baudRate).Channel(ctx), func() {}, nil
	default:
		if names, err := ports.GetAvailableDevices(); err == nil && len(names) > 0 {
			slog.Info("Suggested devices", "devices", names)
		}

		slog.Info("Will proceed to read from stdin")

		return ports.ReadFile(os.Stdin), func() {}, nil
	}
}

func init() {
	rootCmd.AddCommand(trackCmd)

	addSkinFlags(trackCmd, &trackSkin, &trackKeymap)
	trackCmd.Flags().StringSliceVarP(&filenames, "file", "f", []string{},
		"Serial devices or files to read events from")
	trackCmd.Flags().BoolVar(&monitor, "monitor", false,
		"Poll for USB serial devices and read from every one that appears")
	trackCmd.Flags().IntVar(&baudRate, "baud", ports.DefaultBaudRate, "Serial baud rate")
	trackCmd.Flags().StringVarP(&storagePath, "storage", "s", "./keystrokes.sqlite",
		"Journal path")
	trackCmd.Flags().IntVarP(&port, "port", "p", 3000,
		"Port on which server should be watching")
	trackCmd.Flags().StringVar(&trackView, "view", "", "View size as WIDTHxHEIGHT touch coordinates refer to")
	trackCmd.Flags().BoolVar(&maintainAspect, "maintain-aspect", true, "Keep the skin's aspect ratio in the view")
	trackCmd.Flags().BoolVar(&disableInterface, "no-interface", false,
		"If provided, no web server will be run with visualization")
	trackCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"If provided, debug output will be shown")
	trackCmd.Flags().BoolVar(&dev, "dev", false, "Enable developer mode")
}
