package ports

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	DefaultBaudRate = 115200
	readTimeout     = 10 * time.Hour
)

// devicePatterns are the names USB serial adapters show up under on macOS and Linux.
var devicePatterns = []string{"tty.usbmodem*", "cu.usbmodem*", "ttyACM*", "ttyUSB*"}

// Open opens a serial device for reading event lines.
func Open(path string, baudRate int) (io.ReadCloser, error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baudRate,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open serial port %s: %w", path, err)
	}

	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()

		return nil, fmt.Errorf("could not set read timeout on %s: %w", path, err)
	}

	return port, nil
}

// ReadFile sends r line by line. The channel is closed at the end of input.
func ReadFile(r io.Reader) <-chan string {
	ch := make(chan string)

	go func() {
		defer close(ch)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			ch <- scanner.Text()
		}

		if err := scanner.Err(); err != nil {
			slog.Error("Input read failed", "error", err)
		}
	}()

	return ch
}

// ReadFiles merges the lines of every reader into one channel, which is closed once all of
// them are exhausted.
func ReadFiles(readers ...io.Reader) <-chan string {
	out := make(chan string)

	var wg sync.WaitGroup

	for _, r := range readers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for line := range ReadFile(r) {
				out <- line
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

func ReadTwoFiles(f1, f2 io.Reader) <-chan string {
	return ReadFiles(f1, f2)
}

// OpenFiles opens every path as a serial device. The returned closer closes all of them.
func OpenFiles(baudRate int, paths ...string) (<-chan string, func(), error) {
	readers := make([]io.Reader, 0, len(paths))
	closers := make([]io.Closer, 0, len(paths))

	closer := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				slog.Error("Could not close device", "error", err)
			}
		}
	}

	for _, p := range paths {
		port, err := Open(p, baudRate)
		if err != nil {
			closer()

			return nil, func() {}, err
		}

		readers = append(readers, port)
		closers = append(closers, port)
	}

	return ReadFiles(readers...), closer, nil
}

// LooksLikeInputDevice reports whether path names a USB serial device.
func LooksLikeInputDevice(path string) bool {
	if !strings.HasPrefix(path, "/dev/") || strings.Count(path, "/") != 2 {
		return false
	}

	name := filepath.Base(path)

	for _, pattern := range devicePatterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}

	return false
}

// GetAvailableDevices lists serial ports that look like input devices, or every port when
// none do.
func GetAvailableDevices() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("could not list serial ports: %w", err)
	}

	result := make([]string, 0)

	for _, n := range names {
		if LooksLikeInputDevice(n) {
			result = append(result, n)
		}
	}

	if len(result) != 0 {
		return result, nil
	}

	return names, nil
}
