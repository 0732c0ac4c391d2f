package ports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"sync"
	"time"

	"go.bug.st/serial"
)

// DeviceOpener opens a device by path.
type DeviceOpener interface {
	Open(path string) (io.ReadCloser, error)
}

type SerialOpener struct {
	BaudRate int
}

func (o SerialOpener) Open(path string) (io.ReadCloser, error) {
	return Open(path, o.BaudRate)
}

// MonitoringDeviceReader polls for input devices and merges the lines of every device it
// finds. Devices that go away are dropped and picked up again when they reappear.
type MonitoringDeviceReader struct {
	pathToLookup string

	devicesList map[string]io.ReadCloser
	lock        sync.RWMutex

	opener DeviceOpener
	// listPorts is serial.GetPortsList outside of tests.
	listPorts func() ([]string, error)

	pollingInterval time.Duration
}

func NewMonitoringDeviceReader(pathToLookup string, opener DeviceOpener, pollingInterval time.Duration) *MonitoringDeviceReader {
	return &MonitoringDeviceReader{
		pathToLookup:    pathToLookup,
		devicesList:     make(map[string]io.ReadCloser),
		opener:          opener,
		listPorts:       serial.GetPortsList,
		pollingInterval: pollingInterval,
	}
}

func DefaultMonitoringDeviceReader(baudRate int) *MonitoringDeviceReader {
	return NewMonitoringDeviceReader("/dev/", SerialOpener{BaudRate: baudRate}, 5*time.Second)
}

// WithPortLister replaces the serial port enumeration.
func (r *MonitoringDeviceReader) WithPortLister(list func() ([]string, error)) *MonitoringDeviceReader {
	r.listPorts = list

	return r
}

func (r *MonitoringDeviceReader) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	var errs []error

	for p, device := range r.devicesList {
		if err := device.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing device %s: %w", p, err))
		}

		delete(r.devicesList, p)
	}

	return errors.Join(errs...)
}

func (r *MonitoringDeviceReader) Devices() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	result := make([]string, 0, len(r.devicesList))
	for p := range r.devicesList {
		result = append(result, p)
	}

	return result
}

func (r *MonitoringDeviceReader) forget(devicePath string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if device, exists := r.devicesList[devicePath]; exists {
		if err := device.Close(); err != nil {
			slog.Debug("Device close failed", "path", devicePath, "error", err)
		}

		delete(r.devicesList, devicePath)
		slog.Info("Device removed", "path", devicePath)
	}
}

func (r *MonitoringDeviceReader) AddDevice(ctx context.Context, devicePath string, out chan<- string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, exists := r.devicesList[devicePath]; exists {
		slog.Debug("Device already exists, skipping", "path", devicePath)

		return nil
	}

	device, err := r.opener.Open(devicePath)
	if err != nil {
		return fmt.Errorf("error opening device %s: %w", devicePath, err)
	}

	r.devicesList[devicePath] = device

	go func() {
		slog.Info("Device loop started", "path", devicePath)

		defer r.forget(devicePath)

		lines := ReadFile(device)

		for line := range lines {
			select {
			case out <- line:
			case <-ctx.Done():
				// closing the device ends the scan
				r.forget(devicePath)

				for range lines {
				}

				return
			}
		}

		slog.Info("Device closed", "path", devicePath)
	}()

	return nil
}

// FindDevices lists input devices that are not open yet.
func (r *MonitoringDeviceReader) FindDevices() ([]string, error) {
	serialDevices, err := r.listPorts()
	if err != nil {
		return nil, fmt.Errorf("could not get list of serial ports: %w", err)
	}

	entries, err := os.ReadDir(r.pathToLookup)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", r.pathToLookup, err)
	}

	newDevices := make(map[string]bool)

	for _, devicePath := range serialDevices {
		if r.shouldOpenDevice(devicePath) {
			newDevices[devicePath] = true
		}
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Type()&os.ModeDevice == 0 {
			continue
		}

		devicePath := path.Join(r.pathToLookup, entry.Name())
		if r.shouldOpenDevice(devicePath) {
			newDevices[devicePath] = true
		}
	}

	keys := make([]string, 0, len(newDevices))
	for k := range newDevices {
		keys = append(keys, k)
	}

	return keys, nil
}

// Channel starts polling. Polling stops and open devices are closed when ctx is done.
func (r *MonitoringDeviceReader) Channel(ctx context.Context) <-chan string {
	outputChan := make(chan string, 5)

	go func() {
		slog.Info("Monitoring started", "path", r.pathToLookup)

		defer slog.Info("End monitoring", "path", r.pathToLookup)

		ticker := time.NewTicker(r.pollingInterval)
		defer ticker.Stop()

		for {
			r.poll(ctx, outputChan)

			select {
			case <-ctx.Done():
				if err := r.Close(); err != nil {
					slog.Error("Could not close devices", "error", err)
				}

				return
			case <-ticker.C:
			}
		}
	}()

	return outputChan
}

func (r *MonitoringDeviceReader) poll(ctx context.Context, out chan<- string) {
	devices, err := r.FindDevices()
	if err != nil {
		slog.Error("Error finding devices", "error", err)

		return
	}

	for _, devicePath := range devices {
		if err := r.AddDevice(ctx, devicePath, out); err != nil {
			slog.Error("Could not add device", "path", devicePath, "error", err)
		}
	}
}

func (r *MonitoringDeviceReader) shouldOpenDevice(devicePath string) bool {
	if !LooksLikeInputDevice(devicePath) {
		return false
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	_, ok := r.devicesList[devicePath]

	return !ok
}
