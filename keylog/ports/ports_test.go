package ports_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dasdy/calcskin/keylog/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readChanLines(c <-chan string) []string {
	result := make([]string, 0)

	for line := range c {
		result = append(result, line)
	}

	return result
}

func TestReadFile(t *testing.T) {
	t.Run("should handle non-empty file", func(t *testing.T) {
		r := strings.NewReader("a\nb\nc\n")

		c := ports.ReadFile(r)

		lines := readChanLines(c)

		assert.Equal(t, []string{"a", "b", "c"}, lines)
	})

	t.Run("should handle empty file", func(t *testing.T) {
		r := strings.NewReader("")

		c := ports.ReadFile(r)

		lines := readChanLines(c)

		assert.Equal(t, []string{}, lines)
	})
}

func TestReadTwoFiles(t *testing.T) {
	t.Run("should handle non-empty files", func(t *testing.T) {
		r1 := strings.NewReader("aa\nbb\ncc\n")
		r2 := strings.NewReader("ab\nba\ncd\n")

		c := ports.ReadTwoFiles(r1, r2)

		lines := readChanLines(c)

		sort.Strings(lines)

		assert.Equal(t, []string{
			"aa", "ab", "ba", "bb", "cc", "cd",
		}, lines)
	})

	t.Run("should handle when one file is empty", func(t *testing.T) {
		r1 := strings.NewReader("aa\nbb\ncc\n")
		r2 := strings.NewReader("")

		c := ports.ReadTwoFiles(r1, r2)

		lines := readChanLines(c)

		sort.Strings(lines)

		assert.Equal(t, []string{
			"aa", "bb", "cc",
		}, lines)
	})

	t.Run("should handle when other file is empty", func(t *testing.T) {
		r1 := strings.NewReader("")
		r2 := strings.NewReader("aa\nbb\ncc\n")

		c := ports.ReadTwoFiles(r1, r2)

		lines := readChanLines(c)

		sort.Strings(lines)

		assert.Equal(t, []string{
			"aa", "bb", "cc",
		}, lines)
	})
}

func TestReadFiles(t *testing.T) {
	c := ports.ReadFiles(
		strings.NewReader("a\n"),
		strings.NewReader("b\nc\n"),
		strings.NewReader("d"),
	)

	lines := readChanLines(c)

	sort.Strings(lines)

	assert.Equal(t, []string{"a", "b", "c", "d"}, lines)
	assert.Empty(t, readChanLines(ports.ReadFiles()))
}

func TestLooksLikeInputDevice(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"/dev/tty.usbmodem12301", true},
		{"/dev/cu.usbmodem11400", true},
		{"/dev/ttyACM0", true},
		{"/dev/ttyUSB1", true},
		{"/dev/ttyp1", false},
		{"/dev/ttyS0", false},
		{"/home/user/tty.usbmodem12301", false},
		{"/dev/usb/ttyACM0", false},
	}

	for _, v := range testCases {
		t.Run(v.path, func(t *testing.T) {
			assert.Equal(t, v.expected, ports.LooksLikeInputDevice(v.path))
		})
	}
}

type fakeDevice struct {
	io.Reader
	closed bool
}

func (f *fakeDevice) Close() error {
	f.closed = true

	return nil
}

type fakeOpener struct {
	lock    sync.Mutex
	content map[string]string
	opened  []string
}

func (o *fakeOpener) Open(path string) (io.ReadCloser, error) {
	o.lock.Lock()
	defer o.lock.Unlock()

	c, ok := o.content[path]
	if !ok {
		return nil, errors.New("no such device")
	}

	o.opened = append(o.opened, path)

	return &fakeDevice{Reader: strings.NewReader(c)}, nil
}

func (o *fakeOpener) Opened() []string {
	o.lock.Lock()
	defer o.lock.Unlock()

	return append([]string(nil), o.opened...)
}

func TestMonitoringDeviceReader(t *testing.T) {
	opener := &fakeOpener{content: map[string]string{
		"/dev/ttyACM0": "key down: a\nkey up: a\n",
		"/dev/ttyACM1": "touch down: 1 2\n",
	}}

	reader := ports.NewMonitoringDeviceReader(t.TempDir(), opener, 10*time.Millisecond).
		WithPortLister(func() ([]string, error) {
			return []string{"/dev/ttyACM0", "/dev/ttyACM1", "/dev/ttyS0", "/dev/ttyACM9"}, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := reader.Channel(ctx)

	lines := make([]string, 0)
	for len(lines) < 3 {
		select {
		case line := <-ch:
			lines = append(lines, line)
		case <-time.After(time.Second):
			require.FailNow(t, "timed out waiting for device lines", "got %v", lines)
		}
	}

	sort.Strings(lines)
	assert.Equal(t, []string{"key down: a", "key up: a", "touch down: 1 2"}, lines)

	opened := opener.Opened()
	assert.Contains(t, opened, "/dev/ttyACM0")
	assert.Contains(t, opened, "/dev/ttyACM1")
	assert.NotContains(t, opened, "/dev/ttyS0")

	// Exhausted devices are dropped and reopened on a later poll.
	assert.Eventually(t, func() bool {
		n := 0

		for _, p := range opener.Opened() {
			if p == "/dev/ttyACM0" {
				n++
			}
		}

		return n >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
}

func TestFindDevicesError(t *testing.T) {
	reader := ports.NewMonitoringDeviceReader(t.TempDir(), &fakeOpener{}, time.Second).
		WithPortLister(func() ([]string, error) {
			return nil, errors.New("no serial support")
		})

	_, err := reader.FindDevices()
	assert.Error(t, err)
	assert.NoError(t, reader.Close())
	assert.Empty(t, reader.Devices())
}
