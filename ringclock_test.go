package ringclock

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/ringclock/internal/clockface"
	"libdb.so/ringclock/internal/sidelight"
	"libdb.so/ringclock/internal/transport/serialport"
	"libdb.so/ringclock/internal/transport/spiring"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"
)

// closeWatcher counts frames flushed after the driver was closed.
type closeWatcher struct {
	driver
	closed      atomic.Bool
	lateFlushes atomic.Int32
}

func (w *closeWatcher) Flush() error {
	if w.closed.Load() {
		w.lateFlushes.Add(1)
	}
	return w.driver.Flush()
}

func (w *closeWatcher) Close() error {
	w.closed.Store(true)
	return w.driver.Close()
}

func newFastDaemon(t *testing.T, driver Driver) *Daemon {
	cfg := DefaultConfig()
	cfg.Driver = driver
	cfg.Tick = TOMLDuration(50 * time.Microsecond)

	d, err := NewDaemon(cfg, slog.Default())
	require.NoError(t, err)
	return d
}

func runUntilCanceled(t *testing.T, d *Daemon, drv driver, readLoop func(context.Context) error) error {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- d.run(ctx, drv, readLoop, &fakeTime{t: clockface.Time{Hour: 12}})
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
		return nil
	}
}

func TestDaemonClosesSPIRingAfterLastFrame(t *testing.T) {
	d := newFastDaemon(t, SPIDriver)

	buzzer := &gpiotest.Pin{N: "buzzer"}
	pins := spiring.Pins{
		Buzzer: buzzer,
		Touch:  &gpiotest.Pin{N: "touch"},
	}
	for ch := range pins.SideLights {
		pins.SideLights[ch] = &gpiotest.Pin{N: sidelight.Channel(ch).String()}
	}

	ring, err := spiring.New(spitest.NewRecordRaw(&bytes.Buffer{}), pins, spiring.Config{
		Freq:    2500 * physic.KiloHertz,
		NumLEDs: d.cfg.RingSize,
		PWMFreq: physic.KiloHertz,
	}, slog.Default())
	require.NoError(t, err)

	drv := &closeWatcher{driver: ring}
	err = runUntilCanceled(t, d, drv, ring.Run)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.True(t, drv.closed.Load())
	assert.Zero(t, drv.lateFlushes.Load())
	assert.Equal(t, gpio.Low, buzzer.Read())
}

// pipeConn is a serial connection whose reads block until it is closed.
type pipeConn struct {
	*io.PipeReader
}

func newPipeConn() *pipeConn {
	r, _ := io.Pipe()
	return &pipeConn{PipeReader: r}
}

func (c *pipeConn) Write(b []byte) (int, error) { return len(b), nil }

func TestDaemonClosingStopsSerialReadLoop(t *testing.T) {
	d := newFastDaemon(t, SerialDriver)

	port, err := serialport.New(newPipeConn(), d.cfg.RingSize, slog.Default())
	require.NoError(t, err)

	drv := &closeWatcher{driver: port}
	readLoop := func(ctx context.Context) error {
		if err := port.Run(); err != nil {
			return err
		}
		return ctx.Err()
	}

	err = runUntilCanceled(t, d, drv, readLoop)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.True(t, drv.closed.Load())
	assert.Zero(t, drv.lateFlushes.Load())
}
