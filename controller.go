package ringclock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"libdb.so/ringclock/internal/cadence"
	"libdb.so/ringclock/internal/clockface"
	"libdb.so/ringclock/internal/gesture"
	"libdb.so/ringclock/internal/invariant"
	"libdb.so/ringclock/internal/led"
	"libdb.so/ringclock/internal/pattern"
	"libdb.so/ringclock/internal/sidelight"
	"libdb.so/ringclock/internal/timer"
)

// maxCatchUp bounds how many periodic steps are replayed after a stall.
const maxCatchUp = 64

// Controller is the mode state machine of the ring clock. It owns the frame
// buffer and every renderer, and is advanced one tick at a time. A
// Controller is not safe for concurrent use.
type Controller struct {
	cfg    *Config
	hw     Hardware
	logger *slog.Logger

	leds       led.LEDs
	mode       Mode
	transition bool
	wipe       wipe

	gestures *gesture.Decoder
	clock    *clockface.Renderer
	lastTime clockface.Time
	hasTime  bool
	timer    *timer.Timer

	patterns   pattern.Library
	patternIx  int
	palettes   []string
	paletteIx  int
	ambient    *pattern.State
	breather   *sidelight.Breather
	follow     bool
	start      time.Time
	hasStarted bool

	hueEvery     cadence.Every
	sideEvery    cadence.Every
	patternEvery cadence.Every
	paletteEvery cadence.Every
}

// NewController creates a new controller in the Off mode.
func NewController(cfg *Config, hw Hardware, logger *slog.Logger) (*Controller, error) {
	if err := hw.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid hardware")
	}

	palette, err := led.PaletteByName(cfg.Ambient.Palette)
	if err != nil {
		return nil, err
	}

	patterns := pattern.NewLibrary(cfg.Ambient.RainbowArc)
	patternIx, ok := patterns.Index(cfg.Ambient.Pattern)
	if !ok {
		return nil, fmt.Errorf("unknown pattern %q", cfg.Ambient.Pattern)
	}

	palettes := led.PaletteNames()
	var paletteIx int
	for i, name := range palettes {
		if name == cfg.Ambient.Palette {
			paletteIx = i
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	seed := cfg.Ambient.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	c := &Controller{
		cfg:       cfg,
		hw:        hw,
		logger:    logger,
		leds:      led.NewLEDs(cfg.RingSize),
		mode:      Off,
		gestures:  gesture.NewDecoder(cfg.Thresholds()),
		clock:     clockface.NewRenderer(cfg.ClockColors()),
		timer:     timer.New(cfg.TimerConfig()),
		patterns:  patterns,
		patternIx: patternIx,
		palettes:  palettes,
		paletteIx: paletteIx,
		ambient:   pattern.NewState(palette, cfg.Ambient.Speed, seed),

		hueEvery:     cadence.Every{Period: time.Duration(cfg.Ambient.HuePeriod)},
		patternEvery: cadence.Every{Period: time.Duration(cfg.Ambient.Cycle), MaxCatchUp: 1},
		paletteEvery: cadence.Every{Period: time.Duration(cfg.Ambient.PaletteCycle), MaxCatchUp: 1},
	}

	if !cfg.SideLight.Disabled && hw.SideLight != nil {
		c.breather = sidelight.NewBreather(cfg.SideLightConfig())
		c.follow = cfg.SideLight.FollowAmbient
		c.sideEvery = cadence.Every{
			Period:     time.Duration(cfg.SideLight.Period),
			MaxCatchUp: maxCatchUp,
		}
	}

	return c, nil
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode { return c.mode }

// LEDs returns a copy of the last rendered frame.
func (c *Controller) LEDs() led.LEDs { return c.leds.Copy() }

// Pattern returns the name of the active ambient pattern.
func (c *Controller) Pattern() string {
	return c.patterns.At(c.patternIx).Name()
}

// SetPattern selects the ambient pattern with the given name.
func (c *Controller) SetPattern(name string) error {
	ix, ok := c.patterns.Index(name)
	if !ok {
		return fmt.Errorf("unknown pattern %q", name)
	}
	c.patternIx = ix
	return nil
}

// NextPattern advances to the next ambient pattern, wrapping around.
func (c *Controller) NextPattern() {
	c.patternIx = (c.patternIx + 1) % len(c.patterns)
	c.logger.Debug("switched pattern", "pattern", c.Pattern())
}

func (c *Controller) nextPalette() {
	c.paletteIx = (c.paletteIx + 1) % len(c.palettes)
	name := c.palettes[invariant.Index(c.paletteIx, len(c.palettes), "palette")]

	palette, err := led.PaletteByName(name)
	if !invariant.Check(err == nil, "palette %q vanished", name) {
		return
	}

	c.ambient.Palette = palette
	c.logger.Debug("switched palette", "palette", name)
}

// SetMode switches to the given mode as if it had been reached with long
// presses, including the transition animation.
func (c *Controller) SetMode(m Mode) {
	if !invariant.Check(m.Valid(), "mode %d out of range", m) {
		m = Off
	}

	prev := c.mode
	c.mode = m
	c.transition = true
	c.wipe.active = false

	if prev == Timer || m == Timer {
		c.timer.Reset()
	}

	c.logger.Info("mode changed", "from", prev, "to", m)
}

// Run ticks the controller at the configured rate until the given context
// is canceled. Tick errors are logged and do not stop the loop.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(c.cfg.Tick))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := c.Tick(now); err != nil {
				c.logger.Warn("tick failed", "error", err)
			}
		}
	}
}

// Tick samples the touch sensor, handles the resulting gesture, renders one
// frame of the active mode and shows it. Only failing to show the frame is
// reported as an error.
func (c *Controller) Tick(now time.Time) error {
	if !c.hasStarted {
		c.start = now
		c.hasStarted = true
	}

	c.runPeriodic(now)

	ev := c.gestures.Sample(c.touched())
	if ev != gesture.None {
		c.logger.Debug("touch gesture", "event", ev, "mode", c.mode)
	}

	if ev == gesture.LongPress {
		c.beep(time.Duration(c.cfg.Touch.ConfirmBeep))
		c.SetMode(c.mode.Next())
	}

	switch c.mode {
	case Off:
		c.transition = false
		c.leds.Clear()
	case Clock:
		c.tickClock()
	case Timer:
		c.tickTimer(ev)
	case Ambient:
		c.tickAmbient(now)
	default:
		invariant.Check(false, "mode %d out of range", c.mode)
		c.SetMode(Off)
		c.leds.Clear()
	}

	return c.show()
}

// runPeriodic runs the work that follows wall clock time instead of ticks.
func (c *Controller) runPeriodic(now time.Time) {
	if n := c.hueEvery.Due(now); n > 0 {
		c.ambient.Hue += uint8(n)
	}

	if c.breather == nil {
		return
	}

	n := c.sideEvery.Due(now)
	if n == 0 || c.following() {
		return
	}
	for i := 0; i < n; i++ {
		c.breather.Step()
	}
	if err := c.breather.Apply(c.hw.SideLight); err != nil {
		c.logger.Warn("failed to set side lights", "error", err)
	}
}

// following reports whether the side lights show the ambient pattern's color
// instead of breathing.
func (c *Controller) following() bool {
	return c.follow && c.mode == Ambient
}

func (c *Controller) touched() bool {
	level, err := c.hw.Touch.TouchLevel()
	if err != nil {
		c.logger.Debug("failed to read touch sensor", "error", err)
		return false
	}
	return level
}

func (c *Controller) beep(d time.Duration) {
	if d <= 0 {
		return
	}
	if err := c.hw.Buzzer.Sound(d); err != nil {
		c.logger.Warn("failed to sound buzzer", "error", err)
	}
}

// playWipe advances the transition wipe and reports whether it finished. A
// finished wipe leaves the ring cleared.
func (c *Controller) playWipe(reverse bool) bool {
	if !c.wipe.active {
		c.wipe.begin(reverse)
	}
	if !c.wipe.step(c.leds, c.cfg.Wipe) {
		return false
	}
	c.leds.Clear()
	c.transition = false
	return true
}

func (c *Controller) tickClock() {
	if c.transition && !c.playWipe(false) {
		return
	}

	t, err := c.hw.Time.Now()
	switch {
	case err != nil:
		c.logger.Debug("failed to read time, keeping last", "error", err)
	case !t.Valid():
		c.logger.Debug("invalid time reading, keeping last", "time", t)
	default:
		c.lastTime = t
		c.hasTime = true
	}

	if !c.hasTime {
		c.leds.Clear()
		return
	}

	c.clock.Render(c.leds, c.lastTime)
}

func (c *Controller) tickTimer(ev gesture.Event) {
	// Touches during the wipe are dropped.
	if c.transition && !c.playWipe(true) {
		return
	}

	prev := c.timer.State()
	act := c.timer.Tick(ev)

	if state := c.timer.State(); state != prev {
		c.logger.Debug(
			"timer state changed",
			"from", prev,
			"to", state,
			"preset", c.timer.Preset())
		if state == timer.Expired {
			c.logger.Info("timer expired, sounding alarm")
		}
	}

	if act.Beep > 0 {
		c.beep(act.Beep)
	}

	if act.Done {
		c.logger.Info("alarm finished")
		c.SetMode(Off)
		c.leds.Clear()
		return
	}

	c.timer.Render(c.leds)
}

func (c *Controller) tickAmbient(now time.Time) {
	if c.transition {
		c.transition = false
		c.leds.Clear()
		c.ambient.Counter = 0
		c.patternEvery.Reset()
		c.paletteEvery.Reset()
	}

	if c.patternEvery.Due(now) > 0 {
		c.NextPattern()
	}
	if c.paletteEvery.Due(now) > 0 {
		c.nextPalette()
	}

	c.ambient.Now = now.Sub(c.start)
	c.patterns.At(c.patternIx).Draw(c.leds, c.ambient)

	if !c.following() {
		return
	}
	if col, ok := c.ambient.TakeAnalog(); ok {
		err := sidelight.WriteColor(c.hw.SideLight, col, c.cfg.SideLight.ActiveHigh)
		if err != nil {
			c.logger.Warn("failed to set side lights", "error", err)
		}
	}
}

// show writes the frame to the strip at the master brightness and flushes it.
// The Off mode clears the strip instead.
func (c *Controller) show() error {
	if c.mode == Off {
		if err := c.hw.Strip.ClearAll(); err != nil {
			return errors.Wrap(err, "failed to clear LEDs")
		}
	} else {
		for i, col := range c.leds {
			if err := c.hw.Strip.WritePixel(i, col.Scale(c.cfg.Brightness)); err != nil {
				return errors.Wrapf(err, "failed to write LED %d", i)
			}
		}
	}

	return errors.Wrap(c.hw.Strip.Flush(), "failed to flush LEDs")
}

// wipe is the transition animation: a dot of shifting hue sweeps once around
// the ring over a fading trail.
type wipe struct {
	active  bool
	reverse bool
	drawn   int
	// hue keeps counting across wipes.
	hue uint8
}

func (w *wipe) begin(reverse bool) {
	w.active = true
	w.reverse = reverse
	w.drawn = 0
}

// step draws the next few LEDs of the wipe and reports whether the wipe
// reached the end of the ring.
func (w *wipe) step(leds led.LEDs, cfg WipeConfig) bool {
	n := leds.Len()
	for i := 0; i < max(cfg.PixelsPerTick, 1) && w.drawn < n; i++ {
		ix := w.drawn
		if w.reverse {
			ix = n - 1 - w.drawn
		}

		w.hue += cfg.HueStep
		leds.Set(invariant.Index(ix, n, "wipe"), led.HSV(w.hue, 255, 255))
		leds.Scale(cfg.Fade)
		w.drawn++
	}

	if w.drawn >= n {
		w.active = false
		return true
	}
	return false
}
