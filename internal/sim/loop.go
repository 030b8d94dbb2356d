// Package sim ties the core subsystems into a deterministic fixed-step
// simulation: the accumulator clock, the per-tick subsystem ordering,
// the SimulationContext carrying the log sink and status-line queue, and
// the immutable snapshots handed to rendering.
package sim

// Loop is the fixed-timestep accumulator. Wall-clock frame deltas go in,
// a bounded number of fixed update(dt) calls come out, and the leftover
// fraction is exposed as the interpolation alpha for rendering.
type Loop struct {
	dt          float64
	accumulator float64
	simTime     float64
	timeScale   float64
	paused      bool
	stepOnce    bool

	maxStepsPerFrame int
	maxFrameSeconds  float64

	last HudMetrics
}

// HudMetrics is the per-frame clock telemetry the debug overlay reads.
type HudMetrics struct {
	SimTimeSeconds float64
	TickHz         float64
	TicksThisFrame int
	FrameDT        float64
	ClampedDT      float64
	Alpha          float64
}

// NewLoop returns a loop ticking at tps Hz. maxFrameSeconds clamps a
// single wall-clock delta (the spiral-of-death guard) and
// maxStepsPerFrame bounds catch-up within one frame.
func NewLoop(tps int, maxFrameSeconds float64, maxStepsPerFrame int) *Loop {
	if tps <= 0 {
		tps = 60
	}
	if maxFrameSeconds <= 0 {
		maxFrameSeconds = 0.25
	}
	if maxStepsPerFrame <= 0 {
		maxStepsPerFrame = 120
	}
	return &Loop{
		dt:               1.0 / float64(tps),
		timeScale:        1.0,
		maxStepsPerFrame: maxStepsPerFrame,
		maxFrameSeconds:  maxFrameSeconds,
	}
}

// DT returns the fixed step in seconds.
func (l *Loop) DT() float64 { return l.dt }

// SimTime returns the accumulated simulated seconds.
func (l *Loop) SimTime() float64 { return l.simTime }

// Paused reports whether the loop is consuming wall-clock time.
func (l *Loop) Paused() bool { return l.paused }

// SetPaused stops or resumes accumulator consumption. Pausing never
// discards already-accumulated time.
func (l *Loop) SetPaused(paused bool) { l.paused = paused }

// StepOnce queues exactly one fixed step for the next Advance while
// paused. Called while running, the request stays queued and fires on
// the first Advance after the loop is paused.
func (l *Loop) StepOnce() { l.stepOnce = true }

// SetTimeScale scales wall-clock time before it enters the accumulator.
// Values <= 0 are ignored; use SetPaused to stop time.
func (l *Loop) SetTimeScale(scale float64) {
	if scale > 0 {
		l.timeScale = scale
	}
}

// Metrics returns the telemetry captured by the most recent Advance.
func (l *Loop) Metrics() HudMetrics { return l.last }

// Advance feeds one wall-clock frame delta through the accumulator,
// calling update(dt) for every whole fixed step it covers (bounded by
// maxStepsPerFrame) and render(alpha) exactly once afterward. render may
// be nil for headless callers. It returns the frame's metrics.
func (l *Loop) Advance(frame float64, update func(dt float64), render func(alpha float64)) HudMetrics {
	clamped := frame
	if clamped > l.maxFrameSeconds {
		clamped = l.maxFrameSeconds
	}

	if !l.paused {
		l.accumulator += clamped * l.timeScale
	} else if l.stepOnce {
		l.accumulator += l.dt
		l.stepOnce = false
	}

	// stepEpsilon absorbs the rounding left by repeated subtraction, so a
	// frame that is an exact multiple of dt runs all of its steps.
	const stepEpsilon = 1e-9
	steps := 0
	for l.accumulator+stepEpsilon >= l.dt && steps < l.maxStepsPerFrame {
		update(l.dt)
		l.accumulator -= l.dt
		l.simTime += l.dt
		steps++
	}
	if l.accumulator < 0 {
		l.accumulator = 0
	}

	alpha := l.accumulator / l.dt
	if alpha >= 1 {
		// Catch-up was cut short by maxStepsPerFrame; render at the last
		// completed step rather than extrapolating past it.
		alpha = 0.999999
	}
	if render != nil {
		render(alpha)
	}

	l.last = HudMetrics{
		SimTimeSeconds: l.simTime,
		TickHz:         1.0 / l.dt,
		TicksThisFrame: steps,
		FrameDT:        frame,
		ClampedDT:      clamped,
		Alpha:          alpha,
	}
	return l.last
}
