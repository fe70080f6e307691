// Package systems holds the per-tick ECS systems registered on a
// ecs.World: time advancement, needs decay, movement, physics, vision and
// the colonist decision evaluator.
package systems

// GameSpeed is the game's pause/fast-forward setting.
type GameSpeed int

const (
	Paused GameSpeed = iota
	Normal           // 1x
	Fast             // 3x
	VeryFast         // 10x
)

// speedMultipliers maps a GameSpeed to its game-minutes-per-real-second
// factor at baseTimeScale 1.
var speedMultipliers = [...]float32{0, 1, 3, 10}

// Season is the current quarter of the colony's year.
type Season int

const (
	Spring Season = iota
	Summer
	Fall
	Winter
)

// String returns the season's display name.
func (s Season) String() string {
	switch s {
	case Spring:
		return "Spring"
	case Summer:
		return "Summer"
	case Fall:
		return "Fall"
	case Winter:
		return "Winter"
	default:
		return "Unknown"
	}
}

// GameTimeSnapshot is a point-in-time read of TimeSystem's state, for
// UI/serialization.
type GameTimeSnapshot struct {
	Day      int
	Season   Season
	TimeOfDay float32
	Speed    GameSpeed
	IsPaused bool
}

// TimeSystem advances day/season/time-of-day and exposes the effective
// time scale other systems should multiply their deltaTime by instead of
// using raw deltaTime directly. Runs first: Priority 10.
type TimeSystem struct {
	dayCount         int
	currentSeason    Season
	currentTimeOfDay float32

	currentSpeed  GameSpeed
	previousSpeed GameSpeed

	baseTimeScale  float32
	daysPerSeason  int
}

// NewTimeSystem constructs a TimeSystem starting at day 1, 6:00 AM,
// Spring, running at Normal speed.
func NewTimeSystem() *TimeSystem {
	return &TimeSystem{
		dayCount:         1,
		currentSeason:    Spring,
		currentTimeOfDay: 6.0,
		currentSpeed:     Normal,
		previousSpeed:    Normal,
		baseTimeScale:    1.0,
		daysPerSeason:    15,
	}
}

func (s *TimeSystem) Name() string  { return "Time" }
func (s *TimeSystem) Priority() int { return 10 }

// Update advances time by deltaTime scaled by the current speed; a no-op
// while paused.
func (s *TimeSystem) Update(deltaTime float32) {
	if s.currentSpeed == Paused {
		return
	}
	gameMinutes := deltaTime * s.baseTimeScale * speedMultipliers[s.currentSpeed]
	s.advanceTime(gameMinutes)
}

func (s *TimeSystem) advanceTime(gameMinutes float32) {
	s.currentTimeOfDay += gameMinutes / 60.0
	for s.currentTimeOfDay >= 24.0 {
		s.currentTimeOfDay -= 24.0
		s.dayCount++
	}

	totalDays := s.daysPerSeason * 4
	dayInYear := (s.dayCount - 1) % totalDays
	s.currentSeason = Season(dayInYear / s.daysPerSeason)
}

// SetSpeed changes the current speed, remembering it as the resume target
// unless it's Paused.
func (s *TimeSystem) SetSpeed(speed GameSpeed) {
	if speed != Paused {
		s.previousSpeed = speed
	}
	s.currentSpeed = speed
}

// Pause freezes time advancement, remembering the current speed to resume.
func (s *TimeSystem) Pause() {
	if s.currentSpeed != Paused {
		s.previousSpeed = s.currentSpeed
		s.currentSpeed = Paused
	}
}

// Resume restores the speed Pause remembered.
func (s *TimeSystem) Resume() {
	if s.currentSpeed == Paused {
		s.currentSpeed = s.previousSpeed
	}
}

// TogglePause flips between Paused and the remembered speed.
func (s *TimeSystem) TogglePause() {
	if s.IsPaused() {
		s.Resume()
	} else {
		s.Pause()
	}
}

func (s *TimeSystem) Speed() GameSpeed { return s.currentSpeed }
func (s *TimeSystem) IsPaused() bool   { return s.currentSpeed == Paused }
func (s *TimeSystem) Day() int         { return s.dayCount }
func (s *TimeSystem) CurrentSeason() Season { return s.currentSeason }
func (s *TimeSystem) TimeOfDay() float32    { return s.currentTimeOfDay }

// EffectiveTimeScale returns the game-minutes-per-real-second factor other
// systems should use in place of raw deltaTime; 0 while paused.
func (s *TimeSystem) EffectiveTimeScale() float32 {
	return s.baseTimeScale * speedMultipliers[s.currentSpeed]
}

// Snapshot returns a point-in-time read of every time-related field.
func (s *TimeSystem) Snapshot() GameTimeSnapshot {
	return GameTimeSnapshot{
		Day:       s.dayCount,
		Season:    s.currentSeason,
		TimeOfDay: s.currentTimeOfDay,
		Speed:     s.currentSpeed,
		IsPaused:  s.IsPaused(),
	}
}

// SetBaseTimeScale sets game-minutes per real-second at Normal speed
// (default 1.0).
func (s *TimeSystem) SetBaseTimeScale(gameMinutesPerSecond float32) {
	s.baseTimeScale = gameMinutesPerSecond
}

// SetDaysPerSeason sets how many days make up one season (default 15).
func (s *TimeSystem) SetDaysPerSeason(days int) {
	s.daysPerSeason = days
}
