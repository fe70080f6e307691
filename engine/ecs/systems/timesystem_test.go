package systems

import "testing"

func TestTimeSystemAdvancesAndWrapsDays(t *testing.T) {
	ts := NewTimeSystem()
	if ts.Day() != 1 || ts.CurrentSeason() != Spring {
		t.Fatalf("fresh time system at day %d season %v", ts.Day(), ts.CurrentSeason())
	}

	// 18 remaining hours of day 1 = 1080 game-minutes at Normal speed.
	ts.Update(1080)
	if ts.Day() != 2 {
		t.Errorf("day = %d, want 2 after 24h wrap", ts.Day())
	}
}

func TestTimeSystemSeasonRotation(t *testing.T) {
	ts := NewTimeSystem()
	ts.SetDaysPerSeason(2)

	// Two full days pushes into the second season.
	ts.Update(2 * 24 * 60)
	if ts.CurrentSeason() != Summer {
		t.Errorf("season = %v, want Summer", ts.CurrentSeason())
	}
	// A full year later, back to the same season.
	ts.Update(8 * 24 * 60)
	if ts.CurrentSeason() != Summer {
		t.Errorf("season after full year = %v, want Summer", ts.CurrentSeason())
	}
}

func TestTimeSystemPauseResumeRemembersSpeed(t *testing.T) {
	ts := NewTimeSystem()
	ts.SetSpeed(Fast)
	ts.Pause()
	if !ts.IsPaused() {
		t.Fatal("not paused after Pause")
	}

	before := ts.TimeOfDay()
	ts.Update(100)
	if ts.TimeOfDay() != before {
		t.Error("time advanced while paused")
	}

	ts.Resume()
	if ts.Speed() != Fast {
		t.Errorf("speed after resume = %v, want Fast", ts.Speed())
	}
	if ts.EffectiveTimeScale() != 3 {
		t.Errorf("effective scale at Fast = %v, want 3", ts.EffectiveTimeScale())
	}
}

func TestTimeSystemSpeedMultipliers(t *testing.T) {
	ts := NewTimeSystem()
	tests := []struct {
		speed GameSpeed
		want  float32
	}{
		{Paused, 0}, {Normal, 1}, {Fast, 3}, {VeryFast, 10},
	}
	for _, tc := range tests {
		ts.SetSpeed(tc.speed)
		if got := ts.EffectiveTimeScale(); got != tc.want {
			t.Errorf("scale at %v = %v, want %v", tc.speed, got, tc.want)
		}
	}
}
