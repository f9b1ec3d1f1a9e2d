package farkle

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/stowage/pkg/catalog"
	"github.com/matzehuels/stowage/pkg/session"
)

var day = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewSettingsDefaults(t *testing.T) {
	s := NewSettings()
	if s.AnimationMilli != 2000 || s.Threshold != 300 || s.HighScoreCount != 10 {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if !s.ShowImages || !s.ThresholdEnabled {
		t.Errorf("flags should default to true: %+v", s)
	}
}

func TestSettersIgnoreOutOfRange(t *testing.T) {
	s := NewSettings()
	s.SetAnimationMilli(-1)
	s.SetThreshold(-5)
	s.SetHighScoreCount(0)
	if s.AnimationMilli != 2000 || s.Threshold != 300 || s.HighScoreCount != 10 {
		t.Errorf("out-of-range values were applied: %+v", s)
	}

	s.SetAnimationMilli(0)
	s.SetThreshold(0)
	s.SetHighScoreCount(1)
	if s.AnimationMilli != 0 || s.Threshold != 0 || s.HighScoreCount != 1 {
		t.Errorf("in-range values were not applied: %+v", s)
	}
}

func TestSetHighScoresRanks(t *testing.T) {
	s := NewSettings()
	s.HighScoreCount = 3
	s.SetHighScores([]HighScore{
		{Name: "a", Score: 500, Date: day},
		{Name: "b", Score: 900, Date: day},
		{Name: "c", Score: 500, Date: day.Add(time.Hour)},
		{Name: "d", Score: 100, Date: day},
	})

	var got []string
	for _, hs := range s.HighScores {
		got = append(got, hs.Name)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, got); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}

	s.SetHighScoreCount(1)
	if len(s.HighScores) != 1 || s.HighScores[0].Name != "b" {
		t.Errorf("HighScores after shrink = %+v", s.HighScores)
	}
}

func TestAddScore(t *testing.T) {
	s := NewSettings()
	s.HighScoreCount = 2
	s.Name = "ann"
	s.now = fixedClock(day)

	s.AddScore(300)
	s.AddScore(700)
	if !s.CanAddScore(400) {
		t.Error("CanAddScore(400) = false, want true")
	}
	if s.CanAddScore(200) {
		t.Error("CanAddScore(200) = true, want false")
	}
	if len(s.HighScores) != 2 {
		t.Fatalf("CanAddScore changed the table: %+v", s.HighScores)
	}

	hs := s.AddScore(400)
	if hs.Name != "ann" || hs.Score != 400 || !hs.Date.Equal(day) || hs.ID.String() == "" {
		t.Errorf("AddScore returned %+v", hs)
	}
	if s.HighScores[0].Score != 700 || s.HighScores[1].Score != 400 {
		t.Errorf("HighScores = %+v", s.HighScores)
	}
}

func TestSetProperty(t *testing.T) {
	s := NewSettings()
	if !s.SetProperty("Threshold", -1) || s.Threshold != 300 {
		t.Errorf("Threshold = %d, want 300", s.Threshold)
	}
	if !s.SetProperty("AnimationMilli", 150.0) || s.AnimationMilli != 150 {
		t.Errorf("AnimationMilli = %v, want 150", s.AnimationMilli)
	}
	if s.SetProperty("Name", "bob") {
		t.Error("SetProperty(Name) = true, want direct assignment")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	c := catalog.New(Package)
	Register(c)

	want := NewSettings()
	want.Name = "ann"
	want.Threshold = 350
	want.ShowImages = false
	want.now = fixedClock(day)
	want.AddScore(1200)
	want.AddScore(800)

	path := filepath.Join(t.TempDir(), DefaultFileName)
	writer := session.New(session.WithCatalog(c))
	writer.Initialize(path)
	if !writer.SaveObject(want) {
		t.Fatal("SaveObject returned false")
	}

	reader := session.New(session.WithCatalog(c))
	got, err := session.InitializeAndLoad(reader, path, NewSettings())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(Settings{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got.now == nil {
		t.Error("loaded settings were not built by NewSettings")
	}
}
