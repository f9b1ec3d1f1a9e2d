// Package farkle holds the persisted state of the Farkle dice game: player
// preferences and the high score table.
//
// Settings are stored through a session; [Register] prepares a catalog so a
// saved file can be read back:
//
//	c := catalog.New(farkle.Package)
//	farkle.Register(c)
//	s := session.New(session.WithCatalog(c))
//	settings, err := session.InitializeAndLoad(s, path, farkle.NewSettings())
package farkle

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/stowage/pkg/catalog"
)

// Package is the import path of this package, used as the catalog default.
const Package = "github.com/matzehuels/stowage/internal/farkle"

// DefaultFileName is the settings file name inside the data directory.
const DefaultFileName = "farkle.xml"

// Defaults for a fresh [Settings].
const (
	DefaultAnimationMilli = 2000
	DefaultThreshold      = 300
	DefaultHighScoreCount = 10
)

// HighScore is one entry of the high score table.
type HighScore struct {
	ID    uuid.UUID
	Name  string
	Score int
	Date  time.Time
}

// NewHighScore returns an entry with a fresh ID.
func NewHighScore(name string, score int, date time.Time) HighScore {
	return HighScore{ID: uuid.New(), Name: name, Score: score, Date: date}
}

// Settings are the player preferences and high scores.
//
// Fields may be assigned directly; the Set methods, which are also used when
// settings are loaded, enforce the value ranges.
type Settings struct {
	AnimationMilli   float64
	ShowImages       bool
	ThresholdEnabled bool
	Threshold        int
	HighScoreCount   int
	HighScores       []HighScore
	Name             string

	now func() time.Time
}

// NewSettings returns settings with the default values.
func NewSettings() *Settings {
	return &Settings{
		AnimationMilli:   DefaultAnimationMilli,
		ShowImages:       true,
		ThresholdEnabled: true,
		Threshold:        DefaultThreshold,
		HighScoreCount:   DefaultHighScoreCount,
		now:              time.Now,
	}
}

// Register adds the settings types to c and makes [NewSettings] their factory.
func Register(c *catalog.Catalog) {
	c.Register(Settings{}, HighScore{})
	catalog.RegisterFactory(c, func() (*Settings, error) { return NewSettings(), nil })
}

// SetAnimationMilli sets the dice animation length. Negative values are ignored.
func (s *Settings) SetAnimationMilli(ms float64) {
	if ms >= 0 {
		s.AnimationMilli = ms
	}
}

// SetThreshold sets the minimum score to get on the board. Negative values
// are ignored.
func (s *Settings) SetThreshold(n int) {
	if n >= 0 {
		s.Threshold = n
	}
}

// SetHighScoreCount sets the table size and trims the table to fit.
// Values below one are ignored.
func (s *Settings) SetHighScoreCount(n int) {
	if n > 0 {
		s.HighScoreCount = n
	}
	s.SetHighScores(s.HighScores)
}

// SetHighScores replaces the table with scores ranked by score, then by date,
// both descending, and cut to HighScoreCount entries.
func (s *Settings) SetHighScores(scores []HighScore) {
	s.HighScores = s.rank(scores)
}

func (s *Settings) rank(scores []HighScore) []HighScore {
	ranked := slices.Clone(scores)
	slices.SortStableFunc(ranked, func(a, b HighScore) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return b.Date.Compare(a.Date)
	})
	if limit := max(s.HighScoreCount, 0); len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// AddScore records score for the current player name.
func (s *Settings) AddScore(score int) HighScore {
	hs := NewHighScore(s.Name, score, s.clock())
	s.SetHighScores(append(slices.Clone(s.HighScores), hs))
	return hs
}

// CanAddScore reports whether score would make it into the table.
func (s *Settings) CanAddScore(score int) bool {
	hs := NewHighScore(s.Name, score, s.clock())
	ranked := s.rank(append(slices.Clone(s.HighScores), hs))
	return slices.ContainsFunc(ranked, func(e HighScore) bool { return e.ID == hs.ID })
}

func (s *Settings) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// SetProperty routes loaded values through the range-checking setters.
func (s *Settings) SetProperty(name string, value any) bool {
	switch v := value.(type) {
	case float64:
		if name == "AnimationMilli" {
			s.SetAnimationMilli(v)
			return true
		}
	case int:
		switch name {
		case "Threshold":
			s.SetThreshold(v)
			return true
		case "HighScoreCount":
			s.SetHighScoreCount(v)
			return true
		}
	case []HighScore:
		if name == "HighScores" {
			s.SetHighScores(v)
			return true
		}
	}
	return false
}
