package cli

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stowage/internal/farkle"
	"github.com/matzehuels/stowage/pkg/catalog"
	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/observability"
	"github.com/matzehuels/stowage/pkg/session"
)

// appName is the application name used for directories and display.
const appName = "stowage"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	// Flag values, applied over Config before each command runs.
	configFile string
	file       string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// configure loads the configuration and applies flag overrides.
func (c *CLI) configure(fileChanged bool) error {
	cfg, err := loadConfig(c.configFile)
	if err != nil {
		return err
	}
	if fileChanged {
		cfg.File = c.file
	}
	if c.verbose {
		cfg.LogLevel = "debug"
	}
	if err := errors.ValidatePath(cfg.File); err != nil {
		return err
	}
	if err := errors.ValidatePackagePath(cfg.DefaultPackage); err != nil {
		return err
	}

	level, err := cfg.level()
	if err != nil {
		return err
	}
	c.SetLogLevel(level)
	c.Config = cfg
	observability.SetStoreHooks(storeLogger{c.Logger})
	observability.SetEngineHooks(engineLogger{c.Logger})
	return nil
}

// openSession returns a session on the configured settings file.
func (c *CLI) openSession() *session.Session {
	cat := catalog.New(c.Config.DefaultPackage)
	farkle.Register(cat)

	s := session.New(session.WithCatalog(cat), session.WithLogger(c.Logger))
	s.Initialize(c.Config.File)
	return s
}

// loadSettings opens a session and loads the settings, falling back to the
// defaults when no file exists yet.
func (c *CLI) loadSettings() (*session.Session, *farkle.Settings, error) {
	s := c.openSession()
	settings, err := session.Load(s, farkle.NewSettings())
	if err != nil {
		return nil, nil, err
	}
	return s, settings, nil
}
