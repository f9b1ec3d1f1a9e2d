package cli

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/internal/farkle"
	"github.com/matzehuels/stowage/pkg/codec"
	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/props"
	"github.com/matzehuels/stowage/pkg/session"
)

func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored settings and high scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, settings, err := c.loadSettings()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSettings(w, settings)
			fmt.Fprintln(w)
			if len(settings.HighScores) == 0 {
				printInfo(w, "No high scores yet")
				return nil
			}
			fmt.Fprintln(w, StyleTitle.Render("High Scores"))
			fmt.Fprintln(w, scoreTable(settings.HighScores, -1))
			return nil
		},
	}
}

func (c *CLI) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <setting> <value>",
		Short: "Change one setting",
		Long: `Change one setting and save the file.

Settings are matched by name, ignoring case: name, animationmilli, showimages,
thresholdenabled, threshold, highscorecount. Out-of-range values are ignored
the same way the game ignores them.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeSettingNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, settings, err := c.loadSettings()
			if err != nil {
				return err
			}
			name, err := applySetting(settings, args[0], args[1])
			if err != nil {
				return err
			}
			if !s.SaveObject(settings) {
				return errors.New(errors.ErrCodeInternal, "could not save %s", s.Path())
			}
			printSuccess(cmd.OutOrStdout(), "%s = %s", name, formatSetting(settings, name))
			return nil
		},
	}
}

// applySetting parses text for the scalar setting named key and stores it
// through the settings' range checks. It returns the canonical setting name.
func applySetting(s *farkle.Settings, key, text string) (string, error) {
	cdc := codec.New()
	obj := reflect.ValueOf(s)
	for _, p := range props.NewSelector(cdc).Eligible(obj) {
		if !strings.EqualFold(p.Name, key) {
			continue
		}
		if !cdc.IsScalar(p.Type) {
			return "", errors.New(errors.ErrCodeInvalidInput, "%s cannot be set from the command line", p.Name)
		}
		v, err := cdc.Parse(text, p.Type)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid value for %s: %q", p.Name, text)
		}
		if !s.SetProperty(p.Name, v.Interface()) {
			obj.Elem().FieldByIndex(p.Index).Set(v)
		}
		return p.Name, nil
	}
	return "", errors.New(errors.ErrCodeNotFound, "unknown setting %q", key)
}

// settingNames lists the settings that can be changed with set.
func settingNames() []string {
	cdc := codec.New()
	var names []string
	for _, p := range props.NewSelector(cdc).Eligible(reflect.ValueOf(farkle.NewSettings())) {
		if cdc.IsScalar(p.Type) {
			names = append(names, strings.ToLower(p.Name))
		}
	}
	return names
}

func completeSettingNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, name := range settingNames() {
		if strings.HasPrefix(name, strings.ToLower(toComplete)) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func formatSetting(s *farkle.Settings, name string) string {
	text, err := codec.New().Format(reflect.ValueOf(s).Elem().FieldByName(name))
	if err != nil {
		return "?"
	}
	return text
}

func (c *CLI) pathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the settings, fallback and config file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			cfgPath := c.configFile
			if cfgPath == "" {
				var err error
				if cfgPath, err = configPath(); err != nil {
					return err
				}
			}
			printKeyValue(w, "settings", c.Config.File)
			printKeyValue(w, "fallback", session.FallbackPath(c.Config.File))
			printKeyValue(w, "config", cfgPath)
			return nil
		},
	}
}

func (c *CLI) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the settings file and its fallback copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.openSession()
			s.SaveObject(nil)
			printSuccess(cmd.OutOrStdout(), "Removed stored settings")
			printFile(cmd.OutOrStdout(), s.Path())
			return nil
		},
	}
}
