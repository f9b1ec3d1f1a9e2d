package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/errors"
)

func (c *CLI) scoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Manage the high score table",
	}
	cmd.AddCommand(c.scoreAddCommand())
	cmd.AddCommand(c.scoreListCommand())
	return cmd
}

func (c *CLI) scoreAddCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <score>",
		Short: "Record a score if it makes the table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid score %q", args[0])
			}

			s, settings, err := c.loadSettings()
			if err != nil {
				return err
			}
			if name != "" {
				settings.Name = name
			}

			w := cmd.OutOrStdout()
			if !settings.CanAddScore(score) {
				printWarning(w, "%d does not make the top %d", score, settings.HighScoreCount)
				return nil
			}
			hs := settings.AddScore(score)
			if !s.SaveObject(settings) {
				return errors.New(errors.ErrCodeInternal, "could not save %s", s.Path())
			}
			loggerFromContext(cmd.Context()).Debug("score added", "id", hs.ID, "score", hs.Score)
			printSuccess(w, "Added %s for %s", StyleNumber.Render(strconv.Itoa(score)), orDash(hs.Name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "player name (default: the stored name)")
	return cmd
}

func (c *CLI) scoreListCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the high scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, settings, err := c.loadSettings()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(settings.HighScores) == 0 {
				printInfo(w, "No high scores yet")
				return nil
			}
			if !interactive {
				fmt.Fprintln(w, scoreTable(settings.HighScores, -1))
				return nil
			}

			p := tea.NewProgram(NewScoreListModel(settings.HighScores), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("score browser: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse scores interactively")
	return cmd
}
