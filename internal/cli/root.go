package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the configuration is loaded from the config
// file, overridden by STOWAGE_* environment variables and then by flags:
//
//	stowage --file ./farkle.xml show
//	STOWAGE_LOG_LEVEL=debug stowage score list
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Stowage keeps Farkle settings and high scores in an XML file",
		Long:          `Stowage persists the Farkle game's settings and high score table as an XML object graph, and lets you inspect, edit and visualize the stored file.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.configure(cmd.Flags().Changed("file")); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.file, "file", "f", "", "settings file (default $XDG_DATA_HOME/stowage/farkle.xml)")
	flags.StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/stowage/config.toml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.showCommand())
	root.AddCommand(c.setCommand())
	root.AddCommand(c.scoreCommand())
	root.AddCommand(c.dumpCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.resetCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
