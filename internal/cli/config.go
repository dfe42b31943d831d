package cli

import (
	"os"

	"github.com/spf13/cobra"

	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/mapgen"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write or print generation configs",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default config as TOML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "runmap.toml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := rerrors.ValidateConfigPath(path); err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return rerrors.New(rerrors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
			}

			f, err := os.Create(path)
			if err != nil {
				return rerrors.Wrap(rerrors.ErrCodeInvalidPath, err, "create %s", path)
			}
			if err := mapgen.WriteTOML(mapgen.DefaultConfig(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			printSuccess("Wrote default config")
			printFile(path)
			printNextStep("Generate a map", "runmap generate -c "+path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [path]",
		Short: "Print the effective config as TOML",
		Long:  `Print a config after defaults are filled in and ranges are clamped. Without a path the defaults are printed.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			return mapgen.WriteTOML(cfg.Normalize(), cmd.OutOrStdout())
		},
	}
}
