package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/klauern/cusubmit/internal/ui"
)

func configCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or initialize the configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration as YAML",
				Action: func(_ context.Context, _ *cli.Command) error {
					return e.showConfig()
				},
			},
			{
				Name:  "init",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					if _, err := os.Stat(e.cfgPath); err == nil && !cmd.Bool("force") {
						return fmt.Errorf("config file already exists: %s (use --force to overwrite)", e.cfgPath)
					}
					if err := e.cfg.SaveToPath(e.cfgPath); err != nil {
						return fmt.Errorf("failed to write config: %w", err)
					}
					fmt.Fprintln(e.out, ui.StatusSuccess("Config written to "+e.cfgPath))
					return nil
				},
			},
			{
				Name:  "path",
				Usage: "Print the config file path",
				Action: func(_ context.Context, _ *cli.Command) error {
					fmt.Fprintln(e.out, e.cfgPath)
					return nil
				},
			},
		},
		Action: func(_ context.Context, _ *cli.Command) error {
			return e.showConfig()
		},
	}
}

func (e *env) showConfig() error {
	data, err := yaml.Marshal(e.cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = e.out.Write(data)
	return err
}
