// Package devcmder provides the cobra command running the scripted
// development server.
package devcmder

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/sdr/cmd/sdr/cmdutil"
	"github.com/papercomputeco/sdr/devserver"
	"github.com/papercomputeco/sdr/pkg/config"
)

type devCommander struct {
	listen string
	delay  string
}

const devLongDesc string = `Run the scripted development server.

The development server serves the same endpoints and streams the same
events as the SDR agent server, with canned replies instead of a model.
Point "sdr chat" and "sdr research" at it to work without the real agent.

Examples:
  sdr serve dev
  sdr serve dev --listen :5001 --delay 300ms
  sdr chat --base-url http://localhost:5001/api`

const devShortDesc string = "Run the scripted development server"

func NewDevCmd() *cobra.Command {
	cmder := &devCommander{}

	cmd := &cobra.Command{
		Use:   "dev",
		Short: devShortDesc,
		Long:  devLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagDevServerListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagDevServerDelay, &cmder.delay)

	return cmd
}

func (c *devCommander) run(cmd *cobra.Command) error {
	log, closeLog, err := cmdutil.ServerLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	v, err := cmdutil.Viper(cmd, config.FlagDevServerListen, config.FlagDevServerDelay)
	if err != nil {
		return err
	}

	delay, err := time.ParseDuration(v.GetString("devserver.delay"))
	if err != nil {
		return fmt.Errorf("invalid devserver.delay: %w", err)
	}
	if delay < 0 {
		return fmt.Errorf("invalid devserver.delay: %s is negative", delay)
	}

	srv := devserver.NewServer(devserver.Config{
		ListenAddr: v.GetString("devserver.listen"),
		Delay:      delay,
		Logger:     log,
	})

	return cmdutil.Serve(cmd.Context(), log, srv.Run, srv.Shutdown)
}
