package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/callummcdougall/arena-heroku/config"
	srv "github.com/callummcdougall/arena-heroku/internal/server"
)

func main() {
	var root = &cobra.Command{Use: "arena"}

	var cfgPath string
	var addr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run the course site HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			if addr != "" {
				cfg.General.Listen = addr
			}
			return srv.Run(cfg)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
