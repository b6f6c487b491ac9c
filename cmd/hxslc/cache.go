package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hxsl/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the shader cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the shader cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := cacheDir(cmd)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), dir)
		return err
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached shader",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := cacheDir(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		c, err := driver.OpenDiskCache(dir)
		if err != nil {
			return err
		}
		if err := c.DropAll(); err != nil {
			return err
		}
		if !isQuiet(cmd) {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", c.Dir())
		}
		return nil
	},
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", "", "shader cache directory (default: $XDG_CACHE_HOME/hxsl)")
	cacheCmd.AddCommand(cacheDirCmd, cacheCleanCmd)
}

func cacheDir(cmd *cobra.Command) (string, error) {
	cfg, err := projectConfig(cmd, "")
	if err != nil {
		return "", err
	}
	if flag, _ := cmd.Flags().GetString("cache-dir"); flag != "" {
		return flag, nil
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return driver.DefaultCacheDir()
}
