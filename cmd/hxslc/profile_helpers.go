package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hxsl/internal/prof"
)

// setupProfiling включает профилировщики по глобальным флагам.
// Возвращённый cleanup можно звать несколько раз.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()
	var cfg prof.Config
	for name, dst := range map[string]*string{
		"cpu-profile":   &cfg.CPUProfile,
		"mem-profile":   &cfg.MemProfile,
		"runtime-trace": &cfg.RuntimeTrace,
	} {
		v, err := pf.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if !cfg.Enabled() {
		return func() {}, nil
	}
	s, err := prof.Start(cfg)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := s.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to write profiles: %v\n", err)
		}
	}, nil
}
