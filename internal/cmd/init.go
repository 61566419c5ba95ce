package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hargabyte/jhier/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .jhier directory, config and snapshot database",
	Long: `Initialize the .jhier directory in the current directory.

This writes .jhier/config.yaml with the default settings and creates the
snapshot database for the configured storage backend (index.db for sqlite,
index/ for dolt). Edit the config to change platform prefixes, exclude
patterns, tree defaults or the name mapping file.

Examples:
  jhier init          # Initialize in current directory
  jhier init --force  # Rewrite config.yaml with defaults`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Rewrite config.yaml even if .jhier already exists")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	dir := filepath.Join(cwd, config.ConfigDirName)
	cfgFile := filepath.Join(dir, config.ConfigFileName)
	relPath, _ := filepath.Rel(cwd, dir)

	_, err = os.Stat(cfgFile)
	if err == nil {
		if !initForce {
			fmt.Fprintf(out, "Already initialized at %s\n", relPath)
			return nil
		}
		if err := os.Remove(cfgFile); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config path: %w", err)
	}

	if _, err := config.SaveDefault(cwd); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	p, err := newProject(cwd, dir)
	if err != nil {
		return err
	}
	snap, err := p.openSnapshot()
	if err != nil {
		return err
	}
	defer snap.Close()

	fmt.Fprintf(out, "Initialized jhier at %s (%s snapshot)\n", relPath, snap.Backend())
	return nil
}
