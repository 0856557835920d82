package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/winappkit/winapp/internal/cache"
	"github.com/winappkit/winapp/internal/config"
	"github.com/winappkit/winapp/internal/messages"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolP("quiet", "q", false, messages.FlagQuietHelp)

	cmd.AddCommand(newToolCmd())
	cmd.AddCommand(newPackagesCmd())
	cmd.AddCommand(newCacheCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newInitCmd())
	return cmd
}

// project bundles everything a command learns from the working directory.
type project struct {
	Root   string
	Config *config.Config
	Env    map[string]string
	Found  bool
}

// loadProject locates winapp.yaml upward from the working directory. A
// directory without one yields an empty config rather than an error so
// cache and ad-hoc tool commands work anywhere.
func loadProject() (project, error) {
	cwd, err := getwd()
	if err != nil {
		return project{}, err
	}
	root, found, err := config.FindProjectRoot(cwd)
	if err != nil {
		return project{}, err
	}
	if !found {
		return project{Config: &config.Config{}, Env: map[string]string{}}, nil
	}

	paths := config.DefaultPaths(root)
	cfg, err := config.Load(paths.ConfigPath)
	if err != nil {
		return project{}, err
	}
	env, err := config.LoadProjectEnv(paths.EnvPath)
	if err != nil {
		return project{}, err
	}
	return project{Root: root, Config: cfg, Env: env, Found: true}, nil
}

// loadProjectLenient is loadProject without validation. Read-only commands
// keep working when winapp.yaml carries an invalid entry; Pin and Pins skip
// anything unparseable.
func loadProjectLenient() (project, error) {
	cwd, err := getwd()
	if err != nil {
		return project{}, err
	}
	root, found, err := config.FindProjectRoot(cwd)
	if err != nil {
		return project{}, err
	}
	if !found {
		return project{Config: &config.Config{}, Env: map[string]string{}}, nil
	}

	cfg, err := config.LoadLenient(config.DefaultPaths(root).ConfigPath)
	if err != nil {
		cfg = &config.Config{}
	}
	return project{Root: root, Config: cfg, Env: map[string]string{}, Found: true}, nil
}

// newCacheResolver builds the resolver commands share. The override flows
// from flags on the cache commands only; everything else uses the standard
// precedence.
func newCacheResolver() *cache.Resolver {
	return cache.NewResolver()
}

func quietFlag(cmd *cobra.Command) bool {
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return false
	}
	return quiet
}

// packagesRootDisplay shortens cacheRoot for human output when it sits
// under the home directory.
func packagesRootDisplay(cacheRoot string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return cacheRoot
	}
	if rel, err := filepath.Rel(home, cacheRoot); err == nil && rel != "" && !filepath.IsAbs(rel) && rel[0] != '.' {
		return filepath.Join("~", rel)
	}
	return cacheRoot
}
