package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repoSlug = "happyhackingspace/dil"

func (c *CLI) newUpCommand() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Self-update to the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.selfUpdate(cmd, check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Only report whether a newer release exists")
	return cmd
}

// releaseVersion turns the build version into something semver can compare.
// Development builds compare as 0.0.0 so any release is newer.
func releaseVersion(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" || v == "dev" {
		return "0.0.0"
	}
	return v
}

func (c *CLI) selfUpdate(cmd *cobra.Command, check bool) error {
	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return err
	}

	latest, found, err := updater.DetectLatest(cmd.Context(), selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return fmt.Errorf("detect latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", repoSlug)
	}

	out := cmd.OutOrStdout()
	if latest.LessOrEqual(releaseVersion(c.version)) {
		fmt.Fprintf(out, "Already up to date (%s)\n", c.version)
		return nil
	}
	if check {
		fmt.Fprintf(out, "Release %s is available (current %s), run `dil up` to install\n", latest.Version(), c.version)
		return nil
	}

	slog.Info("Updating", "from", c.version, "to", latest.Version())
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	if err := updater.UpdateTo(cmd.Context(), latest, exe); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	fmt.Fprintf(out, "Updated to %s\n", latest.Version())
	return nil
}
