package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the remote endpoint, sync tuning and lyrics display.

Use subcommands to change specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsRemoteCmd = &cobra.Command{
	Use:   "remote [url]",
	Short: "Set the remote archive endpoint",
	Long: `Sets the base URL of the remote hymn archive. With --token the access
token is read interactively so it never appears in shell history.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsRemote,
}

var settingsDisplayCmd = &cobra.Command{
	Use:   "display [mode]",
	Short: "Set the lyrics display mode",
	Long: `Sets which lyric body is shown when viewing a hymn.

Available modes:
  original     - Original-language lyrics only
  translation  - Translated lyrics only
  both         - Both bodies`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsDisplay,
}

var settingsRemoteToken bool

func init() {
	settingsRemoteCmd.Flags().BoolVar(&settingsRemoteToken, "token", false, "prompt for an access token")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsRemoteCmd)
	settingsCmd.AddCommand(settingsDisplayCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Remote]")
	cmd.Printf("  URL:   %s\n", settings.RemoteURL)
	if settings.RemoteToken != "" {
		cmd.Printf("  Token: %s\n", maskToken(settings.RemoteToken))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Sync]")
	sync := settings.SyncConfig()
	cmd.Printf("  Batch size:          %d\n", sync.BatchSize)
	cmd.Printf("  Initial lookback:    %s\n", sync.InitialLookback)
	cmd.Printf("  Background interval: %s\n", sync.BackgroundInterval)
	cmd.Println()

	cmd.Println("[Display]")
	cmd.Printf("  Lyrics: %s\n", settings.Display)
	cmd.Println()

	cmd.Printf("Verbose logging: %t\n", settings.Verbose)
	return nil
}

func runSettingsRemote(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	url := strings.TrimSpace(args[0])

	token := ""
	if settingsRemoteToken {
		read, err := promptToken(cmd)
		if err != nil {
			return err
		}
		token = read
	} else {
		// Keep any existing token when only the URL changes
		if settings, err := settingsService.Get(); err == nil {
			token = settings.RemoteToken
		}
	}

	if err := settingsService.SetRemote(url, token); err != nil {
		return fmt.Errorf("saving remote settings: %w", err)
	}

	cmd.Printf("Remote endpoint set to %s.\n", url)
	return nil
}

func runSettingsDisplay(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	mode := domain.LyricsDisplay(strings.ToLower(strings.TrimSpace(args[0])))
	if !mode.IsValid() {
		return fmt.Errorf("invalid display mode %q (want original, translation or both)", args[0])
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	settings.Display = mode

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	cmd.Printf("Lyrics display set to %s.\n", mode)
	return nil
}

// promptToken reads a token without echoing when stdin is a terminal.
func promptToken(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--token requires an interactive terminal")
	}

	cmd.Print("Access token (input hidden): ")
	raw, err := term.ReadPassword(fd)
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// maskToken obscures all but the last four characters of a token.
func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
