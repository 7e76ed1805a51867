package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage favourite hymns",
	Long: `Lists and edits the favourites list. The list always starts with the
pinned entries, followed by your favourites in the order you added them.`,
	RunE: runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add [id]",
	Short: "Add a hymn to favourites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a hymn from favourites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesRemove,
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle [id]",
	Short: "Toggle a hymn's favourite state",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesToggle,
}

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesToggleCmd)
	rootCmd.AddCommand(favoritesCmd)
}

func parseHymnID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hymn ID %q", arg)
	}
	return id, nil
}

func runFavoritesList(cmd *cobra.Command, _ []string) error {
	if favoritesService == nil {
		return errors.New("favorites service not configured")
	}

	hymns, err := favoritesService.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing favourites: %w", err)
	}

	for i := range hymns {
		h := &hymns[i]
		if h.IsPinned() {
			cmd.Printf("  * %s\n", h.Title)
			continue
		}
		cmd.Printf("  [%d] %s\n", h.ID, h.Title)
	}
	return nil
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	if favoritesService == nil {
		return errors.New("favorites service not configured")
	}

	id, err := parseHymnID(args[0])
	if err != nil {
		return err
	}

	if err := favoritesService.Add(context.Background(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("hymn %d not found in the local replica", id)
		case errors.Is(err, domain.ErrPinnedID):
			return errors.New("pinned entries cannot be edited")
		}
		return fmt.Errorf("adding favourite: %w", err)
	}

	cmd.Printf("Added hymn %d to favourites.\n", id)
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	if favoritesService == nil {
		return errors.New("favorites service not configured")
	}

	id, err := parseHymnID(args[0])
	if err != nil {
		return err
	}

	if err := favoritesService.Remove(context.Background(), id); err != nil {
		return fmt.Errorf("removing favourite: %w", err)
	}

	cmd.Printf("Removed hymn %d from favourites.\n", id)
	return nil
}

func runFavoritesToggle(cmd *cobra.Command, args []string) error {
	if favoritesService == nil {
		return errors.New("favorites service not configured")
	}

	id, err := parseHymnID(args[0])
	if err != nil {
		return err
	}

	fav, err := favoritesService.Toggle(context.Background(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPinnedID) {
			return errors.New("pinned entries cannot be edited")
		}
		return fmt.Errorf("toggling favourite: %w", err)
	}

	if fav {
		cmd.Printf("Added hymn %d to favourites.\n", id)
	} else {
		cmd.Printf("Removed hymn %d from favourites.\n", id)
	}
	return nil
}
