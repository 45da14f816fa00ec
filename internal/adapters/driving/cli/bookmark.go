package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/pkgref"
)

var errNoBookmarkService = errors.New("bookmark service not configured")

var bookmarkLabel string

var bookmarkCmd = &cobra.Command{
	Use:     "bookmark",
	Aliases: []string{"bm"},
	Short:   "Manage saved deep links into values schemas",
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add [package] [path]",
	Short: "Bookmark a field path",
	Args:  cobra.ExactArgs(2),
	RunE:  runBookmarkAdd,
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list [package]",
	Short: "List bookmarks, optionally for one package",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBookmarkList,
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"remove"},
	Short:   "Remove a bookmark",
	Args:    cobra.ExactArgs(1),
	RunE:    runBookmarkRemove,
}

func init() {
	bookmarkAddCmd.Flags().StringVarP(&bookmarkLabel, "label", "l", "", "note shown next to the bookmark")
	bookmarkCmd.AddCommand(bookmarkAddCmd)
	bookmarkCmd.AddCommand(bookmarkListCmd)
	bookmarkCmd.AddCommand(bookmarkRemoveCmd)
	rootCmd.AddCommand(bookmarkCmd)
}

func runBookmarkAdd(cmd *cobra.Command, args []string) error {
	if bookmarkService == nil {
		return errNoBookmarkService
	}
	ref, err := parseRef(args[0])
	if err != nil {
		return err
	}

	b, err := bookmarkService.Add(commandContext(cmd), ref, args[1], bookmarkLabel)
	if errors.Is(err, domain.ErrLookupMiss) {
		return fmt.Errorf("no field at %q", args[1])
	}
	if err != nil {
		return fmt.Errorf("adding bookmark: %w", err)
	}
	cmd.Printf("Bookmarked %s (%s)\n", b.Path, b.ID)
	return nil
}

func runBookmarkList(cmd *cobra.Command, args []string) error {
	if bookmarkService == nil {
		return errNoBookmarkService
	}

	var filter *domain.PackageRef
	if len(args) == 1 {
		ref, err := parseRef(args[0])
		if err != nil {
			return err
		}
		filter = &ref
	}

	list, err := bookmarkService.List(commandContext(cmd), filter)
	if err != nil {
		return fmt.Errorf("listing bookmarks: %w", err)
	}
	if len(list) == 0 {
		cmd.Println("No bookmarks.")
		return nil
	}

	for _, b := range list {
		line := fmt.Sprintf("%s  %s  %s", b.ID, pkgref.Format(b.Ref), b.Path)
		if b.Label != "" {
			line += "  # " + b.Label
		}
		cmd.Println(strings.TrimSpace(line))
	}
	return nil
}

func runBookmarkRemove(cmd *cobra.Command, args []string) error {
	if bookmarkService == nil {
		return errNoBookmarkService
	}
	err := bookmarkService.Remove(commandContext(cmd), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no bookmark with id %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("removing bookmark: %w", err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}
