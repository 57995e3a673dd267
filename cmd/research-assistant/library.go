// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jordansp99/academic-research-assistant/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List and inspect previously saved digests",
	Long: `Library manages the local record of saved research digests. Every search
that saves papers is recorded; use subcommands to list past digests or
show the papers of one.`,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved digests, newest first",
	RunE:  runLibraryList,
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.List(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}

	fmt.Printf("%-6s  %-20s  %-50s  %s\n", "ID", "Saved", "Query", "Papers")
	fmt.Println(strings.Repeat("-", 90))
	for _, info := range infos {
		fmt.Printf("%-6d  %-20s  %-50s  %d\n",
			info.ID, info.CreatedAt.Local().Format("2006-01-02 15:04"), truncate(info.Query, 50), info.Papers)
	}
	return nil
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <digest-id>",
	Short: "Show the papers of one saved digest",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryShow,
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid digest id %q", args[0])
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	papers, err := store.Papers(context.Background(), id)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		return fmt.Errorf("digest %d not found or empty", id)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}

	printPaperTable(papers)
	return nil
}

func openLibrary() (*library.Store, error) {
	return library.NewStore(loadConfig().Storage.LibraryDir)
}

func init() {
	libraryListCmd.Flags().Bool("json", false, "output as JSON")
	libraryShowCmd.Flags().Bool("json", false, "output as JSON")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryShowCmd)

	rootCmd.AddCommand(libraryCmd)
}
