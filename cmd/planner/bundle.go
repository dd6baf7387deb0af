package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"planner/internal/cli"
	"planner/internal/common"
	"planner/internal/config"
	"planner/internal/model"
	"planner/internal/storage"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export both collections to a single bundle document",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
}

func runExport(_ *cobra.Command, args []string) error {
	items, err := readItems()
	if err != nil {
		return err
	}
	entries, err := readMoney()
	if err != nil {
		return err
	}

	path := config.ExpandPath(args[0])
	if err := storage.WriteBundle(path, items, entries); err != nil {
		return common.NewUserError("could not write the bundle", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d item(s) and %d money entr(ies) to %s",
		len(items), len(entries), path)))
	return nil
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import a bundle document",
		Long: `Import a bundle document. By default the current collections are
replaced; with --merge, incoming records overwrite same-id records and new
ones are appended. The previous data files are backed up first.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	cmd.Flags().Bool("merge", false, "merge by record id instead of replacing")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	path := config.ExpandPath(args[0])
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return common.NewUserError(fmt.Sprintf("bundle %s does not exist", path), err)
	}

	bundle, err := storage.ReadBundle(path)
	if err != nil {
		return common.NewUserError("could not read the bundle", err)
	}

	items := bundle.Items
	entries := bundle.Money

	if merge, _ := cmd.Flags().GetBool("merge"); merge {
		current, readErr := readItems()
		if readErr != nil {
			return readErr
		}
		items = mergeItems(current, bundle.Items)

		currentMoney, readErr := readMoney()
		if readErr != nil {
			return readErr
		}
		entries = mergeMoney(currentMoney, bundle.Money)
	}

	// Snapshot what is about to be replaced.
	if err := snapshotIfPresent(itemsPath()); err != nil {
		return common.NewUserError("could not back up the current items file", err)
	}
	if err := snapshotIfPresent(moneyPath()); err != nil {
		return common.NewUserError("could not back up the current money file", err)
	}

	if err := saveItems(items); err != nil {
		return err
	}
	if err := saveMoney(entries); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d item(s) and %d money entr(ies)",
		len(items), len(entries))))
	return nil
}

// mergeItems overlays incoming onto current: same-id records are replaced in
// place, new ones appended in incoming order.
func mergeItems(current, incoming []model.ItemRecord) []model.ItemRecord {
	index := make(map[string]int, len(current))
	for i, item := range current {
		index[item.ID] = i
	}
	for _, item := range incoming {
		if i, ok := index[item.ID]; ok {
			current[i] = item
		} else {
			current = append(current, item)
		}
	}
	return current
}

func mergeMoney(current, incoming []model.MoneyRecord) []model.MoneyRecord {
	index := make(map[string]int, len(current))
	for i, entry := range current {
		index[entry.ID] = i
	}
	for _, entry := range incoming {
		if i, ok := index[entry.ID]; ok {
			current[i] = entry
		} else {
			current = append(current, entry)
		}
	}
	return current
}
