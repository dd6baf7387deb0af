package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"planner/internal/backup"
	"planner/internal/cli"
	"planner/internal/common"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the data files",
		Long: `Copy the data files into the backup directory as timestamped snapshots,
then prune old snapshots under the retention policy: the newest keep_recent
always survive, plus keep_historical older ones spread across the full age
range.`,
		RunE: runBackup,
	}
	cmd.Flags().Bool("items", false, "back up only the items file")
	cmd.Flags().Bool("money", false, "back up only the money file")
	return cmd
}

func runBackup(cmd *cobra.Command, _ []string) error {
	itemsOnly, _ := cmd.Flags().GetBool("items")
	moneyOnly, _ := cmd.Flags().GetBool("money")
	both := itemsOnly == moneyOnly

	var sources []string
	if both || itemsOnly {
		sources = append(sources, itemsPath())
	}
	if both || moneyOnly {
		sources = append(sources, moneyPath())
	}

	for _, source := range sources {
		path, err := backup.Create(source, backupDir(), retentionPolicy())
		if errors.Is(err, backup.ErrSourceMissing) {
			return common.NewUserError(fmt.Sprintf("nothing to back up: %s does not exist", source), err)
		}
		if err != nil {
			return common.NewUserError("backup failed", err)
		}
		fmt.Println(cli.FormatSuccess("Backed up to " + path))
	}
	return nil
}
