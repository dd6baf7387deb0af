package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"planner/internal/cli"
	"planner/internal/common"
	"planner/internal/model"
)

func moneyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "money",
		Short: "Track income and expenses",
	}
	cmd.AddCommand(moneyListCmd())
	cmd.AddCommand(moneyAddCmd())
	cmd.AddCommand(moneyRemoveCmd())
	return cmd
}

func moneyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List money movements",
		RunE:  runMoneyList,
	}
}

func runMoneyList(_ *cobra.Command, _ []string) error {
	entries, err := readMoney()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No money movements yet. Use 'planner money add' to record one."))
		return nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})

	// Linked item ids are resolved lazily and only for display; an entry may
	// reference an item that was removed.
	products := map[string]string{}
	if items, itemsErr := readItems(); itemsErr == nil {
		for _, item := range items {
			products[item.ID] = item.Product
		}
	}

	fmt.Println(cli.FormatTitle("Money Movements"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("ID"),
		cli.HeaderStyle.Render("Date"),
		cli.HeaderStyle.Render("Type"),
		cli.HeaderStyle.Render("Source/Destination"),
		cli.HeaderStyle.Render("Amount"),
		cli.HeaderStyle.Render("Linked"))

	currency := cfg.Settings.UI.CurrencySymbol
	for _, entry := range entries {
		linked := ""
		if entry.LinkedItemID != "" {
			if product, ok := products[entry.LinkedItemID]; ok {
				linked = product
			} else {
				linked = shortID(entry.LinkedItemID)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s%s\t%s\n",
			shortID(entry.ID),
			entry.Date.Format(model.DateFormat),
			entry.EntryType,
			entry.SourceOrDestination,
			currency, entry.Amount.StringFixed(2),
			linked)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}

	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d entr(ies)", len(entries))))
	return nil
}

func moneyAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a money movement",
		RunE:  runMoneyAdd,
	}
	cmd.Flags().String("type", string(model.EntryExpense), "entry type (income, expense)")
	cmd.Flags().String("source", "", "source or destination (required)")
	cmd.Flags().String("amount", "0", "amount")
	cmd.Flags().String("notes", "", "free-form notes")
	cmd.Flags().String("linked-item", "", "id of the purchase item this movement settles")
	cmd.Flags().String("date", "", "entry date (default: now, format 2006-01-02 15:04)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func runMoneyAdd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	entry := model.MoneyRecord{
		ID:   model.NewID(),
		Date: time.Now(),
	}

	entryType, _ := flags.GetString("type")
	entry.EntryType = model.EntryType(entryType)
	entry.SourceOrDestination, _ = flags.GetString("source")
	entry.Notes, _ = flags.GetString("notes")
	entry.LinkedItemID, _ = flags.GetString("linked-item")

	rawAmount, _ := flags.GetString("amount")
	amount, err := parseAmount("amount", rawAmount)
	if err != nil {
		return err
	}
	entry.Amount = amount

	if rawDate, _ := flags.GetString("date"); rawDate != "" {
		date, parseErr := time.ParseInLocation(model.DateFormat, rawDate, time.Local)
		if parseErr != nil {
			return common.NewUserError(fmt.Sprintf("invalid date %q", rawDate), parseErr)
		}
		entry.Date = date
	}

	entries, err := readMoney()
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	if err := saveMoney(entries); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s%s (id %s)",
		entry.EntryType, cfg.Settings.UI.CurrencySymbol, entry.Amount.StringFixed(2), shortID(entry.ID))))
	return nil
}

func moneyRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a money movement",
		Args:  cobra.ExactArgs(1),
		RunE:  runMoneyRemove,
	}
}

func runMoneyRemove(_ *cobra.Command, args []string) error {
	entries, err := readMoney()
	if err != nil {
		return err
	}

	idx, err := findMoneyIndex(entries, args[0])
	if err != nil {
		return err
	}

	entries = append(entries[:idx], entries[idx+1:]...)
	if err := saveMoney(entries); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess("Removed money entry"))
	return nil
}
