package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"planner/internal/cli"
	"planner/internal/common"
	"planner/internal/model"
	"planner/internal/scoring"
)

func itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage planned purchase items",
	}
	cmd.AddCommand(itemsListCmd())
	cmd.AddCommand(itemsAddCmd())
	cmd.AddCommand(itemsRemoveCmd())
	cmd.AddCommand(itemsRescoreCmd())
	return cmd
}

func itemsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List planned purchases",
		Long: `Display all planned purchases with their priority scores.

Unscored items show a blank score; run 'planner items rescore' to score the
whole collection against the current weights.`,
		RunE: runItemsList,
	}
	cmd.Flags().String("sort", "score", "sort order (score, date, cost, product)")
	return cmd
}

func runItemsList(cmd *cobra.Command, _ []string) error {
	items, err := readItems()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No planned purchases yet. Use 'planner items add' to create one."))
		return nil
	}

	sortBy, _ := cmd.Flags().GetString("sort")
	sortItems(items, sortBy)

	fmt.Println(cli.FormatTitle("Planned Purchases"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("ID"),
		cli.HeaderStyle.Render("Date"),
		cli.HeaderStyle.Render("Product"),
		cli.HeaderStyle.Render("Cost"),
		cli.HeaderStyle.Render("Ratings U/V/W/P/E"),
		cli.HeaderStyle.Render("Score"))

	currency := cfg.Settings.UI.CurrencySymbol
	for _, item := range items {
		score := "-"
		if item.OverallScore != nil {
			score = fmt.Sprintf("%.2f", *item.OverallScore)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s%s\t%d/%d/%d/%d/%d\t%s\n",
			shortID(item.ID),
			item.Date.Format(model.DateFormat),
			item.Product,
			currency, item.Cost.StringFixed(2),
			item.Urgency, item.Value, item.Want, item.PriceComp, item.Effect,
			score)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}

	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d item(s)", len(items))))
	return nil
}

func sortItems(items []model.ItemRecord, sortBy string) {
	switch sortBy {
	case "date":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Date.After(items[j].Date)
		})
	case "cost":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Cost.GreaterThan(items[j].Cost)
		})
	case "product":
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Product) < strings.ToLower(items[j].Product)
		})
	default: // score, unscored last
		sort.SliceStable(items, func(i, j int) bool {
			return scoreOrZero(items[i]) > scoreOrZero(items[j])
		})
	}
}

func scoreOrZero(item model.ItemRecord) float64 {
	if item.OverallScore == nil {
		return -1
	}
	return *item.OverallScore
}

func itemsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a planned purchase",
		RunE:  runItemsAdd,
	}
	cmd.Flags().String("product", "", "what to buy (required)")
	cmd.Flags().String("description", "", "longer description")
	cmd.Flags().String("location", "", "where to buy it")
	cmd.Flags().String("reference", "", "product URL or reference")
	cmd.Flags().String("cost", "0", "estimated cost")
	cmd.Flags().Int("urgency", 3, "urgency rating (1-5)")
	cmd.Flags().Int("value", 3, "value rating (1-5)")
	cmd.Flags().Int("want", 3, "want rating (1-5)")
	cmd.Flags().Int("price-comp", 3, "price comparison rating (1-5)")
	cmd.Flags().Int("effect", 3, "effect rating (1-5)")
	cmd.Flags().String("justification", "", "why this purchase matters")
	cmd.Flags().String("recurrence", "", "recurrence tag (e.g. monthly)")
	cmd.Flags().String("date", "", "entry date (default: now, format 2006-01-02 15:04)")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func runItemsAdd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	item := model.ItemRecord{
		ID:   model.NewID(),
		Date: time.Now(),
	}
	item.Product, _ = flags.GetString("product")
	item.Description, _ = flags.GetString("description")
	item.Location, _ = flags.GetString("location")
	item.Reference, _ = flags.GetString("reference")
	item.Justification, _ = flags.GetString("justification")
	item.Recurrence, _ = flags.GetString("recurrence")

	rawCost, _ := flags.GetString("cost")
	cost, err := parseAmount("cost", rawCost)
	if err != nil {
		return err
	}
	item.Cost = cost

	ratings := []struct {
		dst  *int
		flag string
	}{
		{&item.Urgency, "urgency"},
		{&item.Value, "value"},
		{&item.Want, "want"},
		{&item.PriceComp, "price-comp"},
		{&item.Effect, "effect"},
	}
	for _, r := range ratings {
		*r.dst, _ = flags.GetInt(r.flag)
		if err := validateRating(r.flag, *r.dst); err != nil {
			return err
		}
	}

	if rawDate, _ := flags.GetString("date"); rawDate != "" {
		date, parseErr := time.ParseInLocation(model.DateFormat, rawDate, time.Local)
		if parseErr != nil {
			return common.NewUserError(fmt.Sprintf("invalid date %q", rawDate), parseErr)
		}
		item.Date = date
	}

	result := scoring.Score(item, cfg.Weights)
	item.OverallScore = &result.Overall

	items, err := readItems()
	if err != nil {
		return err
	}
	items = append(items, item)
	if err := saveItems(items); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %q (id %s, score %.2f)",
		item.Product, shortID(item.ID), result.Overall)))
	return nil
}

func itemsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a planned purchase",
		Args:  cobra.ExactArgs(1),
		RunE:  runItemsRemove,
	}
}

func runItemsRemove(_ *cobra.Command, args []string) error {
	items, err := readItems()
	if err != nil {
		return err
	}

	idx, err := findItemIndex(items, args[0])
	if err != nil {
		return err
	}

	removed := items[idx]
	items = append(items[:idx], items[idx+1:]...)
	if err := saveItems(items); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed %q", removed.Product)))
	return nil
}

func itemsRescoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rescore",
		Short: "Recompute every item's priority score",
		Long: `Recompute the priority score of every planned purchase against the
current weights configuration, then save the collection and snapshot it.`,
		RunE: runItemsRescore,
	}
}

func runItemsRescore(_ *cobra.Command, _ []string) error {
	items, err := readItems()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println(cli.SubtleStyle.Render("Nothing to rescore."))
		return nil
	}

	bar := progressbar.Default(int64(len(items)), "rescoring")
	for i := range items {
		result := scoring.Score(items[i], cfg.Weights)
		items[i].OverallScore = &result.Overall
		_ = bar.Add(1)
	}

	if err := saveItems(items); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Rescored %d item(s)", len(items))))
	return nil
}
