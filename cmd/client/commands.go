// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-fin-keeper/internal/client"
	"github.com/MKhiriev/go-fin-keeper/internal/service"
	"github.com/MKhiriev/go-fin-keeper/models"
)

func newVersionCommand(build models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), build.String())
		},
	}
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the sync daemon in the foreground",
		Long: `Run keeps the reachability monitor, the sync job, the backend change
stream and cache compaction running until interrupted.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *client.App) error {
			fmt.Fprintln(cmd.OutOrStdout(), "fin-keeper daemon running, press Ctrl+C to stop")
			return app.Run(cmd.Context())
		}),
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backend reachability and pending writes",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *client.App) error {
			status, err := app.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.RenderStatus(status))
			return nil
		}),
	}
}

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay pending writes once",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *client.App) error {
			report, err := app.SyncOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.RenderDrainReport(report))
			return nil
		}),
	}
}

func newQueueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the sync queue",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List pending writes in replay order",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *client.App) error {
			items, err := app.API().PendingWrites(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.RenderQueue(items))
			return nil
		}),
	})
	return cmd
}

type txAddOptions struct {
	input   models.TransactionInput
	noQueue bool
}

func newTxCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Manage transactions",
	}
	cmd.AddCommand(newTxAddCommand(), newTxListCommand(), newTxRemoveCommand())
	return cmd
}

func newTxAddCommand() *cobra.Command {
	opts := &txAddOptions{}
	var txType string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Example: `  fin-keeper tx add --amount 12.50 --description Lunch
  fin-keeper tx add --type income --amount 1000 --description Salary --date 2024-03-01`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *client.App) error {
			opts.input.Type = models.TransactionType(txType)
			if opts.input.Date == "" {
				opts.input.Date = time.Now().Format(time.DateOnly)
			}

			var writeOpts []service.WriteOption
			if opts.noQueue {
				writeOpts = append(writeOpts, service.WithoutQueueOnFailure())
			}

			res, err := app.API().Transactions.Create(cmd.Context(), models.NewTransaction(opts.input), writeOpts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.RenderWrite("transaction", res, res.Record.RecordMeta))
			return nil
		}),
	}

	f := cmd.Flags()
	f.Float64Var(&opts.input.Amount, "amount", 0, "amount, always positive")
	f.StringVar(&opts.input.Description, "description", "", "description")
	f.StringVar(&txType, "type", string(models.TransactionExpense), "income or expense")
	f.StringVar(&opts.input.Date, "date", "", "ISO date (default today)")
	f.Int64Var(&opts.input.CategoryID, "category", 0, "category id")
	f.Int64Var(&opts.input.SourceID, "source", 0, "source id")
	f.StringVar(&opts.input.Notes, "notes", "", "free-form notes")
	f.BoolVar(&opts.noQueue, "no-queue", false, "fail instead of queueing when the backend rejects the write")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newTxListCommand() *cobra.Command {
	var (
		filters models.TransactionFilters
		txType  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions merged from the backend and local changes",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *client.App) error {
			filters.Type = models.TransactionType(txType)
			txs, err := app.API().Transactions.List(cmd.Context(), filters)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.RenderTransactions(txs))
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&txType, "type", "", "income or expense")
	f.Int64Var(&filters.CategoryID, "category", 0, "category id")
	f.Int64Var(&filters.SourceID, "source", 0, "source id")
	f.StringVar(&filters.From, "from", "", "first ISO date, inclusive")
	f.StringVar(&filters.To, "to", "", "last ISO date, inclusive")

	return cmd
}

func newTxRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id|temp-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *client.App) error {
			ref := parseRef(args[0])
			res, err := app.API().Transactions.Delete(cmd.Context(), ref)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.RenderWrite("delete", res, models.RecordMeta{ID: ref.ID, TempID: ref.TempID}))
			return nil
		}),
	}
}

func newCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}

	var catType string
	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *client.App) error {
			categories, err := app.API().Categories.List(cmd.Context(), models.CategoryFilters{Type: models.TransactionType(catType)})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.RenderCategories(categories))
			return nil
		}),
	}
	list.Flags().StringVar(&catType, "type", "", "income or expense")

	cmd.AddCommand(list)
	return cmd
}

// parseRef treats numeric arguments as server ids and anything else as a
// temp id of a record created offline.
func parseRef(arg string) models.RecordRef {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id > 0 {
		return models.RecordRef{ID: id}
	}
	return models.RecordRef{TempID: arg}
}
