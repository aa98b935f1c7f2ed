package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"pkt.systems/tally/internal/apiclient"
	"pkt.systems/tally/internal/appconfig"
	"pkt.systems/tally/schema"
)

type recordEnv struct {
	client   *apiclient.Client
	currency string
}

func loadRecordEnv(cfgPath string) (recordEnv, error) {
	cfg, err := appconfig.Load(cfgPath)
	if err != nil {
		return recordEnv{}, err
	}
	client, err := apiclient.New(cfg.API.BaseURL, apiclient.Options{Timeout: cfg.API.Timeout()})
	if err != nil {
		return recordEnv{}, err
	}
	return recordEnv{client: client, currency: cfg.API.Currency}, nil
}

func newAccountsCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List and delete accounts",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadRecordEnv(cfgPath)
			if err != nil {
				return err
			}
			accounts, err := env.client.Accounts(cmd.Context())
			if err != nil {
				return err
			}
			return writeAccounts(cmd.OutOrStdout(), accounts, env.currency)
		},
	})
	cmd.AddCommand(newDeleteCmd(&cfgPath, "account", func(ctx context.Context, c *apiclient.Client, id int64) (string, error) {
		return c.DeleteAccount(ctx, id)
	}))
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List, create and delete categories",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadRecordEnv(cfgPath)
			if err != nil {
				return err
			}
			categories, err := env.client.Categories(cmd.Context())
			if err != nil {
				return err
			}
			return writeCategories(cmd.OutOrStdout(), categories)
		},
	})

	var name string
	var hex string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadRecordEnv(cfgPath)
			if err != nil {
				return err
			}
			msg, err := env.client.CreateCategory(cmd.Context(), schema.CategoryInput{Name: name, Hex: hex})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return err
		},
	}
	create.Flags().StringVar(&name, "name", "", "category name")
	create.Flags().StringVar(&hex, "hex", "", "category colour (for example #7b68ee)")
	cmd.AddCommand(create)

	cmd.AddCommand(newDeleteCmd(&cfgPath, "category", func(ctx context.Context, c *apiclient.Client, id int64) (string, error) {
		return c.DeleteCategory(ctx, id)
	}))
	return cmd
}

func newTransactionsCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List and delete transactions",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadRecordEnv(cfgPath)
			if err != nil {
				return err
			}
			transactions, err := env.client.Transactions(cmd.Context())
			if err != nil {
				return err
			}
			return writeTransactions(cmd.OutOrStdout(), transactions, env.currency)
		},
	})
	cmd.AddCommand(newDeleteCmd(&cfgPath, "transaction", func(ctx context.Context, c *apiclient.Client, id int64) (string, error) {
		return c.DeleteTransaction(ctx, id)
	}))
	return cmd
}

func newOverviewCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Fetch accounts, categories and transactions at once",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadRecordEnv(cfgPath)
			if err != nil {
				return err
			}
			overview, err := env.client.Overview(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			total := decimal.Zero
			for _, account := range overview.Accounts {
				total = total.Add(account.Balance)
			}
			_, _ = fmt.Fprintf(out, "accounts: %d (balance %s)\n", len(overview.Accounts), formatAmount(total, env.currency))
			_, _ = fmt.Fprintf(out, "categories: %d\n", len(overview.Categories))
			_, err = fmt.Fprintf(out, "transactions: %d\n", len(overview.Transactions))
			return err
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	return cmd
}

type deleteFunc func(ctx context.Context, c *apiclient.Client, id int64) (string, error)

func newDeleteCmd(cfgPath *string, noun string, del deleteFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %q", schema.ErrInvalidID, args[0])
			}
			env, err := loadRecordEnv(*cfgPath)
			if err != nil {
				return err
			}
			msg, err := del(cmd.Context(), env.client, id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return err
		},
	}
}

func writeAccounts(out io.Writer, accounts []schema.Account, currency string) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tHOLDER\tBANK\tBALANCE\tFORECAST\tACTIVE")
	for _, a := range accounts {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%t\n",
			a.ID, a.Name, a.Holder, a.BankName,
			formatAmount(a.Balance, currency), formatAmount(a.BalanceForecast, currency), a.Active)
	}
	return w.Flush()
}

func writeCategories(out io.Writer, categories []schema.Category) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tHEX\tTRANSACTIONS\tACTIVE")
	for _, c := range categories {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\n", c.ID, c.Name, c.Hex, c.TransactionCount, c.Active)
	}
	return w.Flush()
}

func writeTransactions(out io.Writer, transactions []schema.Transaction, currency string) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATE\tNAME\tAMOUNT\tFROM\tTO\tTYPE")
	for _, t := range transactions {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.TransactionDate, t.Name, formatAmount(t.Amount, currency),
			t.FromAccount, t.ToAccount, t.TransactionType)
	}
	return w.Flush()
}
