package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mbakhodurov/week1/inventory/pkg/stock"
	"github.com/mbakhodurov/week1/order/pkg/api"
	"github.com/mbakhodurov/week1/order/pkg/storage"
	"github.com/mbakhodurov/week1/payment/pkg/capabilities"
)

// withDeps runs fn with connections opened from the loaded config.
func withDeps(cmd *cobra.Command, fn func(context.Context, *deps) error) error {
	ctx := cmd.Context()
	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()
	return fn(ctx, d)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				if _, err := storage.NewStorage(ctx, d.db); err != nil {
					return err
				}
				if _, err := stock.NewSQLStore(ctx, d.db); err != nil {
					return err
				}
				if _, err := capabilities.NewSQLStore(ctx, d.db); err != nil {
					return err
				}
				d.log.Info("schema up to date", "dsn", d.cfg.Database.DSN)
				return nil
			})
		},
	}
}

func capabilitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "Inspect or change the payment kill switches",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current capability snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				reg, err := d.registry(ctx)
				if err != nil {
					return err
				}
				return printJSON(reg.Get(ctx))
			})
		},
	})

	var (
		enabled, testMode string
		actor             string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Update the global or test-mode flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			var u capabilities.Update
			for _, f := range []struct {
				val string
				dst **bool
			}{{enabled, &u.Enabled}, {testMode, &u.TestMode}} {
				if f.val == "" {
					continue
				}
				b, err := strconv.ParseBool(f.val)
				if err != nil {
					return fmt.Errorf("invalid boolean %q", f.val)
				}
				*f.dst = &b
			}
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				reg, err := d.registry(ctx)
				if err != nil {
					return err
				}
				snap, err := reg.Update(ctx, actor, u)
				if err != nil {
					return err
				}
				return printJSON(snap)
			})
		},
	}
	set.Flags().StringVar(&enabled, "enabled", "", "global payments switch (true|false)")
	set.Flags().StringVar(&testMode, "test-mode", "", "honor simulated failures (true|false)")
	set.Flags().StringVar(&actor, "actor", "cli", "actor recorded in the audit log")
	cmd.AddCommand(set)

	toggle := &cobra.Command{
		Use:   "toggle [provider]",
		Short: "Flip one provider's switch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				reg, err := d.registry(ctx)
				if err != nil {
					return err
				}
				snap, err := reg.ToggleProvider(ctx, actor, args[0])
				if err != nil {
					return err
				}
				return printJSON(snap)
			})
		},
	}
	toggle.Flags().StringVar(&actor, "actor", "cli", "actor recorded in the audit log")
	cmd.AddCommand(toggle)

	return cmd
}

func stockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Inspect or set product stock",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set [product] [quantity]",
		Short: "Set the available quantity of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || qty < 0 {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				s, err := d.stock(ctx)
				if err != nil {
					return err
				}
				return s.Set(ctx, args[0], qty)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get [product]",
		Short: "Print the available quantity of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, d *deps) error {
				s, err := d.stock(ctx)
				if err != nil {
					return err
				}
				q, err := s.Get(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Println(q)
				return nil
			})
		},
	})
	return cmd
}

func tokenCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "token [user-id]",
		Short: "Sign a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tok, err := api.IssueToken([]byte(cfg.Auth.JWTSecret), args[0], role)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "user", "role claim (user|admin)")
	return cmd
}
