package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/bootstrap"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/jwt"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// loadFn permite sustituir la configuración en tests.
var loadFn = config.Load

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stockctl",
		Short:         "Operación del servicio de stock y conciliación",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newNetTotalCmd(), newStockCmd(), newTokenCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "migrate", Short: "Esquema PostgreSQL (golang-migrate)"}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := loadFn()
			if err != nil {
				return err
			}
			return bootstrap.Migrate(cfg.DB, func(m *postgres.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(c.OutOrStdout(), "versión %d (dirty=%t)\n", v, dirty)
				return nil
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revierte migraciones",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := loadFn()
			if err != nil {
				return err
			}
			return bootstrap.Migrate(cfg.DB, func(m *postgres.Migrator) error { return m.Down(steps) })
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "Cantidad de migraciones a revertir")
	cmd.AddCommand(down)
	return cmd
}

func newNetTotalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "net-total <invoiceId>",
		Short: "Total neto de una factura después de devoluciones",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return withContainer(c, func(ctx context.Context, ct *bootstrap.Container) error {
				out, err := ct.ReconciliationUC.NetTotal(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(c.OutOrStdout(), out)
			})
		},
	}
}

func newStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stock <productId>",
		Short: "Stock de un producto en todas las ubicaciones",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return withContainer(c, func(ctx context.Context, ct *bootstrap.Container) error {
				list, err := ct.StockUC.ListByProduct(ctx, args[0])
				if err != nil {
					return err
				}
				out := make([]dto.StockResponse, 0, len(list))
				for _, s := range list {
					out = append(out, dto.ToStockResponse(s))
				}
				return printJSON(c.OutOrStdout(), out)
			})
		},
	}
}

func newTokenCmd() *cobra.Command {
	var role, branch string
	cmd := &cobra.Command{
		Use:   "token <userId> [minutes]",
		Short: "Emite un JWT de operación firmado con JWT_SECRET",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadFn()
			if err != nil {
				return err
			}
			minutes := cfg.JWT.Expiration
			if len(args) == 2 {
				if minutes, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("minutos inválidos: %w", err)
				}
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer, jwt.Claims{UserID: args[0], BranchID: branch, Role: role}, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "admin", "Rol del token")
	cmd.Flags().StringVar(&branch, "branch", "", "Sucursal del usuario")
	return cmd
}

func withContainer(c *cobra.Command, fn func(ctx context.Context, ct *bootstrap.Container) error) error {
	cfg, err := loadFn()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn", Out: c.ErrOrStderr()})
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ct, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer ct.Close()
	return fn(ctx, ct)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
