package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/MrJamesThe3rd/pawnbook/internal/config"
	"github.com/MrJamesThe3rd/pawnbook/internal/database"
	"github.com/MrJamesThe3rd/pawnbook/internal/export"
	"github.com/MrJamesThe3rd/pawnbook/internal/pricing"
	pricingStore "github.com/MrJamesThe3rd/pawnbook/internal/pricing/store"
	"github.com/MrJamesThe3rd/pawnbook/internal/report"
	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
	txStore "github.com/MrJamesThe3rd/pawnbook/internal/transaction/store"
	"github.com/MrJamesThe3rd/pawnbook/internal/user"
	userStore "github.com/MrJamesThe3rd/pawnbook/internal/user/store"
)

func openDB() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return database.New(cfg.ConnectionString())
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply the database schema",
		Action: func(c *cli.Context) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(c.Context, db); err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, "schema up to date")

			return nil
		},
	}
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "add a counter account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "role", Value: string(user.RoleStaff), Usage: "admin or staff"},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"PAWNCTL_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			u, err := user.NewService(userStore.New(db)).Create(c.Context, user.CreateParams{
				Username: c.String("username"),
				Name:     c.String("name"),
				Role:     user.Role(c.String("role")),
				Password: c.String("password"),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "created %s (%s) %s\n", u.Username, u.Role, u.ID)

			return nil
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "export the transaction report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: string(export.FormatXLSX), Usage: "xlsx, pdf or txt"},
			&cli.TimestampFlag{Name: "from", Layout: time.DateOnly, Usage: "first day, inclusive"},
			&cli.TimestampFlag{Name: "to", Layout: time.DateOnly, Usage: "last day, exclusive"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, defaults to a generated name"},
		},
		Action: func(c *cli.Context) error {
			format, err := export.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}

			var from, to time.Time
			if t := c.Timestamp("from"); t != nil {
				from = *t
			}

			if t := c.Timestamp("to"); t != nil {
				to = *t
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			reports := report.NewService(transaction.NewService(txStore.New(db)))

			name := c.String("out")
			if name == "" {
				name = export.Filename(format, from, to)
			}

			f, err := os.Create(name)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := export.NewService(reports).Export(c.Context, f, format, from, to); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "wrote %s\n", name)

			return f.Close()
		},
	}
}

func importPricingCommand() *cli.Command {
	return &cli.Command{
		Name:      "import-pricing",
		Usage:     "load a pricing sheet",
		ArgsUsage: "<file.csv>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one file", 2)
			}

			f, err := os.Open(c.Args().First())
			if err != nil {
				return err
			}
			defer f.Close()

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := pricing.NewService(pricingStore.New(db)).Import(c.Context, f)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "%s sheet (%s): %d created, %d updated\n",
				result.Profile, result.Charset, result.Created, result.Updated)

			return nil
		},
	}
}
