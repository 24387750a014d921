// Command ember is a small demonstration CLI for the ember ORM: it
// declares a table, creates it in a SQLite database, and walks through
// insert, query, update and delete using the fluent builders.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/embersql/ember/internal/debug"
	"github.com/embersql/ember/runtime/client"
	"github.com/embersql/ember/schema"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dbPath string
	var debugFlag bool

	root := &cobra.Command{
		Use:           "ember",
		Short:         "ember is a thin ORM over embedded SQLite",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("database") {
				dbPath = cfg.DatabasePath
			}
			debug.Init(debugFlag || cfg.Debug)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&dbPath, "database", "d", "ember.db", "path to the SQLite database file")
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log compiled SQL to stderr")

	root.AddCommand(newDemoCmd(&dbPath))
	root.AddCommand(newPingCmd(&dbPath))
	return root
}

func newPingCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Verify the database is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Open(*dbPath)
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.Connect(cmd.Context()); err != nil {
				return err
			}
			pterm.Success.Printfln("database %s is reachable", *dbPath)
			return nil
		},
	}
}

func newDemoCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run an end-to-end walkthrough against the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), *dbPath)
		},
	}
}

func runDemo(ctx context.Context, dbPath string) error {
	users, err := schema.New("users",
		schema.Int("id", schema.PrimaryKey()),
		schema.Text("email", schema.Unique()),
		schema.Text("role", schema.Default("member")),
		schema.Real("score", schema.Nullable()),
	)
	if err != nil {
		return err
	}

	c, err := client.Open(dbPath)
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.Connect(ctx); err != nil {
		return err
	}

	pterm.DefaultSection.Println("schema")
	if err := c.DropTable(ctx, users); err != nil {
		return err
	}
	if err := c.CreateTable(ctx, users); err != nil {
		return err
	}
	pterm.Success.Printfln("table %s created", users.Name())

	model := c.Model(users)

	pterm.DefaultSection.Println("insert")
	seed := []map[string]interface{}{
		{"id": 1, "email": "ada@example.com", "score": 9.7},
		{"id": 2, "email": "grace@example.com", "role": "admin"},
		{"id": 3, "email": "edsger@example.com"},
	}
	for _, values := range seed {
		rec, err := model.New(values)
		if err != nil {
			return err
		}
		if err := model.Insert(ctx, rec); err != nil {
			return err
		}
	}
	pterm.Success.Printfln("%d rows inserted", len(seed))

	id, _ := users.Column("id")
	email, _ := users.Column("email")
	role, _ := users.Column("role")

	pterm.DefaultSection.Println("select")
	rows, err := model.Select().
		Where(schema.Or(role.Eq("admin"), id.Gt(1))).
		OrderBy(email).
		All(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		e, _ := row.Get("email")
		r, _ := row.Get("role")
		fmt.Printf("  %s %s\n", color.CyanString("%v", e), color.YellowString("(%v)", r))
	}

	pterm.DefaultSection.Println("instance update")
	first, err := model.Select().Where(id.Eq(1)).First(ctx)
	if err != nil {
		return err
	}
	if err := first.Set("role", "owner"); err != nil {
		return err
	}
	if _, err := model.UpdateRecord(ctx, first); err != nil {
		return err
	}
	pterm.Success.Println("row 1 promoted to owner")

	pterm.DefaultSection.Println("delete")
	n, err := model.Delete().Where(id.In(2, 3)).Exec(ctx)
	if err != nil {
		return err
	}
	pterm.Success.Printfln("%d rows deleted", n)
	return nil
}
