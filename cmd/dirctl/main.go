// Command dirctl prints users and resolved message lists straight from
// the configured store.
//
//	dirctl users
//	dirctl inbox -user alice
//	dirctl outbox -user alice
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/msomdec/messagely/internal/config"
	"github.com/msomdec/messagely/internal/domain"
	"github.com/msomdec/messagely/internal/repository"
	"github.com/msomdec/messagely/internal/service"
	"github.com/olekukonko/tablewriter"
)

var errUsage = errors.New("usage: dirctl users | inbox -user NAME | outbox -user NAME")

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg.DatabaseDriver, cfg.DSN())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := run(ctx, store, cfg.BcryptCost, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		store.Close()
		os.Exit(2)
	}
}

// run migrates the store before reading so a fresh database path lists
// empty tables instead of failing.
func run(ctx context.Context, store domain.Store, bcryptCost int, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	identity, err := service.NewIdentityService(store.Users(), service.NewBcryptHasher(bcryptCost))
	if err != nil {
		return err
	}
	directory := service.NewMessageDirectory(store.Messages(), store.Users())
	resolver := service.NewProfileResolver(store.Users())

	switch args[0] {
	case "users":
		users, err := identity.ListAll(ctx)
		if err != nil {
			return err
		}
		table := newTable(out, "Username", "First name", "Last name")
		for _, u := range users {
			table.Append([]string{u.Username, u.FirstName, u.LastName})
		}
		table.Render()
		return nil

	case "inbox", "outbox":
		fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		user := fs.String("user", "", "username whose messages to list")
		if err := fs.Parse(args[1:]); err != nil || *user == "" {
			return errUsage
		}

		if args[0] == "inbox" {
			msgs, err := directory.MessagesTo(ctx, *user)
			if err != nil {
				return err
			}
			resolved, err := resolver.ResolveIncoming(ctx, msgs, *user)
			if err != nil {
				return err
			}
			renderMessages(out, "From", resolved, func(m domain.ResolvedMessage) *domain.Contact { return m.FromUser })
			return nil
		}

		msgs, err := directory.MessagesFrom(ctx, *user)
		if err != nil {
			return err
		}
		resolved, err := resolver.ResolveOutgoing(ctx, msgs, *user)
		if err != nil {
			return err
		}
		renderMessages(out, "To", resolved, func(m domain.ResolvedMessage) *domain.Contact { return m.ToUser })
		return nil

	default:
		return errUsage
	}
}

func renderMessages(out io.Writer, party string, msgs []domain.ResolvedMessage, counterparty func(domain.ResolvedMessage) *domain.Contact) {
	table := newTable(out, "Sent", party, "Name", "Read", "Body")
	for _, m := range msgs {
		c := counterparty(m)
		read := "-"
		if m.ReadAt != nil {
			read = m.ReadAt.Format(time.DateTime)
		}
		table.Append([]string{
			m.SentAt.Format(time.DateTime),
			c.Username,
			c.FirstName + " " + c.LastName,
			read,
			m.Body,
		})
	}
	table.Render()
}

func newTable(out io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
