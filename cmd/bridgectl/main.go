// bridgectl inspects the room catalog and queries Beds24 availability from
// the command line, using the same configuration as the HTTP service.
//
// Usage:
//
//	bridgectl rooms [--locale hr]
//	bridgectl availability --room bamboo --month 2024-07 [--json]
//	bridgectl diagnostics
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	availabilitydomain "github.com/villagambera/channelbridge/internal/availability/domain"
	availabilityservice "github.com/villagambera/channelbridge/internal/availability/service"
	"github.com/villagambera/channelbridge/internal/beds24"
	"github.com/villagambera/channelbridge/internal/cache"
	"github.com/villagambera/channelbridge/internal/catalog"
	catalogdomain "github.com/villagambera/channelbridge/internal/catalog/domain"
	"github.com/villagambera/channelbridge/internal/clock"
	"github.com/villagambera/channelbridge/internal/config"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "bridgectl",
		Usage:   "Inspect the Villa Gambera catalog and Beds24 availability",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log diagnostic output to stderr",
			},
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Path to rooms.yml",
				EnvVars: []string{"CATALOG_FILE"},
			},
		},
		Commands: []*cli.Command{
			roomsCommand(),
			availabilityCommand(),
			diagnosticsCommand(),
		},
	}
}

type env struct {
	cfg     config.Config
	log     *zap.Logger
	catalog *catalog.Holder
}

func setup(c *cli.Context) (*env, error) {
	cfg := config.Load()
	if path := c.String("catalog"); path != "" {
		cfg.CatalogFile = path
	}

	log := zap.NewNop()
	if c.Bool("verbose") {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	holder, err := catalog.NewHolder(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return &env{cfg: cfg, log: log, catalog: holder}, nil
}

func roomsCommand() *cli.Command {
	return &cli.Command{
		Name:  "rooms",
		Usage: "List the rooms of the property",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "locale",
				Value: "en",
				Usage: "Locale for room names (en, hr, de)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print JSON instead of a table",
			},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			view := e.catalog.Localized(c.String("locale"))
			if c.Bool("json") {
				return printJSON(c.App.Writer, view)
			}

			fmt.Fprintf(c.App.Writer, "%s (property %s, locale %s)\n\n", view.Property.Name, view.Property.PropertyID, view.Locale)
			w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tROOM ID\tNAME\tCAPACITY\tTYPE\tFLOOR")
			for _, room := range view.Rooms {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", room.Key, room.RoomID, room.Name, room.Capacity, room.Type, room.Floor)
			}
			return w.Flush()
		},
	}
}

func availabilityCommand() *cli.Command {
	return &cli.Command{
		Name:  "availability",
		Usage: "Show one room's availability for a month",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "room",
				Aliases:  []string{"r"},
				Usage:    "Room key (e.g. bamboo) or Beds24 room id",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "month",
				Aliases:  []string{"m"},
				Usage:    "Month as YYYY-MM",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the API response instead of a table",
			},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}

			room, err := resolveRoom(e.catalog, c.String("room"))
			if err != nil {
				return err
			}

			client := beds24.NewClient(beds24.ClientParam{Config: e.cfg, Log: e.log})
			svc := availabilityservice.NewService(availabilityservice.ServiceParam{
				Config:   e.cfg,
				Log:      e.log,
				Clock:    clock.NewSystemClock(),
				Upstream: client,
				Store:    cache.NewMemoryStore(),
			})

			result, err := svc.GetMonth(context.Background(), room.RoomID, c.String("month"))
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(c.App.Writer, result)
			}
			return printDays(c.App.Writer, room.Name(catalogdomain.DefaultLocale), result)
		},
	}
}

func diagnosticsCommand() *cli.Command {
	return &cli.Command{
		Name:  "diagnostics",
		Usage: "Report which settings are configured",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "property id\t%s\n", e.cfg.Beds24.PropertyID)
			fmt.Fprintf(w, "api key\t%s\n", presence(e.cfg.Beds24.APIKey))
			fmt.Fprintf(w, "prop key\t%s\n", presence(e.cfg.Beds24.PropKey))
			fmt.Fprintf(w, "pms access\t%s\n", readiness(e.cfg.Beds24.HasCredentials()))
			fmt.Fprintf(w, "webhook secret\t%s\n", presence(e.cfg.WebhookSecret))
			fmt.Fprintf(w, "redis\t%s\n", presence(e.cfg.RedisAddr))
			fmt.Fprintf(w, "rooms\t%d\n", len(e.catalog.Rooms()))
			return w.Flush()
		},
	}
}

// resolveRoom accepts a catalog key or a Beds24 room id.
func resolveRoom(holder *catalog.Holder, ref string) (catalogdomain.Room, error) {
	if room, err := holder.RoomByKey(ref); err == nil {
		return room, nil
	}
	room, err := holder.RoomByID(ref)
	if err != nil {
		return catalogdomain.Room{}, fmt.Errorf("unknown room %q", strings.TrimSpace(ref))
	}
	return room, nil
}

func readiness(ok bool) string {
	if ok {
		return "ready"
	}
	return "disabled"
}

func presence(value string) string {
	if strings.TrimSpace(value) == "" {
		return "missing"
	}
	return "set"
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printDays(out io.Writer, name string, result availabilitydomain.MonthResult) error {
	fmt.Fprintf(out, "%s (room %d), %s\n\n", name, result.RoomID, result.Month)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tAVAILABLE\tINVENTORY\tMIN STAY\tRESTRICTIONS\tPRICE")
	for _, day := range result.Days {
		price := "-"
		if day.Price != nil {
			price = day.Price.StringFixed(2)
		}
		fmt.Fprintf(w, "%s\t%t\t%d\t%d\t%s\t%s\n", day.Date, day.Available, day.Inventory, day.MinStay, restrictions(day), price)
	}
	return w.Flush()
}

func restrictions(day availabilitydomain.Day) string {
	var out []string
	if day.Blackout {
		out = append(out, "blackout")
	}
	if day.NoCheckin {
		out = append(out, "no check-in")
	}
	if day.NoCheckout {
		out = append(out, "no check-out")
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ", ")
}
