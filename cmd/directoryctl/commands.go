package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/wolfman30/dental-directory/internal/app/bootstrap"
	"github.com/wolfman30/dental-directory/internal/appointments"
	"github.com/wolfman30/dental-directory/internal/booking"
	appconfig "github.com/wolfman30/dental-directory/internal/config"
	"github.com/wolfman30/dental-directory/internal/directory"
	"github.com/wolfman30/dental-directory/pkg/logging"
)

func loadCatalog(cmd *cobra.Command, cfg *appconfig.Config, logger *logging.Logger) (*directory.Catalog, error) {
	local := *cfg
	local.DirectoryCatalogPath, _ = cmd.Flags().GetString("catalog")

	redisClient := bootstrap.BuildRedisClient(cmd.Context(), &local, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	return bootstrap.BuildCatalog(cmd.Context(), &local, redisClient, logger)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func facetsCmd(cfg *appconfig.Config, logger *logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "Print the specialty, location and service options",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(cmd, cfg, logger)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), catalog.Facets())
		},
	}
}

type searchResult struct {
	Query    string               `json:"query"`
	Filters  directory.Filters    `json:"filters"`
	Total    int                  `json:"total"`
	Dentists []directory.Provider `json:"dentists"`
}

func filtersFromFlags(cmd *cobra.Command) directory.Filters {
	var f directory.Filters
	for _, facet := range []directory.Facet{directory.FacetSpecialty, directory.FacetLocation, directory.FacetService} {
		values, _ := cmd.Flags().GetStringSlice(string(facet))
		for _, v := range values {
			if !f.Selected(facet, v) {
				f.Toggle(facet, v)
			}
		}
	}
	return f
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice(string(directory.FacetSpecialty), nil, "Specialty filter (repeatable)")
	cmd.Flags().StringSlice(string(directory.FacetLocation), nil, "Clinic city filter (repeatable)")
	cmd.Flags().StringSlice(string(directory.FacetService), nil, "Service filter (repeatable)")
}

func searchCmd(cfg *appconfig.Config, logger *logging.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search dentists by name, specialty or service",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(cmd, cfg, logger)
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			filters := filtersFromFlags(cmd)
			found := catalog.Search(cmd.Context(), query, filters)
			return printJSON(cmd.OutOrStdout(), searchResult{Query: query, Filters: filters, Total: len(found), Dentists: found})
		},
	}
	addFilterFlags(cmd)
	return cmd
}

type browseLine struct {
	Query string   `json:"query"`
	Total int      `json:"total"`
	IDs   []string `json:"ids"`
}

func browseCmd(cfg *appconfig.Config, logger *logging.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Read query edits from stdin and print debounced result sets",
		Long: "Each input line is the search box content after a keystroke. An empty line clears the query. " +
			"Result sets are printed only after typing pauses for the debounce window.",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(cmd, cfg, logger)
			if err != nil {
				return err
			}
			window, _ := cmd.Flags().GetDuration("debounce")

			var mu sync.Mutex
			out := cmd.OutOrStdout()
			browser := directory.NewBrowser(catalog.List(), func(rs directory.ResultSet) {
				ids := make([]string, 0, len(rs.Providers))
				for _, p := range rs.Providers {
					ids = append(ids, p.ID)
				}
				mu.Lock()
				defer mu.Unlock()
				_ = json.NewEncoder(out).Encode(browseLine{Query: rs.Query, Total: len(ids), IDs: ids})
			}, directory.WithDebounceWindow(window))
			defer browser.Close()

			for _, v := range filtersFlagValues(cmd) {
				browser.ToggleFilter(v.facet, v.value)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := scanner.Text()
				if strings.TrimSpace(line) == "" {
					browser.ClearQuery()
					continue
				}
				browser.Type(line)
			}
			browser.Flush()
			return scanner.Err()
		},
	}
	cmd.Flags().Duration("debounce", cfg.SearchDebounceWindow, "Quiet period before a query is applied")
	addFilterFlags(cmd)
	return cmd
}

type facetValue struct {
	facet directory.Facet
	value string
}

func filtersFlagValues(cmd *cobra.Command) []facetValue {
	f := filtersFromFlags(cmd)
	var out []facetValue
	for _, v := range f.Specialties {
		out = append(out, facetValue{directory.FacetSpecialty, v})
	}
	for _, v := range f.Locations {
		out = append(out, facetValue{directory.FacetLocation, v})
	}
	for _, v := range f.Services {
		out = append(out, facetValue{directory.FacetService, v})
	}
	return out
}

func publishCmd(cfg *appconfig.Config, logger *logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "publish FILE",
		Short: "Validate a catalog file and publish it to Redis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			providers, err := directory.LoadFile(args[0])
			if err != nil {
				return err
			}
			redisClient := bootstrap.BuildRedisClient(cmd.Context(), cfg, logger, true)
			if redisClient == nil {
				return errors.New("publish: REDIS_ADDR is not set or Redis is unreachable")
			}
			defer redisClient.Close()

			if err := directory.NewRedisSource(redisClient).Publish(cmd.Context(), providers); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %d dentists to %s\n", len(providers), directory.RedisCatalogKey)
			return nil
		},
	}
}

func checkRequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-request [FILE]",
		Short: "Validate an appointment request body the way the API does",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if len(args) == 0 || args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("check-request: read: %w", err)
			}

			res := appointments.NewValidator().Validate(raw)
			if err := printJSON(cmd.OutOrStdout(), res.Body); err != nil {
				return err
			}
			if !res.Body.Success {
				return fmt.Errorf("check-request: rejected with status %d", res.Status)
			}
			return nil
		},
	}
}

func bookCmd(cfg *appconfig.Config, logger *logging.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book DENTIST",
		Short: "Walk the booking wizard and submit an appointment request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(cmd, cfg, logger)
			if err != nil {
				return err
			}
			provider, err := catalog.Get(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			str := func(name string) string {
				v, _ := flags.GetString(name)
				return v
			}
			consent, _ := flags.GetBool("consent")
			apiURL := str("api")

			wizard := booking.NewWizard(
				booking.NewHTTPSubmitter(apiURL, nil),
				booking.WithValidator(booking.NewValidator(booking.WithLocation(cfg.Location()))),
				booking.WithLogger(logger),
			)
			if err := wizard.Open(provider, str("clinic")); err != nil {
				return err
			}

			steps := []booking.StepPayload{
				booking.PatientTypeDetails{PatientType: str("patient-type")},
				booking.AppointmentDetails{
					ConsultationType: str("consultation"),
					PreferredDate:    str("date"),
					PreferredTime:    str("time"),
					Reason:           str("reason"),
				},
			}
			for _, step := range steps {
				if err := wizard.Update(step); err != nil {
					return err
				}
				if err := wizard.Next(); err != nil {
					return err
				}
			}
			contact := booking.ContactDetails{
				FirstName: str("first-name"),
				LastName:  str("last-name"),
				Phone:     str("phone"),
				Email:     str("email"),
				Consent:   consent,
			}
			if err := wizard.Update(contact); err != nil {
				return err
			}
			if err := wizard.Submit(cmd.Context()); err != nil {
				return err
			}

			outcome := wizard.Outcome()
			if err := printJSON(cmd.OutOrStdout(), outcome); err != nil {
				return err
			}
			if wizard.State() != booking.StateSuccess {
				return fmt.Errorf("book: %s", outcome.Message)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.String("api", cfg.BookingAPIBaseURL, "Appointment API base URL")
	f.String("clinic", "", "Clinic id; defaults to the dentist's first clinic")
	f.String("patient-type", "new", "new or existing")
	f.String("consultation", "", "Consultation type")
	f.String("date", "", "Preferred date (YYYY-MM-DD)")
	f.String("time", "", "Preferred time (HH:MM)")
	f.String("reason", "", "Reason for visit")
	f.String("first-name", "", "Patient first name")
	f.String("last-name", "", "Patient last name")
	f.String("phone", "", "Mobile number, e.g. +63 917 123 4567")
	f.String("email", "", "Email address")
	f.Bool("consent", false, "Agree to be contacted about this request")
	return cmd
}
