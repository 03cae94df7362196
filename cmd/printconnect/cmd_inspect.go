package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Raymond9734/print-connect-backend/internal/app"
	"github.com/Raymond9734/print-connect-backend/internal/config"
	"github.com/Raymond9734/print-connect-backend/internal/models"
	"github.com/Raymond9734/print-connect-backend/internal/service"
)

// printconnect providers
func newProvidersCmd() *cobra.Command {
	var (
		filter models.ProviderFilter
		mat    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List providers from the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			backend, err := app.OpenBackend(cmd.Context(), cfg, newLogger())
			if err != nil {
				return err
			}
			defer backend.Close()

			// No artificial latency for an operator
			api := service.NewMockAPI(backend.Repos.Providers, backend.Repos.Orders, service.APIOptions{}, newLogger())
			catalog := service.NewCatalogService(api, backend.Repos.Providers, newLogger())

			filter.Material = models.Material(mat)
			providers, err := catalog.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), providers)
			}
			return writeProviders(cmd.OutOrStdout(), providers)
		},
	}

	cmd.Flags().StringVar(&mat, "material", "", "only providers printing with this material")
	cmd.Flags().BoolVar(&filter.BusinessOnly, "business", false, "only business accounts")
	cmd.Flags().Float64Var(&filter.MaxDistance, "max-distance", 0, "maximum distance in km")
	cmd.Flags().Float64Var(&filter.MinRating, "min-rating", 0, "minimum rating")
	cmd.Flags().StringVar(&filter.SortBy, "sort", models.ProviderSortDistance, "sort by distance, rating or name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

// printconnect users
func newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the users that may be sent as X-User-ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			backend, err := app.OpenBackend(cmd.Context(), cfg, newLogger())
			if err != nil {
				return err
			}
			defer backend.Close()

			users, err := service.NewUserService(backend.Repos.Users).List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPROVIDER")
			for _, u := range users {
				provider := "-"
				if u.ProviderID != nil {
					provider = fmt.Sprint(*u.ProviderID)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Type, provider)
			}
			return tw.Flush()
		},
	}
}

func writeProviders(w io.Writer, providers []*models.Provider) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDISTANCE\tRATING\tBUSINESS\tMATERIALS\tORDERS")
	for _, p := range providers {
		materials := make([]string, 0, len(p.Materials))
		for _, m := range p.Materials {
			materials = append(materials, string(m))
		}
		fmt.Fprintf(tw, "%d\t%s\t%.1f km\t%.1f\t%t\t%s\t%d\n",
			p.ID, p.Name, p.Distance, p.Rating, p.IsBusiness, strings.Join(materials, ","), len(p.Orders))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
