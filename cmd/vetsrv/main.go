package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	typevet "github.com/typevet/typevet-go"
	"github.com/typevet/typevet-go/httpvet"
	"github.com/typevet/typevet-go/schemafile"
)

var (
	version = "dev"
)

func main() {
	var (
		addr       string
		schemaPath string
		warnOnly   bool
		normalize  bool
	)

	rootCmd := &cobra.Command{
		Use:     "vetsrv",
		Short:   "Validation demo server",
		Long:    "vetsrv serves one validating endpoint per schema declared in a schema file.\nRequest bodies that fail validation receive a 400 response with the failure message.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			schemas, err := schemafile.Load(schemaPath)
			if err != nil {
				return fmt.Errorf("failed to load schemas: %w", err)
			}

			engine := typevet.New(
				typevet.WithWarnOnly(warnOnly),
				typevet.WithLogger(logger),
			)

			r := chi.NewRouter()
			r.Use(chimiddleware.RequestID)
			r.Use(chimiddleware.Recoverer)

			for name, schema := range schemas {
				opts := []httpvet.Option{httpvet.WithLogger(logger)}
				if normalize {
					opts = append(opts, httpvet.WithNormalize(true))
				}
				route := "/validate/" + name
				r.With(httpvet.RequireBody(engine, schema, opts...)).Post(route, accepted)
				logger.Info("registered endpoint", "route", route, "schema", name, "fields", len(schema.Fields))
			}

			logger.Info("starting server", "addr", addr, "warnOnly", warnOnly)
			return http.ListenAndServe(addr, r)
		},
	}

	rootCmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	rootCmd.Flags().StringVarP(&schemaPath, "schemas", "s", "schemas.yaml", "path to the schema file")
	rootCmd.Flags().BoolVarP(&warnOnly, "warn-only", "w", false, "log validation failures instead of rejecting requests")
	rootCmd.Flags().BoolVarP(&normalize, "normalize", "n", false, "fill schema defaults into request bodies before validation")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func accepted(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"valid": true})
}
