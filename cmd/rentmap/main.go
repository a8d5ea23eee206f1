package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rentmap/rentmap/internal/config"
	"github.com/rentmap/rentmap/internal/listing"
	"github.com/rentmap/rentmap/internal/server"
)

// Options defines all CLI flags and env vars for the viewer server.
// Flags: --host, --port, --data-dir, --web-dir, --debug, --log-file
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_WEB_DIR,
// SERVICE_DEBUG, SERVICE_LOG_FILE
type Options struct {
	Host    string `doc:"Host to bind to" default:"0.0.0.0"`
	Port    int    `doc:"Port to listen on" short:"p" default:"8094"`
	DataDir string `doc:"Directory holding listings.json and overlay files" default:"data"`
	WebDir  string `doc:"Path to web/ directory" default:"web"`
	Debug   bool   `doc:"Enable debug logging" default:"false"`
	LogFile string `doc:"Optional rotating log file path" default:""`
}

func newServer(opts *Options) *server.Server {
	return server.New(server.Config{
		Host:    opts.Host,
		Port:    fmt.Sprintf("%d", opts.Port),
		DataDir: opts.DataDir,
		WebDir:  opts.WebDir,
		Debug:   opts.Debug,
		LogFile: opts.LogFile,
	})
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		srv := newServer(opts)

		hooks.OnStart(func() {
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("rentmap viewer starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Data:    %s\n", opts.DataDir)
			fmt.Println()
			fmt.Printf("  Viewer:  %s/viewer\n", baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		})
		hooks.OnStop(func() {
			srv.Close()
		})
	})

	cli.Root().Use = "rentmap"
	cli.Root().Short = "Map viewer for geotagged rental listings"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := newServer(opts)
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// export subcommand: regenerate CSV and GeoJSON outputs from listings.json
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export listings as CSV and GeoJSON",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			outDir, _ := cmd.Flags().GetString("output")
			if err := runExport(opts.DataDir, outDir); err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
				os.Exit(1)
			}
		}),
	}
	exportCmd.Flags().StringP("output", "o", "data/output", "Output directory for exports")
	cli.Root().AddCommand(exportCmd)

	cli.Run()
}

func runExport(dataDir, outDir string) error {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}

	svc := listing.NewService(dataDir, cfg.Reference)
	if err := svc.Load(); err != nil {
		return err
	}
	listings := svc.All()

	csvPath := filepath.Join(outDir, "listings.csv")
	if err := listing.ExportCSV(listings, csvPath); err != nil {
		return err
	}
	fmt.Printf("CSV saved to %s\n", csvPath)

	geoPath := filepath.Join(outDir, "listings.geojson")
	if err := listing.ExportGeoJSON(listings, geoPath); err != nil {
		return err
	}
	fmt.Printf("GeoJSON saved to %s (%d features)\n", geoPath, len(listings))

	shortlisted, err := svc.ShortlistListings()
	if err != nil {
		return err
	}
	if len(shortlisted) > 0 {
		csvPath := filepath.Join(outDir, "shortlist.csv")
		jsonPath := filepath.Join(outDir, "shortlist.json")
		if err := listing.ExportShortlist(shortlisted, csvPath, jsonPath); err != nil {
			return err
		}
		fmt.Printf("Shortlist saved to %s and %s (%d rows)\n", csvPath, jsonPath, len(shortlisted))
	}
	return nil
}
