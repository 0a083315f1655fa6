package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/crypto/bcrypt"

	"folio"
	"folio/catalog"
	"folio/seo"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		serve()
	case "check":
		path := ""
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		if err := check(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sitemap":
		if err := printSitemap(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "hash-password":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: folio hash-password <password>")
			os.Exit(1)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[2]), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(hash))
	case "version":
		fmt.Printf("folio %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func serve() {
	cfg, err := folio.LoadConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := folio.New(cfg)
	if err := app.Start(ctx); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
	log.Println("server stopped")
}

// check validates a catalog file, or the embedded catalog when path is empty.
func check(path string) error {
	cat := catalog.Default()
	if path != "" {
		var err error
		if cat, err = catalog.LoadFile(path); err != nil {
			return err
		}
	} else {
		path = "embedded catalog"
	}
	fmt.Printf("%s: %d projects OK\n", path, cat.Len())
	for _, p := range cat.All() {
		fmt.Printf("  %s\n", p.Path())
	}
	return nil
}

func printSitemap() error {
	cfg, err := folio.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	return writeSitemap(os.Stdout, cfg)
}

// writeSitemap validates cfg like serve does, then writes the sitemap for
// the configured catalog.
func writeSitemap(w io.Writer, cfg folio.SiteConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		var err error
		if cat, err = catalog.LoadFile(cfg.CatalogPath); err != nil {
			return err
		}
	}
	return seo.WriteSitemap(w, seo.BuildSitemapFeed(seo.NormalizeBaseURL(cfg.URL), cat.All()))
}

func printUsage() {
	fmt.Println(`folio - an engineering portfolio server built with Go, Echo, and templ

Usage:
  folio <command> [arguments]

Commands:
  serve           Start the web server (configured through environment variables)
  check [path]    Validate a catalog YAML file (default: the embedded catalog)
  sitemap         Print sitemap.xml for SITE_URL and the configured catalog
  hash-password   Print a bcrypt hash for ADMIN_PASSWORD_HASH
  version         Print the folio version
  help            Show this help message

Environment:
  SITE_URL, SITE_NAME, SITE_AUTHOR, SITE_TAGLINE, SITE_DESCRIPTION, SITE_EMAIL,
  SITE_GITHUB_URL, SITE_LINKEDIN_URL, SITE_CV_PATH, ADDR, CATALOG_PATH,
  ANALYTICS_ENABLED, ANALYTICS_DATABASE_PATH, ANALYTICS_RETENTION_DAYS,
  ADMIN_PASSWORD, ADMIN_PASSWORD_HASH, ADMIN_SESSION_SECRET, COOKIE_SECURE, SHUTDOWN_TIMEOUT`)
}
