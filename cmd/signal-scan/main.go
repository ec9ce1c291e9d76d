// Command signal-scan runs signal extraction for a batch of domains from a
// file or from command-line arguments, one domain at a time.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"risclens_backend/internal/audit"
	"risclens_backend/internal/events"
	"risclens_backend/internal/intel"
	"risclens_backend/platform/config"
	"risclens_backend/platform/db"
	"risclens_backend/platform/logger"
	"risclens_backend/platform/validator"
)

func main() {
	domainsFile := flag.String("file", "", "path to a file with one domain per line")
	flag.Parse()

	domains, err := collectDomains(*domainsFile, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(domains) == 0 {
		fmt.Fprintln(os.Stderr, "usage: signal-scan [-file domains.txt] [domain ...]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting signal scan", "domains", len(domains))

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	auditor := audit.NewLogger(cfg, audit.NewRepository(pool), log)

	module := intel.NewModule(pool, eventBus, val, cfg, nil, nil, auditor, log)
	svc := module.Service()

	indexable := 0
	for _, d := range domains {
		result := svc.Extract(ctx, d)
		if result.Indexable {
			indexable++
		}
		fmt.Printf("%-40s score=%-3d indexable=%-5v method=%s\n",
			result.Domain, result.FinalScore, result.Indexable, result.ScrapeMethod)
	}

	log.Info("signal scan complete", "domains", len(domains), "indexable", indexable)
}

func collectDomains(file string, args []string) ([]string, error) {
	var domains []string
	seen := make(map[string]struct{})

	add := func(d string) {
		d = strings.TrimSpace(d)
		if d == "" || strings.HasPrefix(d, "#") {
			return
		}
		if _, dup := seen[d]; dup {
			return
		}
		seen[d] = struct{}{}
		domains = append(domains, d)
	}

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open domains file: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			add(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read domains file: %w", err)
		}
	}

	for _, arg := range args {
		add(arg)
	}
	return domains, nil
}
