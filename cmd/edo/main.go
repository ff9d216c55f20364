package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"edoparser/internal"
	"edoparser/internal/carriers"
	"edoparser/internal/config"
	"edoparser/internal/connectors"
	"edoparser/internal/listener"
	"edoparser/internal/logging"
	"edoparser/internal/pipeline"
	"edoparser/internal/reader"
	"edoparser/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	ctx := context.Background()

	cmd := os.Args[1]
	switch cmd {
	case "extract":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "document path (.pdf .txt .html .xlsx)")
		asJSON := fs.Bool("json", false, "print records as JSON")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		data, err := os.ReadFile(*input)
		must(err)
		text, err := reader.Text(*input, data)
		must(err)
		ext := pipeline.ProcessText(carriers.NewRegistry(), text)
		if *asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			must(enc.Encode(map[string]any{"strategy": ext.Strategy, "records": ext.Records}))
			return
		}
		fmt.Printf("strategy=%s records=%d\n", ext.Strategy, len(ext.Records))
		for _, r := range ext.Records {
			fmt.Println(strings.Join(r.Values(), "\t"))
		}
	case "strategies":
		reg := carriers.NewRegistry()
		for _, s := range reg.Strategies() {
			fmt.Printf("%-14s %s\n", s.Name(), strings.Join(s.Keywords(), ", "))
		}
		fmt.Printf("%-14s (fallback)\n", reg.Fallback().Name())
	case "drive:run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		source := fs.String("source", "", "gdrive://<id>, Drive folder URL or folder id")
		_ = fs.Parse(os.Args[2:])
		db := openDB(cfg)
		defer db.Close()
		svc, err := listener.FileProcessor(ctx, db, cfg, internal.SourceDrive, *source, log)
		must(err)
		printRun(svc.Run(ctx))
	case "local:run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", cfg.LocalInputDir, "input directory")
		output := fs.String("output", cfg.LocalOutputDir, "output directory")
		fail := fs.String("fail", cfg.LocalFailDir, "fail directory")
		_ = fs.Parse(os.Args[2:])
		cfg.LocalOutputDir, cfg.LocalFailDir = *output, *fail
		db := openDB(cfg)
		defer db.Close()
		svc, err := listener.FileProcessor(ctx, db, cfg, internal.SourceLocal, *input, log)
		must(err)
		printRun(svc.Run(ctx))
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.MailProvider, "gmail|imap")
		label := fs.String("label", cfg.MailLabel, "mailbox/label")
		max := fs.Int("max", cfg.MailFetchMax, "max messages")
		_ = fs.Parse(os.Args[2:])
		db := openDB(cfg)
		defer db.Close()
		conn, err := listener.MailConnector(ctx, cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn, log)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d duplicates=%d\n", *provider, result.Fetched, result.Stored, result.Duplicates)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		batch := fs.Int("batch", cfg.MailProcessBatch, "batch size")
		_ = fs.Parse(os.Args[2:])
		db := openDB(cfg)
		defer db.Close()
		table, err := listener.TabularStore(ctx, cfg)
		must(err)
		res, err := pipeline.NewMailIngest(db, carriers.NewRegistry(), table, log).ProcessPending(ctx, *batch)
		must(err)
		fmt.Printf("processed emails=%d processed=%d skipped=%d failed=%d records=%d\n", res.Emails, res.Processed, res.Skipped, res.Failed, res.Records)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		since := fs.String("since", "", "only records created at or after this time (YYYY-MM-DD)")
		strategy := fs.String("strategy", "", "only records of one strategy")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		db := openDB(cfg)
		defer db.Close()
		rows, err := db.ListRecords(storage.RecordFilter{Since: *since, Strategy: *strategy})
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no records to export"))
		}
		must(pipeline.ExportRecordsToXLSX(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "listen":
		db := openDB(cfg)
		defer db.Close()
		must(listener.NewService(db, cfg, log).Run(ctx))
	default:
		usage()
		os.Exit(1)
	}
}

func openDB(cfg config.Config) *storage.DB {
	db, err := storage.Open(cfg.DBPath)
	must(err)
	return db
}

func printRun(res pipeline.RunResult, err error) {
	for _, f := range res.Files {
		line := fmt.Sprintf("%-8s %s", f.Status, f.File.Name)
		if f.Target != "" {
			line += " -> " + f.Target
		}
		if f.Err != nil && !pipeline.IsSkip(f.Err) {
			line += " (" + f.Err.Error() + ")"
		}
		fmt.Println(line)
	}
	fmt.Printf("run %s done moved=%d skipped=%d failed=%d\n", res.RunID, res.Moved, res.Skipped, res.Failed)
	must(err)
}

func usage() {
	fmt.Println("usage: edo <command>")
	fmt.Println("commands:")
	fmt.Println("  extract --input=edo.pdf [--json]")
	fmt.Println("  strategies")
	fmt.Println("  drive:run [--source=gdrive://<folder>]")
	fmt.Println("  local:run [--input=./input] [--output=./output] [--fail=./fail]")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=20")
	fmt.Println("  mail:process [--batch=20]")
	fmt.Println("  export:xlsx --out=./out/records.xlsx [--since=2026-01-01] [--strategy=ANL]")
	fmt.Println("  listen")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

