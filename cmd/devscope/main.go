package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/devscope/pkg/collector"
	"github.com/umputun/devscope/pkg/config"
	"github.com/umputun/devscope/pkg/content"
	"github.com/umputun/devscope/pkg/delivery"
	"github.com/umputun/devscope/pkg/domain"
	"github.com/umputun/devscope/pkg/llm"
	"github.com/umputun/devscope/pkg/repository"
	"github.com/umputun/devscope/pkg/score"
	"github.com/umputun/devscope/pkg/synth"
	"github.com/umputun/devscope/server"
)

type options struct {
	Config string `short:"c" long:"config" env:"DEVSCOPE_CONFIG" default:"devscope.yml" description:"config file"`

	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`

	CollectCmd       collectCmd       `command:"collect" description:"fetch new items from all sources"`
	DigestCmd        digestCmd        `command:"digest" description:"generate daily opportunity scan"`
	WeeklyCmd        weeklyCmd        `command:"weekly" description:"generate weekly dev-tool synthesis"`
	ReportCmd        reportCmd        `command:"report" description:"generate deep opportunity report"`
	OpportunitiesCmd opportunitiesCmd `command:"opportunities" description:"extract structured opportunities as JSON"`
	AskCmd           askCmd           `command:"ask" description:"ask a question about recent signals"`
	RunCmd           runCmd           `command:"run" description:"collect then digest, for cron"`
	StatsCmd         statsCmd         `command:"stats" description:"show collection stats"`
	ServerCmd        serverCmd        `command:"server" description:"start read-only API server"`
}

var revision = "unknown"

var (
	opts    options
	mainCtx context.Context
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mainCtx = ctx

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if parser.Active == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}
}

// loadConfig reads the config file and configures logging with secrets masked
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", opts.Config, err)
	}
	secrets := []string{}
	for _, s := range []string{cfg.LLM.APIKey, cfg.Email.Pass, cfg.Collect.Github.Token} {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	setupLog(opts.Debug, secrets...)
	log.Printf("[INFO] devscope %s", revision)
	return cfg, nil
}

// synthStore adapts the split repositories to the synthesizer's store interface
type synthStore struct {
	repos *repository.Repositories
}

func (s synthStore) ItemsSince(ctx context.Context, since time.Time, minScore int) ([]domain.Item, error) {
	return s.repos.Item.ItemsSince(ctx, since, minScore)
}

func (s synthStore) SaveDigest(ctx context.Context, digest *domain.Digest) (int64, error) {
	return s.repos.Digest.SaveDigest(ctx, digest)
}

func (s synthStore) CreateRun(ctx context.Context, opps []domain.Opportunity, itemCount int, digestID *int64) (int64, error) {
	return s.repos.Opportunity.CreateRun(ctx, opps, itemCount, digestID)
}

// repoConfig maps the YAML database section to the repository config,
// converting the lifetime from seconds
func repoConfig(cfg *config.Config) repository.Config {
	return repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	}
}

func openRepos(ctx context.Context, cfg *config.Config) (*repository.Repositories, error) {
	repos, err := repository.NewRepositories(ctx, repoConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return repos, nil
}

func makeSynthesizer(ctx context.Context, cfg *config.Config, repos *repository.Repositories) (*synth.Synthesizer, error) {
	if err := cfg.Verify(true); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create llm provider: %w", err)
	}
	log.Printf("[INFO] using completion provider %s", provider.Name())
	store := synthStore{repos: repos}
	return synth.NewSynthesizer(provider, store, cfg.LLM.Timeout), nil
}

// collectItems runs all configured collectors, scores the merged output and
// stores everything at or above the threshold. Returns the stored count.
func collectItems(ctx context.Context, cfg *config.Config, repos *repository.Repositories) (int, error) {
	if err := cfg.VerifyCollect(); err != nil {
		return 0, fmt.Errorf("config: %w", err)
	}

	var collectors []collector.Collector

	if len(cfg.Collect.Github.Repos) > 0 {
		collectors = append(collectors,
			collector.NewGithub(cfg.Collect.Github.Repos, cfg.Collect.Github.Token, cfg.Collect.Github.MaxPerRepo, repos.State))
	}
	if len(cfg.Collect.Github.DiscussionRepos) > 0 {
		collectors = append(collectors,
			collector.NewDiscussions(cfg.Collect.Github.DiscussionRepos, cfg.Collect.Github.Token))
	}
	collectors = append(collectors, collector.NewHackerNews(
		cfg.Collect.HackerNews.MinScore, cfg.Collect.HackerNews.MaxItems,
		cfg.Collect.HackerNews.Keywords, cfg.Collect.HackerNews.SearchMinScore))
	if len(cfg.Collect.Feeds) > 0 {
		extractor := content.NewHTTPExtractor(cfg.Collect.RSS.Timeout)
		collectors = append(collectors, collector.NewRSS(cfg.Collect.Feeds, cfg.Collect.RSS.MinBodyLength,
			cfg.Collect.RSS.ExtractPages, cfg.Collect.RSS.Timeout, extractor, repos.State))
	}
	if len(cfg.Collect.NVD.Keywords) > 0 {
		collectors = append(collectors, collector.NewNVD(cfg.Collect.NVD.MinCVSS, cfg.Collect.NVD.MaxResults,
			cfg.Collect.NVD.Days, cfg.Collect.NVD.Keywords, repos.State))
	}

	runner := collector.NewRunner(cfg.Collect.Concurrency, collectors...)
	raw, err := runner.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("run collectors: %w", err)
	}

	scorer := score.NewScorer(score.DefaultPatternSet())
	filtered := scorer.Filter(raw, cfg.Scoring.Threshold)
	log.Printf("[INFO] collected %d raw items, %d passed threshold %d", len(raw), len(filtered), cfg.Scoring.Threshold)

	stored, err := repos.Item.InsertItems(ctx, filtered)
	if err != nil {
		return 0, fmt.Errorf("store items: %w", err)
	}
	fmt.Printf("Collected: %d raw -> %d stored\n", len(raw), stored)
	return stored, nil
}

type collectCmd struct{}

func (collectCmd) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repos, err := openRepos(mainCtx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close() //nolint:errcheck // shutdown path

	_, err = collectItems(mainCtx, cfg, repos)
	return err
}

type digestCmd struct{}

func (digestCmd) Execute(_ []string) error {
	return digestRun(mainCtx, (*synth.Synthesizer).DailyDigest)
}

type weeklyCmd struct{}

func (weeklyCmd) Execute(_ []string) error {
	return digestRun(mainCtx, (*synth.Synthesizer).WeeklySynthesis)
}

type reportCmd struct{}

func (reportCmd) Execute(_ []string) error {
	return digestRun(mainCtx, (*synth.Synthesizer).OpportunityReport)
}

type opportunitiesCmd struct {
	Out string `short:"o" long:"out" description:"write JSON to file instead of stdout"`
}

func (c opportunitiesCmd) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repos, err := openRepos(mainCtx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close() //nolint:errcheck // shutdown path

	synthesizer, err := makeSynthesizer(mainCtx, cfg, repos)
	if err != nil {
		return err
	}

	opportunities, runID, err := synthesizer.StructuredOpportunities(mainCtx)
	if err != nil {
		return fmt.Errorf("structured opportunity extraction: %w", err)
	}
	if len(opportunities) == 0 {
		fmt.Println("No qualifying opportunities found.")
		return nil
	}
	log.Printf("[INFO] extracted %d opportunities, run %d", len(opportunities), runID)

	data, err := json.MarshalIndent(opportunities, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal opportunities: %w", err)
	}

	if c.Out != "" {
		if err := os.MkdirAll(filepath.Dir(c.Out), 0o750); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := os.WriteFile(c.Out, data, 0o600); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		fmt.Printf("Wrote %d opportunities to %s\n", len(opportunities), c.Out)
		return nil
	}
	fmt.Println(string(data))
	return nil
}

type askCmd struct {
	Days int `long:"days" default:"7" description:"look-back window in days"`

	Args struct {
		Question []string `positional-arg-name:"question" required:"yes"`
	} `positional-args:"yes"`
}

func (c askCmd) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repos, err := openRepos(mainCtx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close() //nolint:errcheck // shutdown path

	synthesizer, err := makeSynthesizer(mainCtx, cfg, repos)
	if err != nil {
		return err
	}

	question := strings.Join(c.Args.Question, " ")
	result, err := synthesizer.Ask(mainCtx, question, c.Days)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}
	delivery.WriteQA(os.Stdout, result)
	return nil
}

type runCmd struct{}

func (runCmd) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repos, err := openRepos(mainCtx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close() //nolint:errcheck // shutdown path

	stored, err := collectItems(mainCtx, cfg, repos)
	if err != nil {
		return err
	}
	if stored == 0 {
		fmt.Println("Nothing new to digest.")
		return nil
	}

	synthesizer, err := makeSynthesizer(mainCtx, cfg, repos)
	if err != nil {
		return err
	}
	digest, err := synthesizer.DailyDigest(mainCtx)
	if err != nil {
		return fmt.Errorf("daily digest: %w", err)
	}
	deliverDigest(cfg, digest)
	return nil
}

type statsCmd struct{}

func (statsCmd) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repos, err := openRepos(mainCtx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close() //nolint:errcheck // shutdown path

	stats, err := repos.Item.Stats(mainCtx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	fmt.Printf("Total items: %d\n", stats.TotalItems)
	for source, count := range stats.BySource {
		fmt.Printf("  %s: %d\n", source, count)
	}
	return nil
}

type serverCmd struct {
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
}

func (c serverCmd) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repos, err := openRepos(mainCtx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close() //nolint:errcheck // shutdown path

	listen := cfg.Server.Listen
	if c.Listen != "" {
		listen = c.Listen
	}

	srv := server.New(server.Opts{
		Listen:  listen,
		Timeout: cfg.Server.Timeout,
		Version: revision,
		Debug:   opts.Debug,
	}, repos.Digest, repos.Opportunity, repos.Item)

	if err := srv.Run(mainCtx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	log.Print("[INFO] shutdown complete")
	return nil
}

// digestRun is the shared body of the digest, weekly and report commands
func digestRun(ctx context.Context, gen func(*synth.Synthesizer, context.Context) (*domain.Digest, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repos, err := openRepos(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close() //nolint:errcheck // shutdown path

	synthesizer, err := makeSynthesizer(ctx, cfg, repos)
	if err != nil {
		return err
	}

	digest, err := gen(synthesizer, ctx)
	if err != nil {
		return fmt.Errorf("generate digest: %w", err)
	}
	deliverDigest(cfg, digest)
	return nil
}

func deliverDigest(cfg *config.Config, digest *domain.Digest) {
	if digest == nil {
		fmt.Println("Nothing to report.")
		return
	}
	delivery.WriteDigest(os.Stdout, digest)
	sender := delivery.NewEmailSender(cfg.Email)
	if sender.Enabled() {
		if err := sender.SendDigest(digest); err != nil {
			log.Printf("[WARN] email delivery failed: %v", err)
		}
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
