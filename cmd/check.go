package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/logger"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/prefs"
)

var checkCmd = &cobra.Command{
	Use:   "check [filters]",
	Short: "Run one check cycle, or search current postings with direct filters",
	Long: `Without arguments run a single check cycle: fetch all sources, keep only
never-seen postings and notify every active user.

With arguments the arguments form a direct filter expression and the command
searches current postings without touching dedup state:

  jobhunt-buddy check category="backend, frontend" location="Remote"

Valid keys are category, location and company.`,
	Run: func(cmd *cobra.Command, args []string) {
		check(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Bool("dump", false, "print every current posting grouped by source instead of delivering")
}

func check(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	deps, err := buildDeps(ctx, config, logger)
	if err != nil {
		logger.Fatal("building dependencies", zap.Error(err))
	}
	defer deps.cleanup()

	filter, err := prefs.ParseFilters(strings.Join(args, " "))
	if err != nil {
		var parseErr *prefs.ParseError
		if errors.As(err, &parseErr) {
			// User mistake, not an internal failure.
			fmt.Println(parseErr.Error())
			return
		}
		logger.Fatal("parsing filters", zap.Error(err))
	}

	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		dumpPostings(ctx, deps, filter)
		return
	}

	if filter == nil {
		if err := deps.monitor.RunCheck(ctx); err != nil {
			logger.Fatal("running check", zap.Error(err))
		}
		return
	}

	filter.UserID = "cli"
	if err := deps.monitor.Search(ctx, filter); err != nil {
		logger.Fatal("searching postings", zap.Error(err))
	}
}

func dumpPostings(ctx context.Context, deps *deps, filter *prefs.PreferenceSet) {
	fetched, failures := deps.monitor.Dump(ctx, filter)

	for name, found := range fetched {
		fmt.Printf("%s (%d postings)\n", name, found.Len())
		for _, job := range found.Items {
			fmt.Printf("  %s | %s | %s\n", job.Title, job.Location, job.Link)
		}
	}
	for name, err := range failures {
		fmt.Printf("%s: fetch failed: %s\n", name, err)
	}
}
