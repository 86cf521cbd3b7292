package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/awsweep/awsweep/internal/version"
	"github.com/awsweep/awsweep/pkg/audit"
	"github.com/awsweep/awsweep/pkg/aws"
	"github.com/awsweep/awsweep/pkg/formatter"
	"github.com/awsweep/awsweep/pkg/pricing"
	"github.com/awsweep/awsweep/pkg/report"
	"github.com/awsweep/awsweep/pkg/utils"
	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	regions     []string
	outputDir   string
	profile     string
	cfgFile     string
	noSummary   bool
	showVersion bool
)

// startAuditSpinner creates and starts a spinner shown while the audit runs
func startAuditSpinner() *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond)
	s.Suffix = " Auditing AWS resources ..."
	// FinalMSG is set later from the audit result
	s.Start()
	return s
}

// newLogger builds the process logger. Logs go to stderr so the tables
// and the spinner own stdout.
func newLogger() log15.Logger {
	logger := log15.New()
	logger.SetHandler(log15.LvlFilterHandler(log15.LvlInfo, log15.StreamHandler(os.Stderr, log15.LogfmtFormat())))
	return logger
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "awsweep",
		Short: "CLI tool to audit AWS cost-relevant resource usage",
		Long: `awsweep walks a set of AWS regions and writes CSV reports on
EC2 instance CPU usage, EBS volume activity, snapshots of unused
volumes and unattached Elastic IPs.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Printf("awsweep version %s\n", version.Get())
				return nil
			}
			return run(cmd.Context())
		},
	}

	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringSliceVarP(&regions, "regions", "r", nil,
		fmt.Sprintf("AWS regions to audit (comma separated, default: all %d audited regions)", len(utils.DefaultAuditRegions)))
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory where the CSV reports are written")
	rootCmd.Flags().StringVar(&profile, "profile", "", "AWS shared config profile to use")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Config file (default: ./awsweep.yaml)")
	rootCmd.Flags().BoolVar(&noSummary, "no-summary", false, "Skip the savings summary tables")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	viper.BindPFlag("regions", rootCmd.Flags().Lookup("regions"))
	viper.BindPFlag("output_dir", rootCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("aws.profile", rootCmd.Flags().Lookup("profile"))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// initConfig reads in the optional config file and environment variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("awsweep")
	}

	viper.SetEnvPrefix("AWSWEEP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func run(ctx context.Context) error {
	logger := newLogger()
	pricing.Log.SetHandler(logger.GetHandler())

	auditRegions, err := resolveRegions(logger)
	if err != nil {
		return err
	}

	outDir := viper.GetString("output_dir")
	awsProfile := viper.GetString("aws.profile")

	auditStart := time.Now()
	window := aws.NewMetricWindow(auditStart)
	logger.Info("metric window",
		"start", utils.FormatTimestamp(window.Start),
		"end", utils.FormatTimestamp(window.End),
		"period_seconds", window.Period,
	)

	logCallerIdentity(ctx, logger, auditRegions[0], awsProfile)

	reports, err := report.OpenSet(outDir)
	if err != nil {
		return fmt.Errorf("error opening report files: %w", err)
	}
	defer reports.Close()

	runner := &audit.Runner{
		Regions: auditRegions,
		Profile: awsProfile,
		Window:  window,
		Reports: reports,
		Log:     logger,
	}

	s := startAuditSpinner()
	result, runErr := runner.Run(ctx)

	totalRows := reports.CPUMetrics.Rows() + reports.VolumeMetrics.Rows() + reports.Snapshots.Rows() + reports.EIPs.Rows()
	s.FinalMSG = fmt.Sprintf("✓ [%s rows across %d reports] Audit completed in %.2f seconds\n",
		humanize.Comma(int64(totalRows)), report.FileCount, result.Duration.Seconds())
	s.Stop()

	for _, sink := range []*report.CSVSink{reports.CPUMetrics, reports.VolumeMetrics, reports.Snapshots, reports.EIPs} {
		logger.Info("report written", "file", sink.Path(), "rows", sink.Rows())
	}

	if !noSummary {
		printSummary(result, auditStart)
	}

	if runErr != nil {
		logger.Error("audit finished with errors", "failed_regions", strings.Join(result.FailedRegions, ","))
		return runErr
	}

	logger.Info("audit finished", "regions", len(auditRegions), "took", result.Duration)
	return nil
}

// resolveRegions merges the flag, config file and built-in default region
// list, then drops anything that is not a known region.
func resolveRegions(logger log15.Logger) ([]string, error) {
	configured := viper.GetStringSlice("regions")

	// Environment values arrive as a single comma separated string
	var merged []string
	for _, entry := range configured {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				merged = append(merged, part)
			}
		}
	}

	if len(merged) == 0 {
		merged = utils.DefaultAuditRegions
	}

	valid, invalid := utils.ValidRegions(merged)
	for _, region := range invalid {
		logger.Warn("skipping invalid region", "region", region)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid regions specified")
	}

	return valid, nil
}

// logCallerIdentity logs which account the audit runs against. Failures
// are not fatal, the audit itself will surface credential problems.
func logCallerIdentity(ctx context.Context, logger log15.Logger, region, profile string) {
	cfg, err := aws.NewConfig(ctx, region, profile)
	if err != nil {
		logger.Warn("cannot load AWS config for identity check", "err", err)
		return
	}

	accountID, err := aws.GetAccountID(ctx, sts.NewFromConfig(cfg))
	if err != nil {
		logger.Warn("cannot resolve caller identity", "err", err)
		return
	}

	logger.Info("audit starting", "account", accountID)
}

// printSummary prices the reclaimable resources and renders the summary
// tables on stdout.
func printSummary(result *audit.Result, auditStart time.Time) {
	pricing.Init()
	if msg := pricing.GetInitMessage(); msg != "" {
		fmt.Println(msg)
	}

	for i := range result.UnusedVolumes {
		volume := &result.UnusedVolumes[i]
		volume.EstimatedMonthlyCost, volume.PricingSource = pricing.CalculateEBSMonthlyCostWithSource(
			volume.VolumeType, volume.Size, volume.Region)
	}

	fmt.Println("\n## Unused EBS Volumes")
	formatter.PrintUnusedVolumesTable(os.Stdout, result.UnusedVolumes, auditStart, result.Duration)

	fmt.Println("\n## Unattached Elastic IPs")
	formatter.PrintEIPsTable(os.Stdout, result.UnattachedEIPs)

	fmt.Println("\n## Estimated Monthly Savings")
	formatter.PrintSavingsSummary(os.Stdout, result.UnusedVolumes, result.UnattachedEIPs)

	formatter.PrintPricingAPIStats(os.Stdout)
}
