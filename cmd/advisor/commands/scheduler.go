package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quantfolio/advisor/internal/scheduler"
	"github.com/quantfolio/advisor/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the job scheduler",
	Long: `Starts the scheduler daemon or manages registered jobs.

Registered jobs:
- daily_signals: weekdays 22:30 UTC (collect prices, refresh the
  risk-free rate, score the universe and persist the signals)

Subcommands:
  start   - start the scheduler daemon
  list    - list registered jobs
  run     - run one job immediately
  status  - show job execution history

Example:
  go run ./cmd/advisor scheduler start
  go run ./cmd/advisor scheduler run daily_signals`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution history",
		RunE:  showStatus,
	}
)

var schedulerHistoryDays int

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)

	schedulerCmd.PersistentFlags().IntVar(&schedulerHistoryDays, "days", 500, "history depth for collection jobs")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Advisor Scheduler ===")

	sched, app, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer app.Close()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.Jobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, app, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer app.Close()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.Jobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, app, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer app.Close()

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Println("Job started (running in background)")
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	sched, app, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer app.Close()

	fmt.Println("Job history:")
	fmt.Println()

	for _, jobName := range sched.Jobs() {
		history, err := sched.GetJobHistory(jobName)
		if err != nil {
			continue
		}

		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Success Rate: %.1f%%\n", history.SuccessRate()*100)

		if latest, ok := history.Latest(); ok {
			outcome := "success"
			if !latest.Success {
				outcome = "failed: " + latest.Error
			}
			fmt.Printf("   Last Run: %s (%s)\n", latest.StartTime.Format("2006-01-02 15:04:05"), outcome)
		}

		fmt.Println()
	}

	return nil
}

func initScheduler() (*scheduler.Scheduler, *app, error) {
	a, err := newApp()
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(a.log)

	job := jobs.NewDailySignalsJob(a.collector, a.engine, a.recommendations, a.strategy.Symbols(), schedulerHistoryDays, a.log)
	if err := sched.AddJob(job); err != nil {
		a.Close()
		return nil, nil, err
	}

	return sched, a, nil
}
