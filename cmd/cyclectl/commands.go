package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/cycletrack/internal/client"
	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/domain/schedule"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool
	timeout    time.Duration

	activityLimit int
)

var rootCmd = &cobra.Command{
	Use:          "cyclectl",
	Short:        "Track a nine-week dosage cycle from the terminal",
	SilenceUsage: true,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the weekly dosage table",
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show completed days and remaining supply",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var checkCmd = &cobra.Command{
	Use:   "check DAY",
	Short: "Mark a day complete",
	Long:  "Mark a day complete. The first check of a cycle with no start date starts it today.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var uncheckCmd = &cobra.Command{
	Use:   "uncheck DAY",
	Short: "Mark a day incomplete",
	Long:  "Mark a day incomplete. Unchecking day 1 clears the start date.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUncheck,
}

var capsCmd = &cobra.Command{
	Use:   "caps DAY COMPOUND COUNT",
	Short: "Record capsules taken for a compound (osta, rad, card)",
	Args:  cobra.ExactArgs(3),
	RunE:  runCaps,
}

var startDateCmd = &cobra.Command{
	Use:   "start-date YYYY-MM-DD|clear",
	Short: "Set or clear the date of day 1",
	Args:  cobra.ExactArgs(1),
	RunE:  runStartDate,
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "List recent changes",
	Args:  cobra.NoArgs,
	RunE:  runActivity,
}

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write the stored progress record as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE|-",
	Short: "Replace the stored progress record from a JSON file",
	Long:  "Replace the stored progress record. Entries outside the cycle are dropped and bad counters fall back to the schedule.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("CYCLE_URL", "http://localhost:8080"), "server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("CYCLE_AUTH_TOKEN"), "bearer token")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 20, "maximum entries")

	rootCmd.AddCommand(scheduleCmd, showCmd, checkCmd, uncheckCmd, capsCmd, startDateCmd, activityCmd, exportCmd, importCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient() *client.Client {
	return client.New(serverURL, authToken)
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func parseDay(arg string) (int, error) {
	day, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("day must be a number: %q", arg)
	}
	return day, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx, cancel := requestContext(cmd)
	defer cancel()

	table, err := newClient().Schedule(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, table)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WEEK\tDAYS\tPHASE\tOSTA\tRAD\tCARD\tSELANK\tNAC")
	for _, row := range table.Weeks {
		fmt.Fprintf(tw, "%d\t%d-%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Number, row.StartDay, row.EndDay, row.Phase,
			row.Labels[schedule.Osta], row.Labels[schedule.Rad], row.Labels[schedule.Card],
			row.Selank.Label(), row.NAC.Label())
	}
	return tw.Flush()
}

func runShow(cmd *cobra.Command, _ []string) error {
	ctx, cancel := requestContext(cmd)
	defer cancel()

	v, err := newClient().View(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, v)
	}

	start := v.StartDate
	if start == "" {
		start = "not started"
	}
	fmt.Fprintf(out, "Start date: %s\n", start)
	fmt.Fprintf(out, "Completed:  %d/%d days\n", v.Completed, v.TotalDays)
	for _, s := range v.Supply {
		fmt.Fprintf(out, "%-10s %d of %d remaining\n", s.Name, s.Remaining, s.Supply)
	}
	for _, w := range v.Weeks {
		var marks strings.Builder
		for _, d := range w.Days {
			if d.Checked {
				marks.WriteString("x")
			} else {
				marks.WriteString(".")
			}
		}
		fmt.Fprintf(out, "Week %d  %-16s %s\n", w.Number, w.Phase, marks.String())
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	return toggle(cmd, args[0], true)
}

func runUncheck(cmd *cobra.Command, args []string) error {
	return toggle(cmd, args[0], false)
}

func toggle(cmd *cobra.Command, arg string, checked bool) error {
	day, err := parseDay(arg)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	p, err := newClient().ToggleDay(ctx, day, checked)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), p)
	}
	state := "incomplete"
	if checked {
		state = "complete"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Day %d marked %s (%d days done)\n", day, state, p.CompletedDays())
	if p.StartDate != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Cycle started %s\n", p.StartDate)
	}
	return nil
}

func runCaps(cmd *cobra.Command, args []string) error {
	day, err := parseDay(args[0])
	if err != nil {
		return err
	}
	compound, ok := schedule.ParseCompound(strings.ToLower(args[1]))
	if !ok {
		return fmt.Errorf("unknown compound %q (want osta, rad or card)", args[1])
	}
	count, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("count must be a number: %q", args[2])
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	p, err := newClient().SetCapsules(ctx, day, string(compound), count)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), p)
	}
	caps := p.DailyCapsules[day]
	fmt.Fprintf(cmd.OutOrStdout(), "Day %d: osta %d, rad %d, card %d\n", day, caps.Osta, caps.Rad, caps.Card)
	return nil
}

func runStartDate(cmd *cobra.Command, args []string) error {
	date := args[0]
	if date == "clear" {
		date = ""
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	p, err := newClient().SetStartDate(ctx, date)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), p)
	}
	if p.StartDate == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Start date cleared")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Start date set to %s\n", p.StartDate)
	return nil
}

func runActivity(cmd *cobra.Command, _ []string) error {
	ctx, cancel := requestContext(cmd)
	defer cancel()

	entries, err := newClient().Activity(ctx, activityLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No activity recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %-20s %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Type, e.Summary)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := requestContext(cmd)
	defer cancel()

	p, err := newClient().Progress(ctx)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return printJSON(cmd.OutOrStdout(), p)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d checked days to %s\n", p.CompletedDays(), args[0])
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	p, err := progress.Decode(schedule.Default(), data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()

	if err := newClient().Replace(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d checked days\n", p.CompletedDays())
	return nil
}
