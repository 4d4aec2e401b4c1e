package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/dupleter/dupe"
	"github.com/lepinkainen/dupleter/types"
	"github.com/lepinkainen/dupleter/ui"
	"github.com/lepinkainen/dupleter/utils"
)

// ScanCmd finds duplicate files under a directory and, with --delete, removes
// every copy but one.
type ScanCmd struct {
	Dir        string `help:"Directory to search for duplicates" default:"." type:"path"`
	Mode       string `help:"Detection strategy: exact (size and content hash) or fuzzy (file name and size tolerance)" enum:"exact,fuzzy" required:""`
	FuzzySize  int64  `name:"fuzzy-size" help:"Size tolerance in bytes for fuzzy matches" default:"0"`
	Delete     bool   `help:"Delete duplicates instead of only reporting them"`
	Verbose    bool   `short:"v" help:"Trace every scanned directory and hashed file"`
	Hash       string `help:"Content digest: token ignores whitespace layout, bytes is byte-exact" enum:"token,bytes" default:"token"`
	Keep       string `help:"Which member of an exact group survives" enum:"first,shortest-path" default:"first"`
	Workers    int    `help:"Size buckets hashed in parallel (0 picks automatically)" default:"1"`
	Format     string `help:"Output format" enum:"text,records" default:"text"`
	Review     bool   `help:"Review exact duplicate groups interactively before deleting"`
	NoProgress bool   `name:"no-progress" help:"Do not show the hashing progress bar"`
}

// reporter is a Notifier that can also print the closing summary
type reporter interface {
	dupe.Notifier
	Summary(mode dupe.Strategy, tally dupe.Tally, commit bool)
}

// Validate rejects flag combinations kong cannot express with tags
func (cmd *ScanCmd) Validate() error {
	if cmd.FuzzySize < 0 {
		return fmt.Errorf("--fuzzy-size must not be negative, got %d", cmd.FuzzySize)
	}
	if cmd.Review && cmd.Mode != string(dupe.StrategyExact) {
		return fmt.Errorf("--review is only available with --mode exact")
	}
	if cmd.Review && cmd.Format != "text" {
		return fmt.Errorf("--review cannot be combined with --format %s", cmd.Format)
	}
	return nil
}

// Run scans cmd.Dir with the selected strategy and resolves every duplicate found
func (cmd *ScanCmd) Run(appCtx *types.AppContext) error {
	app := appCtx.Resolve()
	report := cmd.reporter(app)

	if cmd.Format == "text" {
		fmt.Fprintln(app.Stdout, ui.HeaderStyle.Render(fmt.Sprintf("Dupleter %s", app.Version)))
		fmt.Fprintln(app.Stdout, ui.ProcessingStyle.Render(fmt.Sprintf("Searching for duplicates in %s (%s mode)", cmd.Dir, cmd.Mode)))
		if !cmd.Delete {
			fmt.Fprintln(app.Stdout, ui.InfoStyle.Render("Dry run: nothing will be deleted (pass --delete to commit)."))
		}
	}

	scanner := dupe.NewScanner(app.Fs, report)
	resolver := dupe.NewResolver(app.Fs, cmd.Delete, report)

	var tally dupe.Tally
	var err error
	switch dupe.Strategy(cmd.Mode) {
	case dupe.StrategyExact:
		tally, err = cmd.runExact(app, scanner, resolver)
	case dupe.StrategyFuzzy:
		tally, err = dupe.NewFuzzyMatcher(cmd.FuzzySize, resolver).Run(scanner, cmd.Dir)
	default:
		err = fmt.Errorf("unknown mode %q", cmd.Mode)
	}
	if err != nil {
		return fmt.Errorf("failed to find duplicates: %w", err)
	}

	report.Summary(dupe.Strategy(cmd.Mode), tally, cmd.Delete)
	return nil
}

func (cmd *ScanCmd) runExact(app *types.AppContext, scanner *dupe.Scanner, resolver *dupe.Resolver) (dupe.Tally, error) {
	hasher, err := dupe.NewHasher(cmd.Hash)
	if err != nil {
		return dupe.Tally{}, err
	}
	keep, err := dupe.NewKeepPolicy(cmd.Keep)
	if err != nil {
		return dupe.Tally{}, err
	}

	grouper := dupe.NewSizeHashGrouper(scanner, hasher)
	grouper.Workers = utils.HashWorkers(cmd.Workers, cmd.Dir)

	report := scanner.Notify
	var progress *ui.Progress
	if cmd.showProgress(app) {
		grouper.BeforeHashing = func(total int) {
			if total == 0 {
				return
			}
			progress = ui.NewProgress(report, total, app.Stderr)
			scanner.Notify = progress
		}
	}

	groups, tally, err := grouper.Find(cmd.Dir)
	if progress != nil {
		progress.Finish()
		scanner.Notify = report
	}
	if err != nil {
		return dupe.Tally{}, err
	}

	if cmd.Review {
		reviewed, err := cmd.review(app, groups, keep)
		if err != nil {
			return dupe.Tally{}, err
		}
		tally.Add(reviewed)
		return tally, nil
	}

	for _, group := range groups {
		tally.Add(resolver.ResolveGroup(group, keep))
	}
	return tally, nil
}

// review hands the groups to the interactive TUI and returns its deletions
func (cmd *ScanCmd) review(app *types.AppContext, groups []dupe.DuplicateGroup, keep dupe.KeepPolicy) (dupe.Tally, error) {
	if len(groups) == 0 {
		fmt.Fprintf(app.Stdout, "%s\n", ui.SuccessStyle.Render("✅ No duplicates found"))
		return dupe.Tally{}, nil
	}

	model := ui.NewDuplicatesModel(groups, keep, dupe.NewResolver(app.Fs, cmd.Delete, nil))
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return dupe.Tally{}, err
	}

	if m, ok := final.(ui.DuplicatesModel); ok {
		return m.Tally(), nil
	}
	return dupe.Tally{}, nil
}

func (cmd *ScanCmd) reporter(app *types.AppContext) reporter {
	if cmd.Format == "records" {
		return ui.NewRecords(app.Stdout)
	}
	return ui.NewConsole(app.Stdout, app.Stderr, cmd.Verbose, !cmd.Delete)
}

func (cmd *ScanCmd) showProgress(app *types.AppContext) bool {
	if cmd.NoProgress || cmd.Verbose || cmd.Format != "text" {
		return false
	}
	f, ok := app.Stderr.(*os.File)
	return ok && ui.IsTerminal(f)
}
