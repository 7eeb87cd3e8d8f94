package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/stackvity/tree-sweep/internal/cli/config"
	"github.com/stackvity/tree-sweep/internal/cli/git"
	"github.com/stackvity/tree-sweep/pkg/sweep"
	"github.com/stackvity/tree-sweep/pkg/sweep/archive"
	"github.com/stackvity/tree-sweep/pkg/sweep/repo"
)

// Gate describes the follow-up a tool offers over flagged items.
type Gate struct {
	Question string
	// Kinds selects the flagged outcomes.
	Kinds    []sweep.OutcomeKind
	Action   sweep.Action
	DoneLine func(item sweep.WorkItem) string
	FailLine func(result sweep.ActionResult) string
}

// Tool ties a command to the engine: what it matches, how it classifies and
// how results are worded.
type Tool struct {
	Config       config.Tool
	NewPredicate func(s config.Settings) sweep.Predicate
	NewProcessor func(s config.Settings, loggerHandler slog.Handler) (sweep.Processor, error)
	FormatLine   sweep.LineFormatter
	Labels       sweep.SummaryLabels
	// Banner, if set, is printed before the run.
	Banner func(root string) string
	// CollectedLine, if set, is printed once the work list is complete.
	CollectedLine func(count int) string
	// EmptyLine, if set, replaces the summary when nothing matched.
	EmptyLine func(root string) string
	// ClosingLine, if set, is printed after the summary.
	ClosingLine string
	Gate        *Gate
}

// CheckZip validates every zip archive under the root and offers to delete
// the corrupted ones.
var CheckZip = Tool{
	Config: config.Tool{Name: "check-zip", EnvPrefix: "CHECKZIP", Extensions: []string{"zip"}},
	NewPredicate: func(s config.Settings) sweep.Predicate {
		return sweep.MatchExtensions(s.Extensions...)
	},
	NewProcessor: func(_ config.Settings, loggerHandler slog.Handler) (sweep.Processor, error) {
		return archive.NewChecker(loggerHandler), nil
	},
	FormatLine: checkZipLine,
	Labels: sweep.SummaryLabels{
		Title:   "📊 Validation Complete - Summary Statistics:",
		Total:   "   Total files checked",
		Success: "✅ Intact files",
		Failed:  "❌ Corrupted files",
		Skipped: "⏭️ Skipped files (password protected or unsupported)",
	},
	Banner: func(root string) string {
		return fmt.Sprintf("🔍 Recursively checking all ZIP files in current directory (%s)...", root)
	},
	Gate: &Gate{
		Question: "Do you want to delete all corrupted zip files? (y/N): ",
		Kinds:    []sweep.OutcomeKind{sweep.KindFailed},
		Action:   sweep.RemoveFile,
		DoneLine: func(item sweep.WorkItem) string {
			return "🗑️ Deleted corrupted file: " + item.Path
		},
		FailLine: func(r sweep.ActionResult) string {
			return fmt.Sprintf("❌ Failed to delete file %s: %s", r.Item.Path, actionMessage(r))
		},
	},
}

// GitSync pulls every Git repository under the root.
var GitSync = Tool{
	Config: config.Tool{Name: "git-sync", EnvPrefix: "GITSYNC", GitBackend: true},
	NewPredicate: func(_ config.Settings) sweep.Predicate {
		return sweep.HasMarkerDir(".git")
	},
	NewProcessor: func(s config.Settings, loggerHandler slog.Handler) (sweep.Processor, error) {
		puller, err := git.NewPuller(s.Backend, loggerHandler)
		if err != nil {
			return nil, err
		}
		return repo.NewPullProcessor(puller, repo.NewLimiter(s.Rate), loggerHandler), nil
	},
	FormatLine: gitSyncLine,
	Labels: sweep.SummaryLabels{
		Title:   "📊 Sync Complete - Summary Statistics:",
		Total:   "   Total repositories",
		Success: "✅ Synced repositories",
		Failed:  "❌ Failed repositories",
		Skipped: "⏭️ Skipped repositories (auth required)",
	},
	CollectedLine: gitSyncCollected,
	EmptyLine: func(root string) string {
		return fmt.Sprintf("No Git repositories found in %s", root)
	},
	ClosingLine: "✅ All repositories synced!",
}

func gitSyncCollected(count int) string {
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("Found %d repositories. Starting sync...\n", count)
}

func checkZipLine(item sweep.WorkItem, o sweep.Outcome) string {
	switch o.Kind {
	case sweep.KindSuccess:
		return "✅ [VALID] " + item.RelPath
	case sweep.KindSkipped:
		if o.Reason == sweep.ReasonPasswordProtected {
			return "🔐 [PASSWORD PROTECTED] " + item.RelPath
		}
		return fmt.Sprintf("⏭️ [SKIPPED] %s (%s)", item.RelPath, o.Reason)
	case sweep.KindUnsupported:
		return "⏭️ [UNSUPPORTED] " + item.RelPath
	default:
		return fmt.Sprintf("❌ [CORRUPTED] %s - %s", item.RelPath, o.Message)
	}
}

func gitSyncLine(item sweep.WorkItem, o sweep.Outcome) string {
	switch o.Kind {
	case sweep.KindSuccess:
		if o.Note == repo.NoteUpToDate {
			return "✅ [Up to Date] " + item.RelPath
		}
		return "✅ [Updated] " + item.RelPath
	case sweep.KindSkipped, sweep.KindUnsupported:
		return "⏭️ [Skipped - Auth Required] " + item.RelPath
	default:
		return fmt.Sprintf("❌ [Error] %s - %s", item.RelPath, o.Message)
	}
}

// actionMessage strips the ErrPostAction and path prefix from a gate error.
func actionMessage(r sweep.ActionResult) string {
	msg := r.Err.Error()
	msg = strings.TrimPrefix(msg, sweep.ErrPostAction.Error()+": ")
	return strings.TrimPrefix(msg, r.Item.RelPath+": ")
}
