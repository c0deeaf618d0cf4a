package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstContact BookmarkType = "first_contact"
	BookmarkSurrounded   BookmarkType = "surrounded"
	BookmarkAlertSpike   BookmarkType = "alert_spike"
	BookmarkWallHugging  BookmarkType = "wall_hugging"
	BookmarkQuiet        BookmarkType = "quiet"
)

// quietWindows is how many detection-free windows after contact make a quiet bookmark.
const quietWindows = 3

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	RunID       string       `csv:"run_id"`
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	contacted   bool
	quietCount  int
	quietMarked bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(t BookmarkType, format string, args ...any) {
		bookmarks = append(bookmarks, Bookmark{
			RunID:       stats.RunID,
			Type:        t,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf(format, args...),
		})
	}

	if !bd.contacted && stats.Entered > 0 {
		bd.contacted = true
		add(BookmarkFirstContact, "%d entities entered detection", stats.Entered)
	}

	means := stats.QuadrantMeans()
	if means[0] > 0 && means[1] > 0 && means[2] > 0 && means[3] > 0 {
		add(BookmarkSurrounded, "activation in every quadrant (front %.2f right %.2f back %.2f left %.2f)",
			means[0], means[1], means[2], means[3])
	}

	if avg, ok := bd.avgAlertTicks(); ok && stats.AlertTicks >= 10 && float64(stats.AlertTicks) > 2*avg {
		add(BookmarkAlertSpike, "alert ticks %d is %.1fx average (%.1f)", stats.AlertTicks, float64(stats.AlertTicks)/max(avg, 1), avg)
	}

	if stats.Ticks > 0 && stats.WallContactTicks*2 > stats.Ticks {
		add(BookmarkWallHugging, "in wall contact for %d of %d ticks", stats.WallContactTicks, stats.Ticks)
	}

	if bd.contacted && stats.DetectedTicks == 0 {
		bd.quietCount++
		if bd.quietCount >= quietWindows && !bd.quietMarked {
			bd.quietMarked = true
			add(BookmarkQuiet, "no detections for %d windows", bd.quietCount)
		}
	} else {
		bd.quietCount = 0
		bd.quietMarked = false
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// avgAlertTicks needs at least three windows of history.
func (bd *BookmarkDetector) avgAlertTicks() (float64, bool) {
	history := bd.getHistory()
	if len(history) < 3 {
		return 0, false
	}
	var total int
	for _, h := range history {
		total += h.AlertTicks
	}
	return float64(total) / float64(len(history)), true
}
