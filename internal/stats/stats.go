// Package stats contains answer-history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/conjuga/internal/model"
	"github.com/verte-zerg/conjuga/internal/textable"
)

const sparkChars = " .:-=+*#%@"

// Accuracy returns the share of correct answers in [0, 1].
func Accuracy(correct, incorrect int) float64 {
	total := correct + incorrect
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// AccuracyCurve returns per-session accuracy in percent, smoothed over window sessions.
func AccuracyCurve(sessions []model.SessionAggregate, window int) []float64 {
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = Accuracy(s.Correct, s.Incorrect) * 100
	}
	return MovingAverage(values, window)
}

// Summary holds headline numbers over a set of sessions.
type Summary struct {
	Sessions     int
	Answers      int
	Correct      int
	Accuracy     float64
	BestAccuracy float64
	AvgSeconds   float64
	Practiced    time.Duration
}

// Summarize computes headline numbers. aggs supplies answer latency.
func Summarize(sessions []model.SessionAggregate, aggs []model.TenseAggregate) Summary {
	var sum Summary
	sum.Sessions = len(sessions)
	for _, s := range sessions {
		sum.Answers += s.Correct + s.Incorrect
		sum.Correct += s.Correct
		sum.BestAccuracy = math.Max(sum.BestAccuracy, Accuracy(s.Correct, s.Incorrect))
		sum.Practiced += s.EndedAt.Sub(s.StartedAt)
	}
	sum.Accuracy = Accuracy(sum.Correct, sum.Answers-sum.Correct)

	var elapsed int64
	var answered int
	for _, agg := range aggs {
		elapsed += agg.ElapsedSumMs
		answered += agg.Correct + agg.Incorrect
	}
	if answered > 0 {
		sum.AvgSeconds = float64(elapsed) / float64(answered) / 1000
	}
	return sum
}

// RenderSummary prints headline numbers and the accuracy sparkline.
func RenderSummary(w io.Writer, report Report, window int) error {
	if len(report.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(report.Sessions, report.TenseAggs)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", sum.Sessions),
		fmt.Sprintf("Answers: %d", sum.Answers),
		fmt.Sprintf("Accuracy: %.2f%%", sum.Accuracy*100),
		fmt.Sprintf("Best session: %.2f%%", sum.BestAccuracy*100),
		fmt.Sprintf("Avg answer time: %.1fs", sum.AvgSeconds),
		fmt.Sprintf("Accuracy trend: [%s]", Sparkline(AccuracyCurve(report.Sessions, window))),
	}
	if weak := WeakestTenses(report.TenseAggs, 3); len(weak) > 0 {
		lines = append(lines, "Needs practice: "+strings.Join(displayTenses(weak), ", "))
	}
	lines = append(lines, "")
	return writeLines(w, lines)
}

// TenseRows builds table rows for per-tense aggregates, weakest first.
func TenseRows(aggs []model.TenseAggregate) ([]string, [][]string) {
	headers := []string{"Tense", "Accuracy", "Avg Time (s)", "Correct", "Incorrect"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range sortByAccuracy(aggs) {
		total := agg.Correct + agg.Incorrect
		avg := 0.0
		if total > 0 {
			avg = float64(agg.ElapsedSumMs) / float64(total) / 1000
		}
		rows = append(rows, []string{
			DisplayTense(agg.Tense),
			fmt.Sprintf("%.2f%%", Accuracy(agg.Correct, agg.Incorrect)*100),
			fmt.Sprintf("%.1f", avg),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
		})
	}
	return headers, rows
}

// RenderTenseTable prints per-tense aggregates.
func RenderTenseTable(w io.Writer, aggs []model.TenseAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No tense stats found.")
		return err
	}
	headers, rows := TenseRows(aggs)
	lines := append([]string{"Per-Tense"}, textable.Format(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})...)
	return writeLines(w, append(lines, ""))
}

// MissedRows builds table rows for the most-missed forms.
func MissedRows(missed []model.MissedForm) ([]string, [][]string) {
	headers := []string{"Verb", "Tense", "Pronoun", "Answer", "Misses", "Attempts"}
	rows := make([][]string, 0, len(missed))
	for _, m := range missed {
		rows = append(rows, []string{
			m.Verb,
			DisplayTense(m.Tense),
			m.Pronoun,
			m.Expected,
			fmt.Sprintf("%d", m.Misses),
			fmt.Sprintf("%d", m.Attempts),
		})
	}
	return headers, rows
}

// RenderMissedTable prints the most-missed forms.
func RenderMissedTable(w io.Writer, missed []model.MissedForm) error {
	if len(missed) == 0 {
		_, err := fmt.Fprintln(w, "No missed forms. ¡Muy bien!")
		return err
	}
	headers, rows := MissedRows(missed)
	lines := append([]string{"Most Missed"}, textable.Format(headers, rows, map[int]bool{4: true, 5: true})...)
	return writeLines(w, append(lines, ""))
}

// DisplayTense renders a tense key with underscores as spaces.
func DisplayTense(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

func displayTenses(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = DisplayTense(k)
	}
	return out
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
