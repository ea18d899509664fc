package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/conjuga/internal/quiz"
)

type diffKind int

const (
	diffMatch diffKind = iota
	diffMismatch
	diffExtra
	diffMissing
)

type diffRune struct {
	r    rune
	kind diffKind
}

// diffAnswer compares given and correct rune by rune. Case differences
// match; accents do not. Missing runes are taken from correct.
func diffAnswer(given, correct string) []diffRune {
	g := []rune(given)
	c := []rune(correct)
	out := make([]diffRune, 0, max(len(g), len(c)))
	for i := 0; i < max(len(g), len(c)); i++ {
		switch {
		case i >= len(c):
			out = append(out, diffRune{r: g[i], kind: diffExtra})
		case i >= len(g):
			out = append(out, diffRune{r: c[i], kind: diffMissing})
		case foldEqual(g[i], c[i]):
			out = append(out, diffRune{r: g[i], kind: diffMatch})
		default:
			out = append(out, diffRune{r: g[i], kind: diffMismatch})
		}
	}
	return out
}

func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	return unicode.ToLower(a) == unicode.ToLower(b)
}

func renderDiffRunes(diff []diffRune) string {
	var b strings.Builder
	for _, d := range diff {
		s := string(d.r)
		switch d.kind {
		case diffMatch:
			b.WriteString(matchStyle.Render(s))
		case diffMismatch, diffExtra:
			b.WriteString(mismatchStyle.Render(s))
		case diffMissing:
			b.WriteString(missingStyle.Render(s))
		}
	}
	return b.String()
}

// caretLine marks every differing column with '^', aligned by display width.
func caretLine(diff []diffRune) string {
	var b strings.Builder
	for _, d := range diff {
		width := max(runewidth.RuneWidth(d.r), 1)
		if d.kind == diffMatch {
			b.WriteString(strings.Repeat(" ", width))
			continue
		}
		b.WriteString("^" + strings.Repeat(" ", width-1))
	}
	return strings.TrimRight(b.String(), " ")
}

func feedbackHeadline(res quiz.Result) string {
	if res.Correct {
		return correctStyle.Render("Correct!")
	}
	return incorrectStyle.Render(fmt.Sprintf("Incorrect! The correct answer is %s.", res.Question.CorrectAnswer))
}

// renderFeedback shows the verdict and, for a miss, the answer diff.
func renderFeedback(res quiz.Result) string {
	lines := []string{feedbackHeadline(res)}
	if res.Correct {
		return strings.Join(lines, "\n")
	}
	diff := diffAnswer(res.Given, res.Question.CorrectAnswer)
	const prefix = "  yours: "
	lines = append(lines,
		labelStyle.Render(prefix)+renderDiffRunes(diff),
		strings.Repeat(" ", len(prefix))+errorStyle.Render(caretLine(diff)),
	)
	return strings.Join(lines, "\n")
}
