package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func newStyledRune(r rune, style lipgloss.Style) styledRune {
	return styledRune{
		s:       style.Render(string(r)),
		width:   runewidth.RuneWidth(r),
		isSpace: r == ' ',
	}
}

// buildStyledRunes aligns typed against target word by word. Runes typed past
// the end of a target word are shown after it in the overtype style; target
// runes skipped by an early space are marked missed. The cursor is drawn only
// while the session accepts input.
func buildStyledRunes(target, typed string, showCursor bool) []styledRune {
	targetWords := strings.Split(target, " ")
	var typedWords []string
	if typed != "" {
		typedWords = strings.Split(typed, " ")
	}
	current := max(len(typedWords)-1, 0)

	out := make([]styledRune, 0, len(target))
	for wi, word := range targetWords {
		if wi > 0 {
			style := pendingStyle
			if wi <= current {
				style = correctStyle
			}
			if showCursor && wi == current+1 && cursorPastWord(typedWords, targetWords, current) {
				style = style.Underline(true)
			}
			out = append(out, newStyledRune(' ', style))
		}

		tr := []rune(word)
		var ty []rune
		if wi < len(typedWords) {
			ty = []rune(typedWords[wi])
		}
		for i, r := range tr {
			var style lipgloss.Style
			switch {
			case i < len(ty) && ty[i] == r:
				style = correctStyle
			case i < len(ty):
				style = incorrectStyle
			case wi < current:
				style = missedStyle
			case wi == current:
				style = currentWordStyle
			default:
				style = pendingStyle
			}
			if showCursor && wi == current && i == len(ty) {
				style = style.Underline(true)
			}
			out = append(out, newStyledRune(r, style))
		}
		for i := len(tr); i < len(ty); i++ {
			out = append(out, newStyledRune(ty[i], overtypeStyle))
		}
	}
	return out
}

// cursorPastWord reports whether the cursor sits after the last rune of the
// current target word.
func cursorPastWord(typedWords, targetWords []string, current int) bool {
	if current >= len(targetWords) {
		return false
	}
	typedLen := 0
	if current < len(typedWords) {
		typedLen = len([]rune(typedWords[current]))
	}
	return typedLen >= len([]rune(targetWords[current]))
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits within width.
// Words wider than width are split mid-word.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
			}
			lineWidth = lineWidthOf(line)
			lastSpaceIdx = lastSpaceIndex(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
