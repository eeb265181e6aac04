package util

import (
	"bytes"
	"fmt"
)

func GetLineAndColumn(src string, pos int) (line int, column int) {
	line = 1
	column = 1
	for i := 0; i < len(src) && i < pos; i++ {
		if src[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return
}

// GetContextLines formats up to two lines before errorLine and the error line
// itself, with a caret under errorCol. Programs are usually one long line, so
// lines are clipped to a window around the caret.
func GetContextLines(src string, errorLine, errorCol int) string {
	var result bytes.Buffer

	lines := splitLines(src)

	startLine := errorLine - 2
	if startLine < 1 {
		startLine = 1
	}

	for i := startLine; i <= errorLine && i <= len(lines); i++ {
		lineContent := lines[i-1]

		if i == errorLine {
			col := errorCol - 1
			if col > len(lineContent) {
				col = len(lineContent)
			}
			clipped, offset := clip(lineContent, col)
			margin := fmt.Sprintf("  >  %3d | ", i)
			result.WriteString(fmt.Sprintf("%s%s\n", margin, clipped))
			result.WriteString(fmt.Sprintf("%s^ unexpected here",
				replaceVisibleWithSpaces(margin+clipped[:col-offset])))
		} else {
			clipped, _ := clip(lineContent, 0)
			result.WriteString(fmt.Sprintf("     %3d | %s\n", i, clipped))
		}
	}

	return result.String()
}

// GetSourceContext renders the context lines for a byte offset in src.
func GetSourceContext(src string, pos int) string {
	if pos < 0 {
		return ""
	}
	line, column := GetLineAndColumn(src, pos)
	return GetContextLines(src, line, column)
}

const contextWindow = 40

// clip cuts s down to a window around col, returning the window and the byte
// offset of its start within s.
func clip(s string, col int) (string, int) {
	start := 0
	if col > contextWindow {
		start = col - contextWindow
	}
	end := col + contextWindow
	if end > len(s) {
		end = len(s)
	}
	return s[start:end], start
}

func splitLines(src string) []string {
	lines := []string{}
	lineStart := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, src[lineStart:i])
			lineStart = i + 1
		}
	}
	return append(lines, src[lineStart:])
}

// replaceVisibleWithSpaces replaces all non-whitespace characters with spaces
// while preserving tabs for correct alignment.
func replaceVisibleWithSpaces(s string) string {
	var buf bytes.Buffer
	for _, c := range s {
		if c == '\t' {
			buf.WriteRune('\t')
		} else {
			buf.WriteRune(' ')
		}
	}
	return buf.String()
}
