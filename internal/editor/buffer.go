package editor

import "strings"

// buffer is a line-oriented rune buffer with a cursor. It stores text
// verbatim: tabs, trailing spaces and carriage returns are never rewritten.
type buffer struct {
	lines [][]rune
	row   int
	col   int // rune index within lines[row]
}

func newBuffer(s string) buffer {
	parts := strings.Split(s, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return buffer{lines: lines}
}

func (b *buffer) String() string {
	parts := make([]string, len(b.lines))
	for i, l := range b.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

func (b *buffer) lineCount() int { return len(b.lines) }

func (b *buffer) empty() bool {
	return len(b.lines) == 1 && len(b.lines[0]) == 0
}

// clamp keeps the cursor inside the buffer.
func (b *buffer) clamp() {
	if b.row >= len(b.lines) {
		b.row = len(b.lines) - 1
	}
	if b.row < 0 {
		b.row = 0
	}
	if b.col > len(b.lines[b.row]) {
		b.col = len(b.lines[b.row])
	}
	if b.col < 0 {
		b.col = 0
	}
}

// insert inserts runes at the cursor; '\n' splits the line.
func (b *buffer) insert(rs []rune) bool {
	if len(rs) == 0 {
		return false
	}
	for _, r := range rs {
		if r == '\n' {
			b.newline()
			continue
		}
		line := b.lines[b.row]
		line = append(line[:b.col], append([]rune{r}, line[b.col:]...)...)
		b.lines[b.row] = line
		b.col++
	}
	return true
}

func (b *buffer) newline() {
	line := b.lines[b.row]
	head := append([]rune(nil), line[:b.col]...)
	tail := append([]rune(nil), line[b.col:]...)
	b.lines[b.row] = head
	b.lines = append(b.lines[:b.row+1], append([][]rune{tail}, b.lines[b.row+1:]...)...)
	b.row++
	b.col = 0
}

// backspace deletes the rune before the cursor, joining lines at column 0.
func (b *buffer) backspace() bool {
	if b.col > 0 {
		line := b.lines[b.row]
		b.lines[b.row] = append(line[:b.col-1], line[b.col:]...)
		b.col--
		return true
	}
	if b.row == 0 {
		return false
	}
	prev := b.lines[b.row-1]
	b.col = len(prev)
	b.lines[b.row-1] = append(prev, b.lines[b.row]...)
	b.lines = append(b.lines[:b.row], b.lines[b.row+1:]...)
	b.row--
	return true
}

// deleteForward deletes the rune under the cursor, joining lines at line end.
func (b *buffer) deleteForward() bool {
	line := b.lines[b.row]
	if b.col < len(line) {
		b.lines[b.row] = append(line[:b.col], line[b.col+1:]...)
		return true
	}
	if b.row == len(b.lines)-1 {
		return false
	}
	b.lines[b.row] = append(line, b.lines[b.row+1]...)
	b.lines = append(b.lines[:b.row+1], b.lines[b.row+2:]...)
	return true
}

// deleteToLineStart removes everything before the cursor on the current line.
func (b *buffer) deleteToLineStart() bool {
	if b.col == 0 {
		return false
	}
	b.lines[b.row] = append([]rune(nil), b.lines[b.row][b.col:]...)
	b.col = 0
	return true
}

func (b *buffer) left() {
	if b.col > 0 {
		b.col--
	} else if b.row > 0 {
		b.row--
		b.col = len(b.lines[b.row])
	}
}

func (b *buffer) right() {
	if b.col < len(b.lines[b.row]) {
		b.col++
	} else if b.row < len(b.lines)-1 {
		b.row++
		b.col = 0
	}
}

func (b *buffer) up(n int) {
	b.row -= n
	b.clamp()
}

func (b *buffer) down(n int) {
	b.row += n
	b.clamp()
}

func (b *buffer) home() { b.col = 0 }

func (b *buffer) end() { b.col = len(b.lines[b.row]) }

func (b *buffer) top() { b.row, b.col = 0, 0 }

func (b *buffer) bottom() {
	b.row = len(b.lines) - 1
	b.col = len(b.lines[b.row])
}
