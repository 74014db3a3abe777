package solidity

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dhamidi/sol/solidity/parser"
)

// Position is a zero-based line/character pair. Character counts bytes;
// UTF16Position and BytePosition convert to and from the UTF-16 columns
// editors use.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open text range.
type Range struct {
	Start Position
	End   Position
}

// Location identifies a range inside a document.
type Location struct {
	Path  string
	Range Range
}

// RangeOf converts a parser span into a Range.
func RangeOf(span parser.Span) Range {
	return Range{
		Start: positionOf(span.Start),
		End:   positionOf(span.End),
	}
}

func positionOf(pos parser.Position) Position {
	if pos.Line == 0 {
		return Position{}
	}
	return Position{Line: pos.Line - 1, Character: pos.Column - 1}
}

// OffsetAt returns the byte offset of pos in content. Positions past the end
// of a line clamp to the line end, positions past the last line clamp to the
// end of content.
func OffsetAt(content []byte, pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	line := 0
	offset := 0
	for line < pos.Line {
		next := indexByteFrom(content, '\n', offset)
		if next < 0 {
			return len(content)
		}
		offset = next + 1
		line++
	}
	end := indexByteFrom(content, '\n', offset)
	if end < 0 {
		end = len(content)
	}
	if pos.Character < 0 {
		return offset
	}
	if offset+pos.Character > end {
		return end
	}
	return offset + pos.Character
}

// PositionAt is the inverse of OffsetAt.
func PositionAt(content []byte, offset int) Position {
	if offset > len(content) {
		offset = len(content)
	}
	var pos Position
	for i := 0; i < offset; i++ {
		if content[i] == '\n' {
			pos.Line++
			pos.Character = 0
		} else {
			pos.Character++
		}
	}
	return pos
}

func indexByteFrom(content []byte, b byte, from int) int {
	if from > len(content) {
		return -1
	}
	i := bytes.IndexByte(content[from:], b)
	if i < 0 {
		return -1
	}
	return from + i
}

// UTF16Position converts pos to a position whose Character counts UTF-16
// code units of its line.
func UTF16Position(content []byte, pos Position) Position {
	line := lineAt(content, pos.Line)
	n := min(pos.Character, len(line))
	units := 0
	for i := 0; i < n; {
		r, size := utf8.DecodeRune(line[i:])
		units += utf16.RuneLen(r)
		i += size
	}
	if pos.Character > len(line) {
		units += pos.Character - len(line)
	}
	return Position{Line: pos.Line, Character: units}
}

// BytePosition is the inverse of UTF16Position. A column inside a
// surrogate pair moves past the whole character.
func BytePosition(content []byte, pos Position) Position {
	line := lineAt(content, pos.Line)
	i, units := 0, 0
	for i < len(line) && units < pos.Character {
		r, size := utf8.DecodeRune(line[i:])
		units += utf16.RuneLen(r)
		i += size
	}
	if units < pos.Character {
		i += pos.Character - units
	}
	return Position{Line: pos.Line, Character: i}
}

// lineAt returns line n of content without its newline, or nil when content
// has fewer lines.
func lineAt(content []byte, n int) []byte {
	if n < 0 {
		return nil
	}
	offset := 0
	for ; n > 0; n-- {
		next := indexByteFrom(content, '\n', offset)
		if next < 0 {
			return nil
		}
		offset = next + 1
	}
	end := indexByteFrom(content, '\n', offset)
	if end < 0 {
		end = len(content)
	}
	return content[offset:end]
}
