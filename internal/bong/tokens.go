package bong

import (
	"regexp"
	"strconv"
	"strings"
)

// Tally groups also accept ASCII digits so a tally typed without subscript
// glyphs is reported as invalid instead of going unnoticed. Image paths are
// read back from each match with ExtractImagePaths.
var (
	// "3 - @resource/Aoe2de_wood.png@₃"
	addPattern = regexp.MustCompile(`(\d+)\s*-\s*@[^@]+@([₀-₉0-9]+)`)
	// "2@animal/Sheep_aoe2DE.png@₄ → @resource/Aoe2de_wood.png@₂"
	movePattern = regexp.MustCompile(`(\d+)@[^@]+@([₀-₉0-9]+)\s*→\s*@[^@]+@([₀-₉0-9]+)`)
	// "1@resource/Aoe2de_wood.png@ → @house/House_aoe2DE.png@ → @resource/Aoe2de_wood.png@"
	// Each leg is anchored to the previous image so round trips in one note stay separate.
	temporaryPattern = regexp.MustCompile(`(\d+)@[^@]+@\s*→\s*@[^@]+@\s*→\s*@[^@]+@`)
)

// AddToken declares newly assigned workers ending at a cumulative tally
type AddToken struct {
	Raw       string
	Count     int
	Image     string
	Subscript string
	Tally     int
	Valid     bool
}

// MoveToken declares workers relocated between two tallied locations
type MoveToken struct {
	Raw             string
	Count           int
	Source          string
	SourceSubscript string
	SourceTally     int
	SourceValid     bool
	Dest            string
	DestSubscript   string
	DestTally       int
	DestValid       bool
}

// Valid reports whether both tallies decoded
func (m MoveToken) Valid() bool {
	return m.SourceValid && m.DestValid
}

// TemporaryToken declares workers sent to a building and back
type TemporaryToken struct {
	Raw      string
	Count    int
	Source   string
	Building string
	Return   string
}

// Returns reports whether the workers come back to where they started
func (t TemporaryToken) Returns() bool {
	return strings.TrimSpace(t.Source) == strings.TrimSpace(t.Return)
}

// NoteTokens holds every token parsed from one note
type NoteTokens struct {
	Adds        []AddToken
	Moves       []MoveToken
	Temporaries []TemporaryToken
}

// WorkersAdded sums the counts of the add tokens with a valid tally
func (n NoteTokens) WorkersAdded() int {
	total := 0
	for _, a := range n.Adds {
		if a.Valid {
			total += a.Count
		}
	}
	return total
}

// ParseNote extracts add, move and temporary-assignment tokens from a note
func ParseNote(note string) NoteTokens {
	return NoteTokens{
		Adds:        ParseAdds(note),
		Moves:       ParseMoves(note),
		Temporaries: ParseTemporaries(note),
	}
}

// ParseAdds returns every add token in the note
func ParseAdds(note string) []AddToken {
	var tokens []AddToken
	for _, m := range addPattern.FindAllStringSubmatch(note, -1) {
		count, countOK := parseCount(m[1])
		tally, tallyOK := DecodeSubscript(m[2])
		paths := imagePaths(m[0], 1)
		tokens = append(tokens, AddToken{
			Raw:       m[0],
			Count:     count,
			Image:     paths[0],
			Subscript: m[2],
			Tally:     tally,
			Valid:     countOK && tallyOK,
		})
	}
	return tokens
}

// ParseMoves returns every non-overlapping move token in the note
func ParseMoves(note string) []MoveToken {
	var tokens []MoveToken
	for _, m := range movePattern.FindAllStringSubmatch(note, -1) {
		count, _ := parseCount(m[1])
		srcTally, srcOK := DecodeSubscript(m[2])
		dstTally, dstOK := DecodeSubscript(m[3])
		paths := imagePaths(m[0], 2)
		tokens = append(tokens, MoveToken{
			Raw:             m[0],
			Count:           count,
			Source:          paths[0],
			SourceSubscript: m[2],
			SourceTally:     srcTally,
			SourceValid:     srcOK,
			Dest:            paths[1],
			DestSubscript:   m[3],
			DestTally:       dstTally,
			DestValid:       dstOK,
		})
	}
	return tokens
}

// ParseTemporaries returns the temporary-assignment tokens in the note
func ParseTemporaries(note string) []TemporaryToken {
	var tokens []TemporaryToken
	for _, m := range temporaryPattern.FindAllStringSubmatch(note, -1) {
		count, _ := parseCount(m[1])
		paths := imagePaths(m[0], 3)
		tokens = append(tokens, TemporaryToken{
			Raw:      m[0],
			Count:    count,
			Source:   paths[0],
			Building: paths[1],
			Return:   paths[2],
		})
	}
	return tokens
}

// imagePaths extracts the image paths of a matched token, padded to n entries
func imagePaths(raw string, n int) []string {
	paths := ExtractImagePaths(raw)
	for len(paths) < n {
		paths = append(paths, "")
	}
	return paths
}

func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
