package mastodon

import (
	"strings"
	"unicode/utf8"
)

// threadSuffixReserve keeps room for a " (i/n)" part counter appended to
// every chunk of a threaded message.
const threadSuffixReserve = 10

// splitMessage breaks text into chunks that fit the character limit once the
// thread counter is appended. Words are kept whole when possible; a single
// word longer than a chunk is split hard.
func splitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = CharacterLimit
	}
	length := utf8.RuneCountInString(text)
	if length <= limit {
		return []string{text}
	}

	effectiveLimit := limit - threadSuffixReserve
	if effectiveLimit < 1 {
		effectiveLimit = 1
	}
	chunksRequired := (length + effectiveLimit - 1) / effectiveLimit
	runesPerChunk := (length + chunksRequired - 1) / chunksRequired

	return wrapWords(text, runesPerChunk)
}

func wrapWords(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	chunks := []string{}
	current := strings.Builder{}
	currentLen := 0
	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		if currentLen > 0 && currentLen+1+wordLen > width {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		if wordLen > width {
			if currentLen > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
				currentLen = 0
			}
			for _, piece := range splitRunes(word, width) {
				chunks = append(chunks, piece)
			}
			continue
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func splitRunes(word string, width int) []string {
	runes := []rune(word)
	pieces := []string{}
	for start := 0; start < len(runes); start += width {
		end := start + width
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}
