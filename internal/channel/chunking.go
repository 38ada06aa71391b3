package channel

import "strings"

// SplitText splits reply text into chunks that each respect maxLength,
// preferring line boundaries, then word boundaries; a single token longer
// than maxLength is hard-split. Discord caps messages at 2000 characters;
// the AI's length cap keeps replies well under that, but a channel must
// never fail delivery on an oversized fallback.
// A maxLength <= 0 means no splitting.
func SplitText(text string, maxLength int) []string {
	if maxLength <= 0 || len(text) <= maxLength {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		// Line itself too long: split on words.
		if len(line) > maxLength {
			flush()
			for _, word := range strings.Fields(line) {
				// A token with no break points gets cut mid-word.
				if len(word) > maxLength {
					flush()
					for len(word) > maxLength {
						chunks = append(chunks, word[:maxLength])
						word = word[maxLength:]
					}
				}
				if current.Len()+len(word)+1 > maxLength {
					flush()
				}
				if current.Len() > 0 {
					current.WriteByte(' ')
				}
				current.WriteString(word)
			}
			flush()
			continue
		}

		if current.Len()+len(line)+1 > maxLength {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	flush()

	if len(chunks) == 0 {
		return []string{""}
	}
	return chunks
}
