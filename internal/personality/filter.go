package personality

import (
	"regexp"
	"strings"
)

// Word and emoji rewrites applied at the low banter levels. Level 0
// neutralizes informal language entirely; level 1 only softens the
// violence metaphors. Levels 2 and 3 pass responses through untouched.
var (
	professionalWords = regexp.MustCompile(`(?i)\b(trash|sucks|terrible|awful)\b`)
	friendlyWords     = regexp.MustCompile(`(?i)\b(destroyed|demolished|annihilated)\b`)
	repeatedFire      = regexp.MustCompile(`🔥{2,}`)
)

// FilterResponse rewrites a generated reply to match the banter level.
func FilterResponse(response string, level BanterLevel) string {
	switch level.Clamp() {
	case 0:
		response = professionalWords.ReplaceAllString(response, "challenging")
		response = strings.ReplaceAll(response, "🔥", "👍")
		response = strings.ReplaceAll(response, "💯", "✅")
		response = strings.ReplaceAll(response, "!", ".")
		return response
	case 1:
		response = friendlyWords.ReplaceAllString(response, "defeated")
		return repeatedFire.ReplaceAllString(response, "🔥")
	default:
		return response
	}
}
