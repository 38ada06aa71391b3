package personality

import "strings"

// opinion ties a set of topic keywords to the take Scout always holds on
// that topic. The takes never vary per user; that consistency is the
// point.
type opinion struct {
	keywords []string
	take     string
}

var opinions = []opinion{
	{[]string{"playoff"}, "Should expand to 12 teams"},
	{[]string{"nil", "recruiting"}, "NIL has changed everything"},
	{[]string{"tradition"}, "Respect the old ways while embracing change"},
}

// OpinionFor returns Scout's established take on a topic, or "" when the
// topic has no fixed opinion.
func OpinionFor(topic string) string {
	lower := strings.ToLower(topic)
	for _, o := range opinions {
		for _, kw := range o.keywords {
			if strings.Contains(lower, kw) {
				return o.take
			}
		}
	}
	return ""
}

// AlignWithOpinions appends Scout's established take on the topic to a
// response that discusses it without already stating it. The check is a
// case-insensitive substring match so a paraphrased response still gets
// the footer, which mirrors how insistent the persona is meant to be.
func AlignWithOpinions(response, topic string) string {
	take := OpinionFor(topic)
	if take == "" {
		return response
	}
	if strings.Contains(strings.ToLower(response), strings.ToLower(take)) {
		return response
	}
	return response + "\n\nFor what it's worth, I think " + strings.ToLower(take) + "."
}
