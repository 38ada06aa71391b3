package monitor

// fallbackResponses are the canned in-character lines sent when the
// completion capability fails. Chosen uniformly at random; users never
// see raw error text.
var fallbackResponses = []string{
	"🏈 I heard my name! What's up with college football today?",
	"👋 Hey there! Ready to talk some CFB?",
	"🎯 Scout here! What's the football question?",
	"💚 You called? I'm always down for football talk!",
	"🏆 College football chat? Count me in!",
}

// pickFallback selects one canned line using the monitor's random
// source.
func (m *Monitor) pickFallback() string {
	return fallbackResponses[int(m.rand.Float64()*float64(len(fallbackResponses)))%len(fallbackResponses)]
}
