package interview

// feedbackPhrases are prepended to every question after the first to keep the
// conversational flow. Purely cosmetic; never persisted with the question.
var feedbackPhrases = []string{
	"好的。",
	"明白了。",
	"有趣的经验。",
	"谢谢分享。",
	"我了解了。",
	"这是一个很好的角度。",
	"能具体谈谈你当时是怎么想的吗？",
	"我明白你的意思了。",
	"很有意思的经历。",
	"好的，那我们接下来谈谈...",
}

// pickFeedback draws one phrase using the injected uniform source.
func pickFeedback(randInt func(n int) int) string {
	return feedbackPhrases[randInt(len(feedbackPhrases))]
}
