package chatbot

import (
	"regexp"
	"strings"

	"concierge/models"
)

// minIntentScore is the floor below which a match is treated as a
// recognition miss rather than a weak intent.
const minIntentScore = 0.3

// catalogEntry binds an intent to its full patterns and fallback keywords.
// Declaration order is the priority order: on a tied score the earlier entry
// wins.
type catalogEntry struct {
	intent   models.IntentType
	patterns []*regexp.Regexp
	keywords []string
}

// Classifier scores text against an ordered intent catalog. Pure: safe for
// concurrent use without synchronization.
type Classifier struct {
	catalog []catalogEntry
}

// NewClassifier compiles the intent catalog. Entries whose surface forms
// overlap (BOOK vs SEARCH both mention hotels) are ordered so the more
// specific intent is declared first.
func NewClassifier() *Classifier {
	return &Classifier{catalog: []catalogEntry{
		{
			intent: models.IntentCancel,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(cancel|refund)\b`),
				regexp.MustCompile(`\b(not interested|forget it|never ?mind)\b`),
			},
			keywords: []string{"cancel", "refund", "nevermind"},
		},
		{
			intent: models.IntentConfirm,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(yes|yes please|yep|yeah|sure|ok|okay)\s*[.!]*\s*$`),
				regexp.MustCompile(`\b(confirm|go ahead|proceed|do it)\b`),
			},
			keywords: []string{"yes", "confirm", "proceed"},
		},
		{
			intent: models.IntentBook,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(book|reserve|take|choose|select)\b.*\b(hotel|room|one|it|that)\b`),
				regexp.MustCompile(`\bi(?:'|\x{2019})?ll (take|book)\b`),
				regexp.MustCompile(`\b(book|reserve)\b.*\b(first|second|third|fourth|fifth|\d+(?:st|nd|rd|th))\b`),
			},
			keywords: []string{"book", "reserve"},
		},
		{
			intent: models.IntentGreet,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(hello|hi|hey|good morning|good afternoon|good evening)\b`),
				regexp.MustCompile(`\b(start|begin)\b`),
			},
			keywords: []string{"hello", "hi", "hey"},
		},
		{
			intent: models.IntentHelp,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(help|assist)\b`),
				regexp.MustCompile(`\bwhat (can|do) you\b`),
			},
			keywords: []string{"help", "options", "assist"},
		},
		{
			intent: models.IntentFilter,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(filter|only ones?|cheaper|cheapest|show me)\b`),
				regexp.MustCompile(`\b(with|that have)\b.*\b(breakfast|wifi|pool|gym|spa|parking|restaurant|bar)\b`),
				regexp.MustCompile(`\b(under|below|less than|over|above|more than)\b.*\$?\d+`),
			},
			keywords: []string{"filter", "cheaper", "only"},
		},
		{
			intent: models.IntentSearchLocation,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(stay|hotel|hotels|accommodation|sleep)\b.*\b(in|at|near|around)\b`),
				regexp.MustCompile(`\b(find|search|look(?:ing)? for|need)\b.*\b(hotel|place to stay|room)\b`),
				regexp.MustCompile(`\b(where (can|should) i stay)\b`),
			},
			keywords: []string{"hotel", "stay", "accommodation"},
		},
		{
			intent: models.IntentProvideDates,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(check.?in|check.?out|arrival|departure)\b`),
				regexp.MustCompile(`\b(today|tonight|tomorrow|next week|this weekend|next weekend)\b`),
				regexp.MustCompile(`\bnext (monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
				regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d{4}-\d{1,2}-\d{1,2}\b`),
			},
			keywords: []string{"dates", "checkin", "checkout"},
		},
		{
			intent: models.IntentProvideGuests,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b\d+\s*(adults?|guests?|people|children|rooms?)\b`),
				regexp.MustCompile(`\b(adults?|guests?|rooms?)\b`),
				regexp.MustCompile(`\b(family of \d+|a couple|just me|solo)\b`),
			},
			keywords: []string{"guests", "adults", "rooms"},
		},
	}}
}

// Classify scores text against the catalog and returns the best intent. It
// never fails: input that clears no threshold comes back as IntentUnknown
// with confidence 0.
func (c *Classifier) Classify(text string) models.Intent {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return models.Intent{Type: models.IntentUnknown, Confidence: 0, RawText: text}
	}

	best := models.Intent{Type: models.IntentUnknown, Confidence: 0, RawText: text}
	bestScore := 0.0
	for _, entry := range c.catalog {
		score := entry.score(lower)
		if score > bestScore { // strict: earlier entries win ties
			bestScore = score
			best.Type = entry.intent
			best.Confidence = score
		}
	}
	if bestScore < minIntentScore {
		return models.Intent{Type: models.IntentUnknown, Confidence: 0, RawText: text}
	}
	if best.Confidence > 1 {
		best.Confidence = 1
	}
	return best
}

// score is 1.0 on a full pattern hit, otherwise partial credit for the
// fraction of keywords present, scaled into (0.25, 0.75].
func (e *catalogEntry) score(lower string) float64 {
	for _, re := range e.patterns {
		if re.MatchString(lower) {
			return 1.0
		}
	}
	matched := 0
	for _, kw := range e.keywords {
		if containsWord(lower, kw) {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return 0.25 + 0.5*float64(matched)/float64(len(e.keywords))
}

// containsWord reports a whole-word occurrence of kw in lower.
func containsWord(lower, kw string) bool {
	return indexOfWord(lower, kw) >= 0
}

// indexOfWord returns the position of the first whole-word occurrence of kw
// in lower, or -1.
func indexOfWord(lower, kw string) int {
	idx := 0
	for {
		i := strings.Index(lower[idx:], kw)
		if i < 0 {
			return -1
		}
		start := idx + i
		end := start + len(kw)
		leftOK := start == 0 || !isWordByte(lower[start-1])
		rightOK := end == len(lower) || !isWordByte(lower[end])
		if leftOK && rightOK {
			return start
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '_'
}
