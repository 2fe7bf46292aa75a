// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"regexp"
	"strings"

	"github.com/pdiddy/arb-engine/pkg/types"
)

// entityPattern is one row of the curated vocabulary. The pattern is
// word-boundary anchored; notAfter, when set, suppresses an occurrence that
// is immediately followed by an unrelated continuation ("fed cup", "apple
// tv"). RE2 has no lookahead, so the exclusion is a second anchored check on
// the text following each occurrence.
type entityPattern struct {
	tag      string
	re       *regexp.Regexp
	notAfter *regexp.Regexp
}

func pat(tag, expr string) entityPattern {
	return entityPattern{tag: tag, re: regexp.MustCompile(expr)}
}

func patExcl(tag, expr, after string) entityPattern {
	return entityPattern{
		tag:      tag,
		re:       regexp.MustCompile(expr),
		notAfter: regexp.MustCompile(`^` + after),
	}
}

// entityTable is the fixed, ordered vocabulary: notable people, crypto
// assets, organizations, countries and places, and event concepts.
// Constructed once at init and never mutated.
var entityTable = []entityPattern{
	// People.
	pat("trump", `\b(donald\s+)?trump\b`),
	pat("biden", `\b(joe\s+)?biden\b`),
	pat("harris", `\b(kamala\s+)?harris\b`),
	pat("musk", `\b(elon\s+)?musk\b`),
	pat("putin", `\b(vladimir\s+)?putin\b`),
	pat("xi jinping", `\bxi\s+jinping\b`),
	pat("taylor swift", `\btaylor\s+swift\b`),
	pat("netanyahu", `\bnetanyahu\b`),

	// Crypto assets.
	pat("bitcoin", `\bbitcoin\b`),
	pat("btc", `\bbtc\b`),
	pat("ethereum", `\bethereum\b`),
	patExcl("eth", `\beth\b`, `\s*(flipped|flip)`), // avoid "eth flipped"
	pat("solana", `\bsolana\b`),
	patExcl("sol", `\bsol\b`, `\s*\w`), // SOL as standalone word only
	pat("dogecoin", `\bdogecoin\b`),
	pat("doge", `\bdoge\b`),

	// Organizations.
	pat("federal reserve", `\bfederal\s+reserve\b`),
	patExcl("fed", `\bfed\b`, `\s*(cup|ex)`), // Fed but not FedEx or Fed Cup
	pat("openai", `\bopenai\b`),
	pat("tesla", `\btesla\b`),
	patExcl("apple", `\bapple\b`, `\s*(music|tv)`),
	pat("microsoft", `\bmicrosoft\b`),
	pat("google", `\bgoogle\b`),
	patExcl("meta", `\bmeta\b`, `\s*\w`), // Meta as standalone
	pat("netflix", `\bnetflix\b`),

	// Countries and places.
	pat("usa", `\b(usa|united\s+states|america)\b`),
	pat("china", `\bchina\b`),
	pat("russia", `\brussia\b`),
	pat("ukraine", `\bukraine\b`),
	pat("israel", `\bisrael\b`),
	pat("iran", `\biran\b`),
	pat("germany", `\bgermany\b`),
	pat("france", `\bfrance\b`),
	pat("netherlands", `\bnetherlands\b`),
	pat("norway", `\bnorway\b`),

	// Event concepts.
	pat("election", `\belection\b`),
	pat("recession", `\brecession\b`),
	pat("inflation", `\binflation\b`),
	pat("unemployment", `\bunemployment\b`),
	pat("interest rate", `\binterest\s+rate\b`),
}

// matches reports whether the pattern has at least one occurrence in text
// that is not suppressed by its exclusion.
func (p entityPattern) matches(text string) bool {
	if p.notAfter == nil {
		return p.re.MatchString(text)
	}
	for _, loc := range p.re.FindAllStringIndex(text, -1) {
		if !p.notAfter.MatchString(text[loc[1]:]) {
			return true
		}
	}
	return false
}

// ExtractEntities scans text against the curated vocabulary and returns the
// set of matching tags. Extraction is non-exclusive: a text may carry any
// number of tags.
func ExtractEntities(text string) types.StringSet {
	lower := strings.ToLower(text)
	entities := make(types.StringSet)
	for _, p := range entityTable {
		if p.matches(lower) {
			entities.Add(p.tag)
		}
	}
	return entities
}
