// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"regexp"
	"strings"

	"github.com/pdiddy/arb-engine/pkg/types"
)

type domainRule struct {
	domain types.Domain
	re     *regexp.Regexp
}

// domainRules are evaluated top to bottom; the first matching rule wins.
// Order is part of the contract: a text mentioning both "election" and
// "bitcoin" is politics because that rule comes first.
var domainRules = []domainRule{
	{types.DomainPolitics, regexp.MustCompile(`\b(election|president|presidential|trump|biden|harris|mayor|governor|senate|congress|vote|political|party|democrat|republican|prime minister)\b`)},
	{types.DomainMacro, regexp.MustCompile(`\b(federal reserve|fomc|fed|interest rate|inflation|unemployment|gdp|recession|monetary policy|basis points|bps)\b`)},
	{types.DomainCrypto, regexp.MustCompile(`\b(bitcoin|btc|ethereum|eth|crypto|blockchain|solana|sol|dogecoin|doge|defi|nft)\b`)},
	{types.DomainFinance, regexp.MustCompile(`\b(s&p|spx|nasdaq|dow|stock market|index|tesla|apple|microsoft|amazon|earnings|revenue|market cap)\b`)},
	{types.DomainTech, regexp.MustCompile(`\b(openai|gpt|ai|artificial intelligence|iphone|android|app|software|tech|google|apple|microsoft)\b`)},
	{types.DomainSports, regexp.MustCompile(`\b(nfl|nba|mlb|nhl|soccer|football|basketball|baseball|hockey|championship|super bowl|world cup|olympics)\b`)},
	{types.DomainEntertainment, regexp.MustCompile(`\b(taylor swift|album|billboard|rotten tomatoes|movie|oscar|grammy|netflix|box office|streaming)\b`)},
}

// Classify assigns exactly one coarse domain to a text. When no rule
// matches, the domain is "other".
func Classify(text string) types.Domain {
	lower := strings.ToLower(text)
	for _, rule := range domainRules {
		if rule.re.MatchString(lower) {
			return rule.domain
		}
	}
	return types.DomainOther
}
