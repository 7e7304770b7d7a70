package zerocss

import (
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// StyleStats summarizes extracted style text for reports.
// Counting never alters the text.
type StyleStats struct {
	Rules        int // Rule blocks, nested rules included
	Declarations int // Property declarations, custom properties included
	AtRules      int // @media, @supports, ...
	Bytes        int
}

// Add accumulates other into s
func (s *StyleStats) Add(other StyleStats) {
	s.Rules += other.Rules
	s.Declarations += other.Declarations
	s.AtRules += other.AtRules
	s.Bytes += other.Bytes
}

// ComputeStyleStats counts the rules and declarations of a style document
func ComputeStyleStats(text string) StyleStats {
	stats := StyleStats{Bytes: len(text)}

	parser := css.NewParser(parse.NewInputString(text), false)
	for {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			// io.EOF at the end; anything else is malformed text we only count up to
			return stats
		case css.BeginRulesetGrammar:
			stats.Rules++
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			stats.Declarations++
		case css.AtRuleGrammar, css.BeginAtRuleGrammar:
			stats.AtRules++
		}
	}
}
