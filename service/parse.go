package service

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"finplan-agent/domain"
)

// AmountKind describes how a free-text money expression was understood.
type AmountKind int

const (
	AmountUnparsed AmountKind = iota
	AmountAbsolute
	AmountPercent
	AmountEmiFree
)

// ParsedAmount is the result of reading a money expression from a user
// message. Percent values carry the raw percentage, not a fraction.
type ParsedAmount struct {
	Kind  AmountKind
	Value decimal.Decimal
}

var (
	percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|percent|per\s*cent)`)
	lakhRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:lakh|lakhs|lac|lacs)`)
	croreRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:crore|crores|cr)\b`)
	kSuffixRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*k\b`)
	numberRe  = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

	emiFreePhrases = []string{
		"without emi", "no emi", "full payment", "pay in full",
		"pay fully", "one shot", "outright",
	}
)

// ParseAmount extracts a money expression from a message. Percent forms
// win over absolute forms so "save 20% of my income" is not read as 20
// rupees. Indian compact notations (k, lakh, crore) are expanded.
func ParseAmount(message string) ParsedAmount {
	text := strings.ToLower(message)

	for _, phrase := range emiFreePhrases {
		if strings.Contains(text, phrase) {
			return ParsedAmount{Kind: AmountEmiFree}
		}
	}

	if m := percentRe.FindStringSubmatch(text); m != nil {
		if v, err := decimal.NewFromString(m[1]); err == nil {
			return ParsedAmount{Kind: AmountPercent, Value: v}
		}
	}
	if m := croreRe.FindStringSubmatch(text); m != nil {
		if v, err := decimal.NewFromString(m[1]); err == nil {
			return ParsedAmount{Kind: AmountAbsolute, Value: v.Mul(decimal.NewFromInt(10000000))}
		}
	}
	if m := lakhRe.FindStringSubmatch(text); m != nil {
		if v, err := decimal.NewFromString(m[1]); err == nil {
			return ParsedAmount{Kind: AmountAbsolute, Value: v.Mul(decimal.NewFromInt(100000))}
		}
	}
	if m := kSuffixRe.FindStringSubmatch(text); m != nil {
		if v, err := decimal.NewFromString(m[1]); err == nil {
			return ParsedAmount{Kind: AmountAbsolute, Value: v.Mul(decimal.NewFromInt(1000))}
		}
	}
	if m := numberRe.FindString(text); m != "" {
		raw := strings.ReplaceAll(m, ",", "")
		if v, err := decimal.NewFromString(raw); err == nil {
			return ParsedAmount{Kind: AmountAbsolute, Value: v}
		}
	}
	return ParsedAmount{Kind: AmountUnparsed}
}

var (
	modDownRe   = regexp.MustCompile(`(?:downpayment|down\s*payment|dp)\s*(?:to|of|=|:)?\s*(\d+(?:\.\d+)?)\s*%?`)
	modTenureRe = regexp.MustCompile(`(?:tenure|term|duration)\s*(?:to|of|=|:)?\s*(\d+)\s*(?:months?|mo)?`)
	modRateRe   = regexp.MustCompile(`(?:rate|interest)\s*(?:to|of|=|:)?\s*(\d+(?:\.\d+)?)\s*%?`)
)

// ParsePlanChanges reads requested plan field changes from a message.
// It recognizes downpayment percent, tenure in months and interest rate;
// anything absent stays nil.
func ParsePlanChanges(message string) domain.PlanChanges {
	text := strings.ToLower(message)
	var ch domain.PlanChanges

	if m := modDownRe.FindStringSubmatch(text); m != nil {
		if v, err := decimal.NewFromString(m[1]); err == nil {
			ch.DownpaymentPercent = &v
		}
	}
	if m := modTenureRe.FindStringSubmatch(text); m != nil {
		if v, err := decimal.NewFromString(m[1]); err == nil {
			n := int(v.IntPart())
			ch.TenureMonths = &n
		}
	}
	if m := modRateRe.FindStringSubmatch(text); m != nil {
		if v, err := decimal.NewFromString(m[1]); err == nil {
			ch.RatePercent = &v
		}
	}
	return ch
}

var planIndexRe = regexp.MustCompile(`plan\s*(?:#|no\.?|number)?\s*(\d+)`)

// ParsePlanIndex reads a 1-based plan index ("save plan 2"). Returns 0
// when no index is present.
func ParsePlanIndex(message string) int {
	m := planIndexRe.FindStringSubmatch(strings.ToLower(message))
	if m == nil {
		return 0
	}
	v, err := decimal.NewFromString(m[1])
	if err != nil {
		return 0
	}
	return int(v.IntPart())
}

var planIDRe = regexp.MustCompile(`plan[_\s]?(\d+)`)

// ParsePlanID reads a persisted plan id. Both the canonical "plan_3" and
// the spoken "plan 3" resolve to the stored form.
func ParsePlanID(message string) string {
	m := planIDRe.FindStringSubmatch(strings.ToLower(message))
	if m == nil {
		return ""
	}
	return "plan_" + m[1]
}
