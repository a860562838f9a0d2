package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefix    = "<"
	choicePlaceholderSuffix    = ">"
	choiceSeparatorLiteral     = "|"
	choiceListSeparatorLiteral = " or "
	choiceUsageEmptyTemplate   = "`%s`"
	choiceUsageFullTemplate    = "`%s` %s"
	choiceDescriptionTemplate  = "%q (expected %s)"
	choiceListQuotedTemplate   = "%q"
)

// ChoiceSet is an ordered list of case-insensitive flag values.
type ChoiceSet struct {
	choices []string
}

// NewChoiceSet normalizes the provided choices, dropping blanks and duplicates.
func NewChoiceSet(choices ...string) ChoiceSet {
	normalizedChoices := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		normalizedChoice := normalizeChoice(choice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		normalizedChoices = append(normalizedChoices, normalizedChoice)
	}
	return ChoiceSet{choices: normalizedChoices}
}

// Values returns a copy of the normalized choices.
func (choiceSet ChoiceSet) Values() []string {
	return append([]string{}, choiceSet.choices...)
}

// Match returns the choice equal to value ignoring case and surrounding whitespace.
func (choiceSet ChoiceSet) Match(value string) (string, bool) {
	normalizedValue := normalizeChoice(value)
	if len(normalizedValue) == 0 {
		return "", false
	}
	for _, choice := range choiceSet.choices {
		if choice == normalizedValue {
			return choice, true
		}
	}
	return "", false
}

// Usage renders "`<a|B>` description" with the default choice upper-cased.
func (choiceSet ChoiceSet) Usage(defaultChoice string, description string) string {
	normalizedDefault := normalizeChoice(defaultChoice)
	displayed := make([]string, 0, len(choiceSet.choices))
	for _, choice := range choiceSet.choices {
		if choice == normalizedDefault {
			displayed = append(displayed, strings.ToUpper(choice))
			continue
		}
		displayed = append(displayed, choice)
	}

	placeholder := choicePlaceholderPrefix + strings.Join(displayed, choiceSeparatorLiteral) + choicePlaceholderSuffix
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// Describe renders a rejected value together with the accepted choices for error messages.
func (choiceSet ChoiceSet) Describe(rejectedValue string) string {
	quotedChoices := make([]string, 0, len(choiceSet.choices))
	for _, choice := range choiceSet.choices {
		quotedChoices = append(quotedChoices, fmt.Sprintf(choiceListQuotedTemplate, choice))
	}
	return fmt.Sprintf(choiceDescriptionTemplate, rejectedValue, strings.Join(quotedChoices, choiceListSeparatorLiteral))
}

func normalizeChoice(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
