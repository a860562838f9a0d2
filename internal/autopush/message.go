package autopush

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/temirov/autopush/internal/utils/flags"
)

const (
	dateFormatISOValueConstant                 = "iso"
	dateFormatCompactValueConstant             = "compact"
	dateLayoutISOConstant                      = "2006-01-02"
	dateLayoutCompactConstant                  = "20060102"
	defaultMessagePrefixConstant               = "update"
	wholeTreeMessageTemplateConstant           = "%s on %s"
	scopedMessageTemplateConstant              = "%s %s on %s"
	unsupportedDateFormatMessageConstant       = "unsupported date format"
	unsupportedDateFormatErrorTemplateConstant = "%w: %s"
)

// ErrUnsupportedDateFormat indicates a date format outside the recognized choices.
var ErrUnsupportedDateFormat = errors.New(unsupportedDateFormatMessageConstant)

// DateFormat selects the calendar layout embedded in commit messages.
type DateFormat string

// Recognized date formats.
const (
	DateFormatISO     DateFormat = DateFormat(dateFormatISOValueConstant)
	DateFormatCompact DateFormat = DateFormat(dateFormatCompactValueConstant)
)

var dateFormatChoiceSet = flags.NewChoiceSet(dateFormatISOValueConstant, dateFormatCompactValueConstant)

// DateFormatChoices lists the recognized date format names.
func DateFormatChoices() []string {
	return dateFormatChoiceSet.Values()
}

// DateFormatUsage renders flag usage text for the date format choices.
func DateFormatUsage(defaultFormat DateFormat, description string) string {
	return dateFormatChoiceSet.Usage(string(defaultFormat), description)
}

// ParseDateFormat converts a configuration value into a DateFormat. Matching ignores case and an empty value selects ISO.
func ParseDateFormat(value string) (DateFormat, error) {
	if len(strings.TrimSpace(value)) == 0 {
		return DateFormatISO, nil
	}
	matchedChoice, matched := dateFormatChoiceSet.Match(value)
	if !matched {
		return "", fmt.Errorf(unsupportedDateFormatErrorTemplateConstant, ErrUnsupportedDateFormat, dateFormatChoiceSet.Describe(value))
	}
	return DateFormat(matchedChoice), nil
}

// Layout returns the Go reference layout for the format; unrecognized formats use the ISO layout.
func (format DateFormat) Layout() string {
	if format == DateFormatCompact {
		return dateLayoutCompactConstant
	}
	return dateLayoutISOConstant
}

// DateFormatDecodeHook converts configuration strings into DateFormat values and rejects unknown names.
func DateFormatDecodeHook() mapstructure.DecodeHookFuncType {
	dateFormatType := reflect.TypeOf(DateFormat(""))
	return func(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
		if targetType != dateFormatType || sourceType.Kind() != reflect.String {
			return data, nil
		}
		return ParseDateFormat(reflect.ValueOf(data).String())
	}
}

// MessageBuilder composes date-stamped commit messages.
type MessageBuilder struct {
	Prefix     string
	DateFormat DateFormat
}

// Build renders "<prefix> on <date>" for the entire tree and "<prefix> <label> on <date>" for a subdirectory.
func (builder MessageBuilder) Build(scope Scope, now time.Time) string {
	prefix := strings.TrimSpace(builder.Prefix)
	if len(prefix) == 0 {
		prefix = defaultMessagePrefixConstant
	}
	formattedDate := now.Format(builder.DateFormat.Layout())
	if scope.IsAll() {
		return fmt.Sprintf(wholeTreeMessageTemplateConstant, prefix, formattedDate)
	}
	return fmt.Sprintf(scopedMessageTemplateConstant, prefix, scope.Label(), formattedDate)
}
