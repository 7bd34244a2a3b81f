package dogstatsd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// metricKind is the wire type suffix of a metric line.
type metricKind string

const (
	kindCounter   metricKind = "c"
	kindGauge     metricKind = "g"
	kindHistogram metricKind = "h"
	kindTimer     metricKind = "ms"
)

var (
	// ErrInvalidName is returned when a metric name contains a protocol
	// delimiter.
	ErrInvalidName = errors.New("metric name contains a protocol delimiter")

	// ErrInvalidTag is returned when a tag contains a protocol delimiter.
	ErrInvalidTag = errors.New("tag contains a protocol delimiter")
)

const (
	nameDelimiters = ":|,\n"
	tagDelimiters  = "|,\n"
)

// lineFormatter renders single protocol records using the client's
// prefix and constant tags. It holds no mutable state; rendering is a
// pure function of its inputs.
type lineFormatter struct {
	prefix       string // includes the trailing dot when set
	constantTags []string
}

func newLineFormatter(prefix string, constantTags []string) lineFormatter {
	if prefix != "" {
		prefix += "."
	}
	return lineFormatter{
		prefix:       prefix,
		constantTags: constantTags,
	}
}

// metric renders `<prefix.>name:<value>|<kind>[|#tags]`.
func (f lineFormatter) metric(name string, value float64, kind metricKind, tags []string) (string, error) {
	if err := f.validate(name, tags); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(f.prefix)
	b.WriteString(name)
	b.WriteByte(':')
	b.WriteString(formatValue(value))
	b.WriteByte('|')
	b.WriteString(string(kind))
	f.appendTags(&b, tags)
	return b.String(), nil
}

// sampledMetric renders a counter carrying its sample rate:
// `<prefix.>name:<value>|c|@<rate>[|#tags]`.
func (f lineFormatter) sampledMetric(name string, value, rate float64, tags []string) (string, error) {
	if err := f.validate(name, tags); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(f.prefix)
	b.WriteString(name)
	b.WriteByte(':')
	b.WriteString(formatValue(value))
	b.WriteString("|c|@")
	b.WriteString(formatValue(rate))
	f.appendTags(&b, tags)
	return b.String(), nil
}

// event renders `_e{<title-len>,<text-len>}:<title>|<text>[|t:<alert>][|#tags]`.
// Lengths are byte lengths. The default info alert type is not written
// on the wire.
func (f lineFormatter) event(title, text string, alert AlertType, tags []string) (string, error) {
	if err := validateTags(tags); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "_e{%d,%d}:%s|%s", len(title), len(text), title, text)
	if alert != "" && alert != AlertInfo {
		b.WriteString("|t:")
		b.WriteString(string(alert))
	}
	f.appendTags(&b, tags)
	return b.String(), nil
}

// serviceCheck renders `_sc|<name>|<status>[|#tags]`.
func (f lineFormatter) serviceCheck(name string, status ServiceCheckStatus, tags []string) (string, error) {
	if err := f.validate(name, tags); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("_sc|")
	b.WriteString(name)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(int(status)))
	f.appendTags(&b, tags)
	return b.String(), nil
}

// appendTags writes `|#constant,call-site` when any tags are present.
// Constant tags always come first.
func (f lineFormatter) appendTags(b *strings.Builder, tags []string) {
	if len(f.constantTags) == 0 && len(tags) == 0 {
		return
	}

	b.WriteString("|#")
	for i, tag := range f.constantTags {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(tag)
	}
	for i, tag := range tags {
		if i > 0 || len(f.constantTags) > 0 {
			b.WriteByte(',')
		}
		b.WriteString(tag)
	}
}

// validate rejects names and tags that would collide with the protocol
// delimiters. Invalid input is surfaced to the caller, never silently
// rewritten.
func (f lineFormatter) validate(name string, tags []string) error {
	if strings.ContainsAny(name, nameDelimiters) {
		return fmt.Errorf("metric %q: %w", name, ErrInvalidName)
	}
	return validateTags(tags)
}

func validateTags(tags []string) error {
	for _, tag := range tags {
		if strings.ContainsAny(tag, tagDelimiters) {
			return fmt.Errorf("tag %q: %w", tag, ErrInvalidTag)
		}
	}
	return nil
}

// formatValue renders a number the way the agent expects: plain decimal
// notation with no trailing zeros, so 5.0 becomes "5".
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
