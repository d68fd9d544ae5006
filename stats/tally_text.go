package stats

import (
	"strconv"
	"strings"

	"github.com/hyp3rd/ewrap"
)

// Text form: (count,min,max,sum,mean,stddev)
const tallyFields = 6

const emptyText = "(0,NaN,NaN,0,NaN,NaN)"

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// String writes the tally as (count,min,max,sum,mean,stddev). Floats use the
// shortest representation that parses back to the same value.
func (tally Tally) String() string {
	var builder strings.Builder
	builder.WriteByte('(')
	builder.WriteString(strconv.FormatUint(tally.count, 10))
	for _, value := range [...]float64{
		tally.Min(), tally.Max(), tally.sum, tally.Mean(), tally.StdDev(),
	} {
		builder.WriteByte(',')
		builder.WriteString(formatFloat(value))
	}
	builder.WriteByte(')')
	return builder.String()
}

func (tally Tally) MarshalText() ([]byte, error) {
	return []byte(tally.String()), nil
}

// UnmarshalText replaces the tally with the parsed text. On error the
// receiver is left untouched.
func (tally *Tally) UnmarshalText(text []byte) error {
	parsed, err := ParseTally(string(text))
	if err != nil {
		return err
	}
	*tally = parsed
	return nil
}

// ParseTally parses the output of Tally.String. Whitespace around the whole
// text is ignored. Every field must be written exactly as String writes it, so
// hex floats, a leading '+' on finite numbers, or "inf" are rejected, and so
// are field values no tally can hold: an empty tally with non-empty fields,
// min above max, or a negative standard deviation.
func ParseTally(text string) (Tally, error) {
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '(' || text[len(text)-1] != ')' {
		return Tally{}, ewrap.Wrapf(ErrMalformedTally, "%q: expected parentheses", text)
	}

	fields := strings.Split(text[1:len(text)-1], ",")
	if len(fields) != tallyFields {
		return Tally{}, ewrap.Wrapf(ErrMalformedTally, "%q: expected %d fields, got %d",
			text, tallyFields, len(fields))
	}

	count, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil || strconv.FormatUint(count, 10) != fields[0] {
		return Tally{}, ewrap.Wrapf(ErrMalformedTally, "%q: count %q", text, fields[0])
	}

	var values [tallyFields - 1]float64
	for i, field := range fields[1:] {
		values[i], err = strconv.ParseFloat(field, 64)
		if err != nil || formatFloat(values[i]) != field {
			return Tally{}, ewrap.Wrapf(ErrMalformedTally, "%q: field %d %q", text, i+2, field)
		}
	}

	if count == 0 {
		if text != emptyText {
			return Tally{}, ewrap.Wrapf(ErrMalformedTally, "%q: empty tally must read %s", text, emptyText)
		}
		return NewTally(), nil
	}

	minimum, maximum, stddev := values[0], values[1], values[4]
	if minimum > maximum {
		return Tally{}, ewrap.Wrapf(ErrMalformedTally, "%q: min above max", text)
	}
	if stddev < 0 {
		return Tally{}, ewrap.Wrapf(ErrMalformedTally, "%q: negative stddev", text)
	}

	return Tally{
		count:  count,
		min:    minimum,
		max:    maximum,
		sum:    values[2],
		mean:   values[3],
		m2:     stddev * stddev * float64(count),
		stddev: stddev,
	}, nil
}
