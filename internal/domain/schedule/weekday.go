package schedule

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Weekday is a canonical scheduled-day token. The week runs Monday to Sunday with
// no wraparound.
type Weekday string

const (
	Monday    Weekday = "SEGUNDA"
	Tuesday   Weekday = "TERÇA"
	Wednesday Weekday = "QUARTA"
	Thursday  Weekday = "QUINTA"
	Friday    Weekday = "SEXTA"
	Saturday  Weekday = "SÁBADO"
	Sunday    Weekday = "DOMINGO"
)

// Weekdays lists the canonical tokens in week order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index returns the position of d in the week, or -1 for a non-canonical token.
func (d Weekday) Index() int {
	for i, w := range Weekdays {
		if w == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the seven canonical tokens.
func (d Weekday) Valid() bool {
	return d.Index() >= 0
}

// dayNames match as a prefix of a word, so "SEGUNDAFEIRA" and "Tuesday's"
// still resolve.
var dayNames = []struct {
	name string
	day  Weekday
}{
	{"SEGUNDA", Monday},
	{"TERCA", Tuesday},
	{"QUARTA", Wednesday},
	{"QUINTA", Thursday},
	{"SEXTA", Friday},
	{"SABADO", Saturday},
	{"DOMINGO", Sunday},
	{"MONDAY", Monday},
	{"TUESDAY", Tuesday},
	{"WEDNESDAY", Wednesday},
	{"THURSDAY", Thursday},
	{"FRIDAY", Friday},
	{"SATURDAY", Saturday},
	{"SUNDAY", Sunday},
}

// dayAbbrevs only match a whole word.
var dayAbbrevs = map[string]Weekday{
	"SEG":   Monday,
	"TER":   Tuesday,
	"QUA":   Wednesday,
	"QUART": Wednesday,
	"QUI":   Thursday,
	"QUINT": Thursday,
	"SEX":   Friday,
	"SAB":   Saturday,
	"DOM":   Sunday,
	"MON":   Monday,
	"TUE":   Tuesday,
	"TUES":  Tuesday,
	"WED":   Wednesday,
	"THU":   Thursday,
	"THUR":  Thursday,
	"THURS": Thursday,
	"FRI":   Friday,
	"SAT":   Saturday,
	"SUN":   Sunday,
}

// NormalizeDay maps a free-text day label to its canonical token. Matching is
// case- and accent-insensitive and works word by word, so "Terça-feira",
// "3ª TERCA", "QUI." and "tuesday" all resolve. The first word that names a
// day wins.
func NormalizeDay(label string) (Weekday, bool) {
	words := strings.FieldsFunc(foldLabel(label), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if day, ok := matchDayWord(w); ok {
			return day, true
		}
	}
	return "", false
}

func matchDayWord(word string) (Weekday, bool) {
	if day, ok := dayAbbrevs[word]; ok {
		return day, true
	}
	for _, n := range dayNames {
		if strings.HasPrefix(word, n.name) {
			return n.day, true
		}
	}
	return ordinalDay(word)
}

// ordinalDay reads the "2ª" to "6ª" shorthand, where 2ª is Monday.
func ordinalDay(word string) (Weekday, bool) {
	r := []rune(word)
	if len(r) != 2 || r[1] != 'ª' || r[0] < '2' || r[0] > '6' {
		return "", false
	}
	return Weekdays[r[0]-'2'], true
}

func foldLabel(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, label)
	if err != nil {
		folded = label
	}
	return strings.ToUpper(strings.TrimSpace(folded))
}
