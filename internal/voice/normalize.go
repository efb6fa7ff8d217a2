// Package voice turns speech transcripts into chart values behind an
// explicit confirmation step.
package voice

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// maxWholeDigits is the longest digit run kept as one number. Longer runs
// come from a recognizer gluing readings together ("543" is 5, 4, 3).
// Values up to 99 stay whole so out-of-range readings get flagged instead
// of shifting the following sites.
const maxWholeDigits = 2

var englishNumbers = map[string]int{
	"zero": 0, "oh": 0,
	"one": 1, "won": 1,
	"two": 2, "to": 2, "too": 2,
	"three": 3, "tree": 3,
	"four": 4, "for": 4, "fore": 4,
	"five": 5,
	"six": 6,
	"seven": 7,
	"eight": 8, "ate": 8,
	"nine": 9,
	"ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var englishSigns = map[string]bool{"minus": true, "negative": true}

const thaiTen = 10

// thaiWord is one entry of the Thai numeral vocabulary. sign marks the
// word for "minus".
type thaiWord struct {
	text  string
	value int
	sign  bool
}

// thaiWords is matched longest first against unspaced Thai text.
var thaiWords = []thaiWord{
	{text: "ติดลบ", sign: true},
	{text: "ศูนย์", value: 0},
	{text: "หนึ่ง", value: 1},
	{text: "เอ็ด", value: 1},
	{text: "สอง", value: 2},
	{text: "สาม", value: 3},
	{text: "สี่", value: 4},
	{text: "ห้า", value: 5},
	{text: "หก", value: 6},
	{text: "เจ็ด", value: 7},
	{text: "แปด", value: 8},
	{text: "เก้า", value: 9},
	{text: "สิบ", value: thaiTen},
	{text: "ลบ", sign: true},
}

func init() {
	// Longest match first, so "ติดลบ" wins over "ลบ".
	for i := 1; i < len(thaiWords); i++ {
		for j := i; j > 0 && len(thaiWords[j].text) > len(thaiWords[j-1].text); j-- {
			thaiWords[j], thaiWords[j-1] = thaiWords[j-1], thaiWords[j]
		}
	}
}

// normalizeText folds case and composes Unicode so lookups are stable.
// Casers keep state, so each call gets its own.
func normalizeText(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// Normalize extracts the signed integers spoken in a transcript. It reads
// ASCII and Thai digits, English number words with common homophones, and
// Thai number words. Anything else is skipped.
func Normalize(transcript string) []int {
	p := &numberParser{}
	for _, tok := range tokenize(normalizeText(transcript)) {
		p.token(tok)
	}
	return p.out
}

type numberParser struct {
	out      []int
	negative bool
}

func (p *numberParser) emit(v int) {
	if p.negative {
		v = -v
		p.negative = false
	}
	p.out = append(p.out, v)
}

// emitDigits keeps one- and two-digit numbers whole and splits longer runs.
func (p *numberParser) emitDigits(digits string) {
	if len(digits) <= maxWholeDigits {
		v, err := strconv.Atoi(digits)
		if err != nil {
			return
		}
		p.emit(v)
		return
	}
	for _, r := range digits {
		p.emit(int(r - '0'))
	}
}

// token reads one whitespace-delimited token. A dash is a sign only at the
// start of a token; inside one ("5-4-3") it separates values.
func (p *numberParser) token(tok string) {
	for i, run := range splitRuns(tok) {
		switch run.kind {
		case runDigits:
			p.emitDigits(run.text)
		case runSign:
			if i == 0 {
				p.negative = true
			}
		case runLatin:
			if englishSigns[run.text] {
				p.negative = true
			} else if v, ok := englishNumbers[run.text]; ok {
				p.emit(v)
			}
		case runThai:
			p.thai(run.text)
		}
	}
}

// thai scans unspaced Thai text. "สิบ" followed by a unit reads as a teen
// (สิบเอ็ด = 11, สิบหก = 16).
func (p *numberParser) thai(s string) {
	var words []thaiWord
	for len(s) > 0 {
		matched := false
		for _, w := range thaiWords {
			if strings.HasPrefix(s, w.text) {
				words = append(words, w)
				s = s[len(w.text):]
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(s)
			s = s[size:]
		}
	}

	for i := 0; i < len(words); i++ {
		w := words[i]
		if w.sign {
			p.negative = true
			continue
		}
		if w.value == thaiTen && i+1 < len(words) {
			next := words[i+1]
			if !next.sign && next.value >= 1 && next.value < thaiTen {
				p.emit(thaiTen + next.value)
				i++
				continue
			}
		}
		p.emit(w.value)
	}
}

type runKind int

const (
	runDigits runKind = iota
	runSign
	runLatin
	runThai
	runOther
)

type run struct {
	kind runKind
	text string
}

func classify(r rune) runKind {
	switch {
	case r >= '0' && r <= '9':
		return runDigits
	case r == '-':
		return runSign
	case r >= 'a' && r <= 'z':
		return runLatin
	case unicode.Is(unicode.Thai, r):
		return runThai
	default:
		return runOther
	}
}

// splitRuns cuts a token into runs of one script, so "5mm" gives 5 and
// "ห้า5" gives 5 and 5.
func splitRuns(tok string) []run {
	var runs []run
	var cur strings.Builder
	kind := runOther
	flush := func() {
		if cur.Len() > 0 && kind != runOther {
			runs = append(runs, run{kind: kind, text: cur.String()})
		}
		cur.Reset()
	}
	for _, r := range tok {
		k := classify(r)
		if k != kind || k == runSign {
			flush()
			kind = k
		}
		cur.WriteRune(r)
	}
	flush()
	return runs
}

// tokenize maps Thai digits to ASCII and splits on anything that is not a
// letter, digit, sign or Thai character.
func tokenize(s string) []string {
	s = strings.Map(func(r rune) rune {
		if r >= '๐' && r <= '๙' {
			return '0' + (r - '๐')
		}
		return r
	}, s)
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || unicode.Is(unicode.Thai, r))
	})
}

