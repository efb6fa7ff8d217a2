package voice

import "strings"

// Command is a control word found in a transcript.
type Command int

const (
	None Command = iota
	Confirm
	Cancel
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case Confirm:
		return "confirm"
	case Cancel:
		return "cancel"
	default:
		return "none"
	}
}

var (
	confirmWords = []string{"ok", "okay", "confirm", "yes", "correct", "ตกลง", "โอเค", "ใช่", "ถูกต้อง"}
	cancelWords  = []string{"cancel", "no", "wrong", "clear", "ยกเลิก", "ไม่ใช่", "ไม่"}
)

// ParseCommand looks for a confirm or cancel keyword. Cancel is checked
// first because "ไม่ใช่" contains "ใช่". English words must stand alone;
// Thai is written without spaces and is matched as a substring.
func ParseCommand(transcript string) Command {
	text := normalizeText(transcript)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	if matches(text, words, cancelWords) {
		return Cancel
	}
	if matches(text, words, confirmWords) {
		return Confirm
	}
	return None
}

func matches(text string, words, vocabulary []string) bool {
	for _, v := range vocabulary {
		if v[0] >= 'a' && v[0] <= 'z' {
			for _, w := range words {
				if w == v {
					return true
				}
			}
			continue
		}
		if strings.Contains(text, v) {
			return true
		}
	}
	return false
}
