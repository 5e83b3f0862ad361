package session

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Device names Windows refuses to use as regular files.
var windowsDeviceNames = map[string]bool{
	"CON": true, "AUX": true, "COM1": true, "COM2": true, "COM3": true,
	"COM4": true, "LPT1": true, "LPT2": true, "LPT3": true, "PRN": true, "NUL": true,
}

// SafeFilename reduces a client supplied file name to a flat ASCII name
// that is safe to join to a directory. Accents are dropped ("Descrição.xlsx"
// becomes "Descricao.xlsx"), path separators and whitespace become
// underscores and leading or trailing dots and underscores are stripped.
// The result may be empty.
func SafeFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r > unicode.MaxASCII || unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	s := strings.NewReplacer("/", " ", "\\", " ").Replace(b.String())
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "._")

	base, _, _ := strings.Cut(s, ".")
	if windowsDeviceNames[strings.ToUpper(base)] {
		s = "_" + s
	}
	return s
}
