package compress

import (
	"path/filepath"
	"strings"
)

// OutputName expands format with %s (stem), %e (extension without dot) and %% (literal %).
// Unknown specifiers expand to nothing and a trailing lone % is dropped.
func OutputName(format, stem, ext string) string {
	var b strings.Builder
	b.Grow(len(format) + len(stem) + len(ext))

	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '%' {
			b.WriteRune(c)
			continue
		}
		if i+1 >= len(runes) {
			break
		}
		i++
		switch runes[i] {
		case 's':
			b.WriteString(stem)
		case 'e':
			b.WriteString(ext)
		case '%':
			b.WriteByte('%')
		}
	}

	return b.String()
}

// splitName returns the file stem and the extension without its dot.
func splitName(path string) (stem, ext string) {
	base := filepath.Base(path)
	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 {
		return base, ""
	}
	return base[:dot], base[dot+1:]
}
