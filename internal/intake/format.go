package intake

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCPF applies the 000.000.000-00 mask to whatever digits have been
// typed so far, dropping anything past eleven digits.
func FormatCPF(v string) string {
	d := digits(v)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + "." + d[3:]
	case len(d) <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
}

// FormatPhone applies the (00) 00000-0000 mask progressively.
func FormatPhone(v string) string {
	d := digits(v)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 7:
		return "(" + d[:2] + ") " + d[2:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// MaskCPF hides all but the middle block: 123.456.789-01 becomes
// ***.456.***-**. Values that are not eleven digits are returned as is.
func MaskCPF(cpf string) string {
	if cpf == "" {
		return "-"
	}
	d := digits(cpf)
	if len(d) != 11 {
		return cpf
	}
	return "***." + d[3:6] + ".***-**"
}

var formattedPhone = regexp.MustCompile(`(\(\d{2}\)\s?\d{4,5})-(\d{4})`)

// MaskPhone hides the last four digits of a phone number.
func MaskPhone(phone string) string {
	if phone == "" {
		return "-"
	}
	if m := formattedPhone.FindStringSubmatch(phone); m != nil {
		return m[1] + "-****"
	}
	d := digits(phone)
	if len(d) >= 10 {
		return fmt.Sprintf("(%s) %s-****", d[:2], d[2:len(d)-4])
	}
	return phone
}

var unsafeFileRune = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeName strips accents and replaces anything outside [a-zA-Z0-9]
// with an underscore, lower-cased.
func SanitizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return strings.ToLower(unsafeFileRune.ReplaceAllString(stripped, "_"))
}

// SignatureFileName names the stored signature image for a client.
func SignatureFileName(name string, at time.Time) string {
	return fmt.Sprintf("assinatura_%d_%s.png", at.UnixMilli(), SanitizeName(name))
}

// ParseBirthDate accepts YYYY-MM-DD or DD/MM/YYYY.
func ParseBirthDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("intake: invalid birth date %q", s)
}
