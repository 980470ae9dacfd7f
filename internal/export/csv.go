package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"StudioIntake/internal/intake"
)

// MinPasswordLength is the shortest password accepted for a CSV export.
const MinPasswordLength = 6

var ErrPasswordTooShort = fmt.Errorf("export: password must have at least %d characters", MinPasswordLength)

// ErrNoRecords refuses an export with nothing in it.
var ErrNoRecords = errors.New("export: não há dados para exportar")

// csvHeaders are semicolon separated so spreadsheet apps in pt-BR locales
// split columns correctly.
var csvHeaders = []string{
	"Nome",
	"CPF",
	"Telefone",
	"Data de Nascimento",
	"Instagram",
	"Status de Risco",
	"Data Cadastro",
}

// CheckPassword validates the password an admin sets for an export.
func CheckPassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// CSVFileName names an export made on day.
func CSVFileName(day time.Time) string {
	return fmt.Sprintf("contatos_clientes_%s_PROTEGIDO.csv", day.Format("02-01-2006"))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func riskLabel(r bool) string {
	if r {
		return "Com Risco"
	}
	return "Sem Risco"
}

// WriteCSV writes records as a UTF-8 CSV with a byte order mark. Timestamps
// are shown in loc.
func WriteCSV(w io.Writer, records []intake.Record, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	bw := bufio.NewWriter(w)
	bw.WriteString("\ufeff")
	bw.WriteString(strings.Join(csvHeaders, ";"))
	for _, r := range records {
		birth := ""
		if r.Client.BirthDate != "" {
			if t, err := intake.ParseBirthDate(r.Client.BirthDate); err == nil {
				birth = t.Format("02/01/2006")
			}
		}
		fields := []string{
			r.Client.Name,
			r.Client.CPF,
			r.Client.Phone,
			birth,
			r.Client.Instagram,
			riskLabel(r.HasRisk),
			r.CreatedAt.In(loc).Format("02/01/2006 15:04"),
		}
		for i, f := range fields {
			fields[i] = quote(f)
		}
		bw.WriteString("\n")
		bw.WriteString(strings.Join(fields, ";"))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: write CSV: %w", err)
	}
	return nil
}

// ExportCSV checks there is data and a password, then writes the CSV.
func ExportCSV(w io.Writer, records []intake.Record, password string, loc *time.Location) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	if err := CheckPassword(password); err != nil {
		return err
	}
	return WriteCSV(w, records, loc)
}
