package intake

import (
	"errors"
	"strings"
)

var (
	ErrNameRequired      = errors.New("preencha o campo obrigatório: nome")
	ErrPhoneRequired     = errors.New("preencha o campo obrigatório: telefone")
	ErrSignatureRequired = errors.New("adicione sua assinatura digital")
	ErrTermsNotAccepted  = errors.New("é preciso aceitar o termo de responsabilidade")
)

// ValidationError lists every problem found in a submission.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match any individual problem.
func (e *ValidationError) Unwrap() []error { return e.Problems }

// Normalize trims whitespace from the free-text client fields.
func (s *Submission) Normalize() {
	s.Client.Name = strings.TrimSpace(s.Client.Name)
	s.Client.Phone = strings.TrimSpace(s.Client.Phone)
	s.Client.CPF = strings.TrimSpace(s.Client.CPF)
	s.Client.Instagram = strings.TrimSpace(s.Client.Instagram)
	s.Client.BirthDate = strings.TrimSpace(s.Client.BirthDate)
}

// Validate checks the fields the desk refuses to store without. It returns
// nil or a *ValidationError.
func (s Submission) Validate() error {
	var problems []error
	if strings.TrimSpace(s.Client.Name) == "" {
		problems = append(problems, ErrNameRequired)
	}
	if strings.TrimSpace(s.Client.Phone) == "" {
		problems = append(problems, ErrPhoneRequired)
	}
	if len(s.Signature) == 0 {
		problems = append(problems, ErrSignatureRequired)
	}
	if !s.TermsAccepted {
		problems = append(problems, ErrTermsNotAccepted)
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
