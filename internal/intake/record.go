// Package intake holds the anamnese form model: client data, health
// answers, validation and the display/masking helpers shared by the kiosk
// and the desk.
package intake

import (
	"time"

	"github.com/google/uuid"
)

// Client is the personal-data section of the form.
type Client struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"nome"`
	BirthDate string `json:"data_nascimento,omitempty"` // YYYY-MM-DD
	CPF       string `json:"cpf,omitempty"`
	Phone     string `json:"telefone"`
	Instagram string `json:"instagram,omitempty"`
}

// Answer is a yes/no health answer. A nil Value means unanswered.
type Answer struct {
	Value   *bool  `json:"value"`
	Details string `json:"details"`
}

// Yes reports whether the question was answered affirmatively.
func (a Answer) Yes() bool { return a.Value != nil && *a.Value }

// Answered reports whether a value was chosen.
func (a Answer) Answered() bool { return a.Value != nil }

// Set records v.
func (a *Answer) Set(v bool) { a.Value = &v }

// HealthAnswers is the health-history section.
type HealthAnswers struct {
	Keloids                 Answer `json:"queloides"`
	SkinProblems            Answer `json:"problemasPele"`
	Allergies               Answer `json:"alergias"`
	Isotretinoin            Answer `json:"roacutan"`
	ChronicDiseases         Answer `json:"doencasCronicas"`
	InfectiousDiseases      Answer `json:"doencasInfecciosas"`
	PregnantOrBreastfeeding Answer `json:"gravidaAmamentando"`
}

// HasRisk reports whether any answer contraindicates tattooing without a
// review by the artist.
func (h HealthAnswers) HasRisk() bool {
	return h.Keloids.Yes() || h.Isotretinoin.Yes() || h.InfectiousDiseases.Yes()
}

// Question pairs a form prompt with its answer slot.
type Question struct {
	Key    string
	Prompt string
	Answer *Answer
}

// Questions lists the health questions in form order.
func (h *HealthAnswers) Questions() []Question {
	return []Question{
		{"queloides", "Você tem queloides ou histórico de má cicatrização?", &h.Keloids},
		{"problemasPele", "Possui problemas de pele como Psoríase ou Dermatite?", &h.SkinProblems},
		{"alergias", "Possui alergias (látex, pigmentos, medicamentos)?", &h.Allergies},
		{"roacutan", "Usou Roacutan (Isotretinoína) nos últimos 6 meses?", &h.Isotretinoin},
		{"doencasCronicas", "Tem diabetes, problemas cardíacos ou epilepsia?", &h.ChronicDiseases},
		{"doencasInfecciosas", "Possui doenças infecciosas (Hepatite, HIV)?", &h.InfectiousDiseases},
		{"gravidaAmamentando", "Está grávida ou amamentando?", &h.PregnantOrBreastfeeding},
	}
}

// ConsentTitle and ConsentClauses are the terms the client signs.
const ConsentTitle = "TERMO DE CONSENTIMENTO E RESPONSABILIDADE PARA REALIZAÇÃO DE TATUAGEM"

var ConsentClauses = []string{
	"Tenho mais de 18 anos de idade e estou em plena capacidade civil.",
	"Fui informado(a) sobre todos os procedimentos que serão realizados.",
	"Estou ciente de que a tatuagem é um procedimento permanente que envolve a inserção de pigmentos na pele.",
	"Forneci informações verdadeiras sobre meu histórico de saúde.",
	"Não estou sob efeito de álcool, drogas ou medicamentos que possam afetar minha decisão.",
	"Comprometo-me a seguir todas as instruções de cuidados pós-procedimento.",
	"Estou ciente de que podem ocorrer reações alérgicas, infecções ou complicações, mesmo com todos os cuidados adequados.",
	"Isento o tatuador de qualquer responsabilidade por reações adversas decorrentes de informações omitidas por mim.",
	"Autorizo a realização do procedimento de tatuagem de livre e espontânea vontade.",
}

// Submission is what a kiosk sends to the desk.
type Submission struct {
	Client        Client        `json:"cliente"`
	Answers       HealthAnswers `json:"respostas"`
	Signature     []byte        `json:"assinatura"` // PNG
	TermsAccepted bool          `json:"termo_aceito"`
}

// Record is a stored submission.
type Record struct {
	ID            string        `json:"id"`
	Client        Client        `json:"clientes"`
	Answers       HealthAnswers `json:"respostas"`
	SignatureFile string        `json:"url_assinatura,omitempty"`
	TermsAccepted bool          `json:"termo_aceito"`
	HasRisk       bool          `json:"tem_risco"`
	CreatedAt     time.Time     `json:"created_at"`
}

// NewRecord stamps s with fresh IDs and the risk flag. The signature bytes
// are not kept; callers store them under signatureFile.
func NewRecord(s Submission, signatureFile string, now time.Time) Record {
	c := s.Client
	c.ID = uuid.NewString()
	return Record{
		ID:            uuid.NewString(),
		Client:        c,
		Answers:       s.Answers,
		SignatureFile: signatureFile,
		TermsAccepted: s.TermsAccepted,
		HasRisk:       s.Answers.HasRisk(),
		CreatedAt:     now,
	}
}
