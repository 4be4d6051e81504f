package portal

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	gradeCleanRe   = regexp.MustCompile(`[^\d,.]`)
	semesterRe     = regexp.MustCompile(`(\d{4})\.(\d)`)
	registrationRe = regexp.MustCompile(`(?i)Matrícula[:\s]*(\d+)`)
	// Values run to the end of the line; the capture classes accept
	// any letter so multi-word capitalized names survive intact.
	programRe = regexp.MustCompile(`(?i:Curso)[:\s]*(\p{Lu}[\p{L} \t\-]+)`)

	nameRes = []*regexp.Regexp{
		regexp.MustCompile(`Nome[:\s]*(\p{Lu}[\p{L} \t]+)`),
		regexp.MustCompile(`Aluno[:\s]*(\p{Lu}[\p{L} \t]+)`),
	}
)

// ParseGrade converts a scraped grade string to a number. The portal
// uses comma as the decimal separator.
func ParseGrade(text string) (float64, bool) {
	clean := gradeCleanRe.ReplaceAllString(text, "")
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ParseSemester parses an academic period like "2024.1". Unrecognized
// input is preserved verbatim in Full.
func ParseSemester(text string) Semester {
	match := semesterRe.FindStringSubmatch(text)
	if match == nil {
		return Semester{Full: text}
	}
	year, _ := strconv.Atoi(match[1])
	period, _ := strconv.Atoi(match[2])
	return Semester{
		Year:   year,
		Period: period,
		Full:   fmt.Sprintf("%d.%d", year, period),
	}
}

// ComputeGPA returns the credit-weighted grade average over the given
// transcript rows, ignoring rows without a parsable grade or credits.
func ComputeGPA(subjects []Subject) (float64, bool) {
	var totalPoints float64
	var totalCredits int

	for _, s := range subjects {
		grade, ok := ParseGrade(s.Mark)
		if !ok || s.Credits <= 0 {
			continue
		}
		totalPoints += grade * float64(s.Credits)
		totalCredits += s.Credits
	}

	if totalCredits == 0 {
		return 0, false
	}
	// Two decimal places, matching the portal's own display.
	return float64(int(totalPoints/float64(totalCredits)*100+0.5)) / 100, true
}

// ExtractStudentInfo scrapes name, registration and program from page
// text. Best-effort; missing fields stay empty.
func ExtractStudentInfo(pageText string) UserInfo {
	info := UserInfo{}

	if match := registrationRe.FindStringSubmatch(pageText); match != nil {
		info.Registration = match[1]
	}
	for _, re := range nameRes {
		if match := re.FindStringSubmatch(pageText); match != nil {
			info.Name = strings.TrimSpace(match[1])
			break
		}
	}
	if match := programRe.FindStringSubmatch(pageText); match != nil {
		info.Program = strings.TrimSpace(match[1])
	}

	return info
}

// validDocumentTypes are the document tokens known to the portal.
var validDocumentTypes = map[string]bool{
	"historico_academico":   true,
	"comprovante_matricula": true,
	"atestado_matricula":    true,
	"diploma":               true,
	"certificado":           true,
	"ira":                   true,
	"comprovante_conclusao": true,
}

// ValidDocumentType reports whether the token is a known document type.
// Unknown tokens are still accepted by FetchDocument (passthrough), so
// this is advisory.
func ValidDocumentType(docType string) bool {
	return validDocumentTypes[strings.ToLower(docType)]
}

var weekdayOrder = []string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"}

// FormatSchedule renders a schedule as readable text grouped by weekday.
func FormatSchedule(schedule *Schedule) string {
	if schedule == nil || len(schedule.Classes) == 0 {
		return "Nenhum horário encontrado"
	}

	var b strings.Builder
	b.WriteString("HORÁRIO DE AULAS\n\n")

	for _, day := range weekdayOrder {
		var section strings.Builder
		for _, c := range schedule.Classes {
			if !strings.Contains(strings.ToLower(c.Day), strings.ToLower(day)) {
				continue
			}
			section.WriteString(fmt.Sprintf("  • %s - %s - Sala: %s\n",
				orDefault(c.Course), orDefault(c.Time), orDefault(c.Room)))
		}
		if section.Len() > 0 {
			b.WriteString(day + ":\n")
			b.WriteString(section.String())
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatTranscript renders transcript rows grouped by period with a
// credits summary.
func FormatTranscript(subjects []Subject) string {
	if len(subjects) == 0 {
		return "Nenhum dado de histórico encontrado"
	}

	periods := map[string][]Subject{}
	for _, s := range subjects {
		period := s.Semester
		if period == "" {
			period = "Não informado"
		}
		periods[period] = append(periods[period], s)
	}

	keys := make([]string, 0, len(periods))
	for k := range periods {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("HISTÓRICO ACADÊMICO\n\n")

	totalCredits := 0
	completedCredits := 0

	for _, period := range keys {
		b.WriteString(period + ":\n")
		for _, s := range periods[period] {
			b.WriteString(fmt.Sprintf("  • %s - %s\n", s.Code, s.Name))
			b.WriteString(fmt.Sprintf("    Créditos: %d | Nota: %s | Situação: %s\n",
				s.Credits, orDefault(s.Mark), orDefault(s.Situation)))

			totalCredits += s.Credits
			if isApproved(s.Situation) {
				completedCredits += s.Credits
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("RESUMO:\n")
	b.WriteString(fmt.Sprintf("• Total de créditos: %d\n", totalCredits))
	b.WriteString(fmt.Sprintf("• Créditos concluídos: %d\n", completedCredits))
	if totalCredits > 0 {
		progress := float64(completedCredits) / float64(totalCredits) * 100
		b.WriteString(fmt.Sprintf("• Progresso: %.1f%%\n", progress))
	}

	return strings.TrimRight(b.String(), "\n")
}

func isApproved(situation string) bool {
	switch strings.ToLower(situation) {
	case "aprovado", "aprovada":
		return true
	}
	return false
}

func orDefault(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
