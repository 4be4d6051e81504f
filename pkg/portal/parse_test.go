package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrade(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"8,5", 8.5, true},
		{"7.0", 7.0, true},
		{" 9,25 ", 9.25, true},
		{"APR", 0, false},
		{"", 0, false},
		{"nota: 6,8", 6.8, true},
	}

	for _, tc := range cases {
		got, ok := ParseGrade(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if ok {
			assert.InDelta(t, tc.want, got, 0.0001, "input %q", tc.in)
		}
	}
}

func TestParseSemester(t *testing.T) {
	s := ParseSemester("2024.1")
	assert.Equal(t, 2024, s.Year)
	assert.Equal(t, 1, s.Period)
	assert.Equal(t, "2024.1", s.Full)

	s = ParseSemester("Período Letivo: 2023.2 (regular)")
	assert.Equal(t, 2023, s.Year)
	assert.Equal(t, 2, s.Period)

	s = ParseSemester("verão")
	assert.Zero(t, s.Year)
	assert.Equal(t, "verão", s.Full)
}

func TestComputeGPA(t *testing.T) {
	subjects := []Subject{
		{Code: "CC01", Mark: "8,0", Credits: 4},
		{Code: "CC02", Mark: "6,0", Credits: 2},
		{Code: "CC03", Mark: "APR", Credits: 4}, // unparsable, skipped
		{Code: "CC04", Mark: "9,0", Credits: 0}, // no credits, skipped
	}

	gpa, ok := ComputeGPA(subjects)
	require.True(t, ok)
	// (8*4 + 6*2) / 6 = 44/6 = 7.33
	assert.InDelta(t, 7.33, gpa, 0.005)
}

func TestComputeGPAEmpty(t *testing.T) {
	_, ok := ComputeGPA(nil)
	assert.False(t, ok)

	_, ok = ComputeGPA([]Subject{{Mark: "APR", Credits: 4}})
	assert.False(t, ok)
}

func TestExtractStudentInfo(t *testing.T) {
	text := "Portal do Discente\nNome: Maria Clara Souza\nMatrícula: 202104940001\nCurso: Ciência da Computação\n"

	info := ExtractStudentInfo(text)
	assert.Contains(t, info.Name, "Maria Clara Souza")
	assert.Equal(t, "202104940001", info.Registration)
	assert.Contains(t, info.Program, "Ciência da Computação")
}

func TestExtractStudentInfoKeepsMultiWordValues(t *testing.T) {
	text := "Nome: Ana Beatriz de Oliveira Santos\nCurso: Engenharia da Computação - Bacharelado\nMatrícula: 202300112233\n"

	info := ExtractStudentInfo(text)
	assert.Equal(t, "Ana Beatriz de Oliveira Santos", info.Name)
	assert.Equal(t, "Engenharia da Computação - Bacharelado", info.Program)
	assert.Equal(t, "202300112233", info.Registration)
}

func TestExtractStudentInfoMissingFields(t *testing.T) {
	info := ExtractStudentInfo("página sem dados cadastrais")
	assert.True(t, info.Empty())
}

func TestValidDocumentType(t *testing.T) {
	assert.True(t, ValidDocumentType("historico_academico"))
	assert.True(t, ValidDocumentType("IRA"))
	assert.False(t, ValidDocumentType("xyz_unknown"))
}

func TestFormatSchedule(t *testing.T) {
	schedule := &Schedule{Classes: []ClassMeeting{
		{Course: "Cálculo II", Day: "Segunda", Time: "08:00-10:00", Room: "B-204"},
		{Course: "Estruturas de Dados", Day: "Quarta", Time: "10:00-12:00", Room: "Lab 3"},
	}}

	out := FormatSchedule(schedule)
	assert.Contains(t, out, "Segunda:")
	assert.Contains(t, out, "Cálculo II")
	assert.Contains(t, out, "Quarta:")
	assert.Contains(t, out, "Lab 3")

	assert.Equal(t, "Nenhum horário encontrado", FormatSchedule(nil))
}

func TestFormatTranscript(t *testing.T) {
	subjects := []Subject{
		{Code: "CC01", Name: "Algoritmos", Credits: 4, Mark: "8,0", Situation: "Aprovado", Semester: "2023.1"},
		{Code: "CC02", Name: "Cálculo I", Credits: 4, Mark: "4,0", Situation: "Reprovado", Semester: "2023.1"},
		{Code: "CC03", Name: "Lógica", Credits: 2, Mark: "9,0", Situation: "Aprovado", Semester: "2023.2"},
	}

	out := FormatTranscript(subjects)
	assert.Contains(t, out, "2023.1:")
	assert.Contains(t, out, "2023.2:")
	assert.Contains(t, out, "Total de créditos: 10")
	assert.Contains(t, out, "Créditos concluídos: 6")
	assert.Contains(t, out, "Progresso: 60.0%")

	assert.Equal(t, "Nenhum dado de histórico encontrado", FormatTranscript(nil))
}
