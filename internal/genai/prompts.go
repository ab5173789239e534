package genai

import (
	"fmt"

	"github.com/profedug/GabaritaIF/internal/portal"
)

func sourceRule(mix portal.SourceMix) string {
	switch mix {
	case portal.SourceMixAIOnly:
		return "Escreva questões originais de nível técnico/médio."
	case portal.SourceMixEntrance:
		return "Siga o padrão de provas reais de ingresso nos Institutos Federais e do ENEM, informando a origem em originInfo."
	default:
		return "Misture questões originais com o estilo tradicional dos exames de ingresso dos IFs."
	}
}

func questionsPrompt(req GenerateRequest) string {
	return fmt.Sprintf(`Você prepara alunos para os exames de ingresso dos Institutos Federais (IFs).
Não faça referência à BNCC; use o conteúdo tradicional de ingresso.

Gere %d questões de múltipla escolha.
Público: %s.
Assunto: "%s".
Dificuldade: %s.
Cada questão deve ter exatamente %d alternativas e correctAnswer é o índice (a partir de 0) da alternativa correta.

Estilo: %s
Responda somente com um array JSON.`,
		req.Count, req.Audience, req.Topic, req.Difficulty, req.OptionCount, sourceRule(req.SourceMix))
}

func feedbackPrompt(studentName string, sim portal.Simulation, resp portal.StudentResponse) string {
	return fmt.Sprintf(`Escreva um parágrafo de feedback pedagógico para o aluno %s, que se prepara para um Instituto Federal.
Ele acertou %d de %d questões em "%s".
Seja direto, técnico e motivador. Não mencione a BNCC.`,
		studentName, resp.Score, len(sim.Questions), sim.Title)
}

func recommendPrompt(req RecommendRequest) string {
	status := "SATISFATÓRIO"
	if req.LowPerformance {
		status = "CRÍTICO"
	}
	return fmt.Sprintf(`Atue como consultor pedagógico de preparação para IFs.
Tema: "%s". Média: %.1f/%d. Alunos: %d. Desempenho geral: %s.
Dê um conselho técnico e curto ao professor. Não mencione a BNCC.`,
		req.Topic, req.AverageScore, req.TotalQuestions, req.TotalStudents, status)
}
