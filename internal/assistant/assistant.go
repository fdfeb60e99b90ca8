// Package assistant implementa el proxy del asistente de chat sobre el
// API de Gemini con una instrucción de sistema fija.
package assistant

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const systemPrompt = `Eres el asistente de Pulso Azul, una aplicación para
coordinar equipos de cuidado (padres, maestras sombra y terapeutas) en
torno al progreso de un niño. Respondes en el idioma del usuario, con
orientación práctica sobre registros diarios, metas de desarrollo y
comunicación del equipo. No das diagnósticos médicos; ante dudas
clínicas recomiendas consultar al terapeuta del equipo. Sé breve.`

// Service encapsula el cliente de Gemini y el modelo configurado.
type Service struct {
	client *genai.Client
	model  string
}

// New crea el cliente de Gemini con la clave de API configurada.
func New(ctx context.Context, apiKey, model string) (*Service, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create assistant client: %w", err)
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Service{client: client, model: model}, nil
}

// Generate reenvía el prompt del usuario al modelo con la instrucción de
// sistema fija y devuelve el texto generado.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "assistant.Generate"

	model := s.client.GenerativeModel(s.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%s: empty response", op)
	}
	return fmt.Sprintf("%v", res.Candidates[0].Content.Parts[0]), nil
}

// Close libera el cliente subyacente.
func (s *Service) Close() error {
	return s.client.Close()
}
