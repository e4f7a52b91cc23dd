package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/puri-adityakumar/yellow-ai/internal/config"
	"github.com/puri-adityakumar/yellow-ai/internal/store"
)

const (
	titleModelName = "gemini-2.5-flash"

	titleSystemInstruction = "You are a helpful assistant that generates concise titles for chat conversations. " +
		"The title should be 3-5 words maximum. Just return the title itself, nothing else."
)

// GenerationOptions is the per-chat generation policy, derived from the
// owning project's settings or from the configured fallbacks when the chat
// is unassigned.
type GenerationOptions struct {
	Model        string
	SystemPrompt string
	SafetyLevel  string
}

// Generator produces model replies and chat titles. ChatService depends on
// this interface rather than on the Gemini client directly.
type Generator interface {
	Reply(ctx context.Context, history []store.Message, opts GenerationOptions) (string, error)
	Title(ctx context.Context, basis string) (string, error)
}

type LLMService struct {
	client *genai.Client
}

func NewLLMService() *LLMService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &LLMService{
		client: client,
	}
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

// Reply sends the conversation to Gemini and returns the model's answer.
// The history must end with the user message awaiting a reply.
func (s *LLMService) Reply(ctx context.Context, history []store.Message, opts GenerationOptions) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("history is empty for chat completion")
	}
	last := history[len(history)-1]
	if last.Sender != "user" {
		return "", fmt.Errorf("last message in history is not from 'user', cannot proceed with chat completion")
	}

	model := s.client.GenerativeModel(opts.Model)
	model.SafetySettings = safetySettings(opts.SafetyLevel)
	if opts.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(opts.SystemPrompt)},
		}
	}

	chatSession := model.StartChat()
	for _, msg := range history[:len(history)-1] {
		chatSession.History = append(chatSession.History, &genai.Content{
			Role:  msg.Sender,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := chatSession.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Gemini response was empty or had no valid candidates/parts.")
		return "I'm sorry, I couldn't generate a response at this time. Please try again.", nil
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		log.Println("Gemini response part was not text or was empty after processing.")
		return "I received an empty or non-text response, please try rephrasing your question.", nil
	}

	return responseText.String(), nil
}

func (s *LLMService) Title(ctx context.Context, basis string) (string, error) {
	model := s.client.GenerativeModel(titleModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(titleSystemInstruction)},
	}

	temp := float32(0.3)
	maxTokens := int32(20)

	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	userPromptForTitle := fmt.Sprintf("Generate a very concise title (3-5 words maximum) for a conversation that starts with or is about: \"%s\".", basis)

	resp, err := model.GenerateContent(ctx, genai.Text(userPromptForTitle))
	if err != nil {
		return "", fmt.Errorf("gemini title generation request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "Chat", fmt.Errorf("LLM did not generate a title (empty response)")
	}

	var titleText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			titleText.WriteString(string(txt))
		}
	}

	if titleText.Len() == 0 {
		return "Chat", fmt.Errorf("LLM generated an empty title string")
	}

	return strings.Trim(titleText.String(), "\"'\n\r\t ."), nil
}

// safetySettings maps a project safety level onto Gemini harm-block
// thresholds. Unknown values fall back to the moderate thresholds.
func safetySettings(level string) []*genai.SafetySetting {
	var threshold genai.HarmBlockThreshold
	switch level {
	case SafetyLevelStrict:
		threshold = genai.HarmBlockLowAndAbove
	case SafetyLevelPermissive:
		threshold = genai.HarmBlockOnlyHigh
	default:
		threshold = genai.HarmBlockMediumAndAbove
	}

	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}

	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: threshold,
		})
	}
	return settings
}
