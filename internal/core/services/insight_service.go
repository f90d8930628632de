package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"teamfund/internal/adapters/persistence/models"
	"teamfund/internal/adapters/persistence/repositories"
	"teamfund/internal/config"
	"teamfund/internal/core/domain"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// InsightService answers questions about team spending using the
// Gemini API
type InsightService struct {
	billRepo *repositories.BillRepository
	teamRepo *repositories.TeamRepository
	cfg      *config.Config

	client  *http.Client
	baseURL string
}

// NewInsightService creates a new insight service
func NewInsightService(
	billRepo *repositories.BillRepository,
	teamRepo *repositories.TeamRepository,
	cfg *config.Config,
) *InsightService {
	return &InsightService{
		billRepo: billRepo,
		teamRepo: teamRepo,
		cfg:      cfg,
		client:   &http.Client{Timeout: 30 * time.Second},
		baseURL:  geminiBaseURL,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// AnalyzeBills answers a free-form question about a team's bills. Only
// team members may ask. Failures degrade to a canned reply instead of
// an error so the chat surface never breaks.
func (s *InsightService) AnalyzeBills(ctx context.Context, teamID, callerID uint, question string) (string, error) {
	isMember, err := s.teamRepo.IsMember(ctx, teamID, callerID)
	if err != nil {
		return "", err
	}
	if !isMember {
		return "", ErrNotTeamMember
	}

	if s.cfg.Gemini.APIKey == "" {
		return "API Key is missing. Cannot analyze bills.", nil
	}

	bills, _, err := s.billRepo.ListByTeam(ctx, teamID, nil, 0, 500)
	if err != nil {
		return "", err
	}

	prompt := buildAnalysisPrompt(bills, question)

	text, err := s.generateContent(ctx, prompt)
	if err != nil {
		log.Printf("⚠️ Gemini request failed: %v", err)
		return "Sorry, I encountered an error analyzing the data.", nil
	}
	if text == "" {
		return "I couldn't generate a response.", nil
	}

	return text, nil
}

// SuggestCategory asks Gemini to classify a bill title into one of the
// known categories. Returns an empty string when the API key is not
// configured so callers can skip the suggestion entirely.
func (s *InsightService) SuggestCategory(ctx context.Context, title string) string {
	if s.cfg.Gemini.APIKey == "" {
		return ""
	}

	var names []string
	for _, c := range domain.Categories {
		names = append(names, string(c))
	}

	prompt := fmt.Sprintf(
		"Classify the following expense title into exactly one of these categories: %s. "+
			"Reply with only the category name, nothing else.\n\nTitle: %s",
		strings.Join(names, ", "), title,
	)

	text, err := s.generateContent(ctx, prompt)
	if err != nil {
		log.Printf("⚠️ Gemini category suggestion failed: %v", err)
		return string(domain.CategoryOther)
	}

	suggestion := domain.BillCategory(strings.TrimSpace(text))
	if !suggestion.IsValid() {
		return string(domain.CategoryOther)
	}

	return string(suggestion)
}

func (s *InsightService) generateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		s.baseURL, s.cfg.Gemini.Model, s.cfg.Gemini.APIKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body))
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}

// buildAnalysisPrompt renders the team's bills as a compact table for
// the model, followed by the user's question.
func buildAnalysisPrompt(bills []*models.Bill, question string) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful expense analyst for a small team. ")
	sb.WriteString("Here are the team's expense bills:\n\n")

	if len(bills) == 0 {
		sb.WriteString("(no bills submitted yet)\n")
	}

	for _, b := range bills {
		sb.WriteString(fmt.Sprintf("- %s | $%s | %s | %s | submitted by %s on %s\n",
			b.Title,
			formatAmount(b.Amount),
			b.Category,
			b.Status,
			b.UserName,
			b.CreatedAt.Format("2006-01-02"),
		))
	}

	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer concisely in plain text.")

	return sb.String()
}
