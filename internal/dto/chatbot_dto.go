package dto

import "time"

type SendMessageRequest struct {
	UserId  string `json:"user_id"`
	Message string `json:"message" validate:"required"`
	Model   string `json:"model,omitempty"`
}

type SendMessageResponse struct {
	Response string `json:"response"`
}

type ChatHistoryItem struct {
	Type        string                 `json:"type"`
	UserMessage string                 `json:"user_message"`
	BotResponse string                 `json:"bot_response"`
	Details     map[string]interface{} `json:"details,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type TranslateRequest struct {
	Text       string `json:"text" validate:"required"`
	TargetLang string `json:"target_lang,omitempty"`
}

type TranslateResponse struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
	TargetLang string `json:"target_lang"`
}
