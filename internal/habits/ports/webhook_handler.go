package ports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/httputil"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/app"
	"github.com/erzhan12/habit-reward-go/internal/habits/app/command"
)

// outboundTimeout bounds a single outbound call to the chat transport;
// a stuck delivery never holds up the webhook response.
const outboundTimeout = 10 * time.Second

// WebhookHandler is the chat-bot surface's single entry point: it turns
// inbound Telegram updates into calls on the completion engine (C6) and
// revert engine (C7), and replies to the user's chat via the bot HTTP
// API. The conversation state machine that a full bot (menus, inline
// keyboards, multi-step add/edit flows) would need is out of scope —
// this handler recognizes a small set of slash commands and otherwise
// tells the user what it understands.
type WebhookHandler struct {
	app        app.Application
	botToken   string
	httpClient *http.Client
	log        logger.Logger
}

func NewWebhookHandler(a app.Application, botToken string, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		app:        a,
		botToken:   botToken,
		httpClient: &http.Client{Timeout: outboundTimeout},
		log:        log,
	}
}

type telegramUpdate struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		MessageID int64 `json:"message_id"`
		From      struct {
			ID int64 `json:"id"`
		} `json:"from"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

// ServeHTTP implements the POST /webhook/telegram route. It always
// answers 200 to the chat transport once the body parses, regardless
// of whether the command itself succeeded — Telegram retries non-2xx
// responses, which would duplicate side effects for a webhook that has
// already applied them.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var update telegramUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid webhook payload"))
		return
	}

	if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
		httputil.Success(w, r, nil, "ignored")
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	reply := h.dispatch(r.Context(), telegramID, update.Message.Text)
	h.sendMessage(r.Context(), chatID, reply)

	httputil.Success(w, r, nil, "processed")
}

func (h *WebhookHandler) dispatch(ctx context.Context, telegramID int64, text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return "Send /done <habit> or /revert <habit>."
	}

	cmd := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(text, fields[0]))

	switch cmd {
	case "/start", "/help":
		return "Hi! Use /done <habit> to log a completion or /revert <habit> to undo your latest one."

	case "/done":
		if arg == "" {
			return "Usage: /done <habit name>"
		}
		result, err := h.app.Commands.ProcessCompletion.Handle(ctx, command.ProcessCompletion{
			TelegramID: telegramID,
			HabitName:  arg,
		})
		if err != nil {
			return describeError(err)
		}
		return describeCompletion(result)

	case "/revert":
		if arg == "" {
			return "Usage: /revert <habit name>"
		}
		result, err := h.app.Commands.RevertLatest.Handle(ctx, command.RevertLatest{
			TelegramID: telegramID,
			HabitName:  arg,
		})
		if err != nil {
			return describeError(err)
		}
		return describeRevert(result)

	default:
		return "I didn't understand that. Try /done <habit> or /revert <habit>."
	}
}

func describeCompletion(r command.CompletionResult) string {
	var b strings.Builder
	b.WriteString("✅ " + r.HabitName + " completed. Streak: " + strconv.Itoa(r.Streak) + ".")
	if r.GotReward && r.RewardName != nil {
		b.WriteString(" You drew a reward: " + *r.RewardName + "!")
		if r.PiecesEarned != nil && r.PiecesRequired != nil {
			b.WriteString(" Progress: " + strconv.Itoa(*r.PiecesEarned) + "/" + strconv.Itoa(*r.PiecesRequired) + ".")
		}
	}
	return b.String()
}

func describeRevert(r command.RevertResult) string {
	msg := "↩️ Reverted your latest completion of " + r.HabitName + "."
	if r.RewardReverted && r.RewardName != nil {
		msg += " Its reward draw (" + *r.RewardName + ") was undone too."
	}
	return msg
}

func describeError(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return "⚠️ " + appErr.Message
	}
	return "⚠️ something went wrong, please try again."
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// sendMessage best-effort delivers text to chatID. Failure to deliver
// never rolls back the state change the command already committed; it
// is only logged.
func (h *WebhookHandler) sendMessage(ctx context.Context, chatID int64, text string) {
	if h.botToken == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, outboundTimeout)
	defer cancel()

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return
	}

	url := "https://api.telegram.org/bot" + h.botToken + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		if h.log != nil {
			h.log.Error(ctx, err, "webhook: failed to deliver chat reply", logger.Field{Key: "chat_id", Value: chatID})
		}
		return
	}
	defer resp.Body.Close()
}
