package bot

import (
	"context"
	"fmt"
	"time"

	"diet_reminder_bot/internal/model"
)

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	trialEnds := time.Now().UTC().Add(b.cfg.TrialDuration)
	user := model.User{ID: chatID, TrialEndsAt: &trialEnds}
	if err := b.store.CreateUser(ctx, &user); err != nil {
		b.log.Error("create user", "chat_id", chatID, "error", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}

	b.reply(chatID, `Welcome to Diet Reminder Bot!

Paste the text of your diet plan and get reminders at the right times
on the right days.

Quick start:
1. /diet <text> — paste your diet plan
2. /list — see the reminders extracted from it

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Commands:
/diet <text> — paste diet-plan text; reminders are extracted automatically
/list — show the reminders extracted from your current diet
/extract — re-run extraction on the diet already on file
/help — this reference

Diet format: day headers like "MONDAY- 1st JAN" (or "DAY 1" for the
free trial) followed by timed lines like "8:00 AM- Breakfast".`)
}

func (b *Bot) handleDiet(ctx context.Context, chatID int64, args string) {
	if args == "" {
		b.reply(chatID, "Usage: /diet <diet plan text>")
		return
	}

	// /diet may arrive before /start; creating is a no-op for known users.
	trialEnds := time.Now().UTC().Add(b.cfg.TrialDuration)
	if err := b.store.CreateUser(ctx, &model.User{ID: chatID, TrialEndsAt: &trialEnds}); err != nil {
		b.log.Error("create user", "chat_id", chatID, "error", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}

	if err := b.store.SetDietText(ctx, chatID, args); err != nil {
		b.log.Error("set diet text", "chat_id", chatID, "error", err)
		b.reply(chatID, "Failed to save your diet, please try again.")
		return
	}

	b.reply(chatID, "Diet received. Your reminders will be scheduled shortly; check them with /list.")
}

func (b *Bot) handleList(ctx context.Context, chatID int64) {
	records, err := b.store.ListNotifications(ctx, chatID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatRecordList(records))
}

func (b *Bot) handleExtract(ctx context.Context, chatID int64) {
	user, err := b.store.GetUser(ctx, chatID)
	if err != nil || user.DietText == "" {
		b.reply(chatID, "No diet on file yet. Paste one with /diet <text>.")
		return
	}

	if err := b.store.SetDietText(ctx, chatID, user.DietText); err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, "Re-extraction queued. Check the result with /list.")
}
