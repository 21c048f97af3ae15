package notify

import (
	"fmt"
	"strings"

	"github.com/betbot/copycat/internal/domain"
)

// Render builds the Markdown alert for one position change. An empty string
// with an error means there is nothing deliverable for this change; callers
// skip it rather than abort the run.
func Render(change domain.PositionChange, wallet string) (string, error) {
	pos := change.Position
	if change.AssetID == "" {
		return "", fmt.Errorf("change has no asset id")
	}

	var header, emoji, action string
	switch change.Kind {
	case domain.ChangeNew:
		header = "🆕 *New Position Detected*"
		emoji = "✨"
		action = fmt.Sprintf("Bought %.1f shares", pos.Size)
	case domain.ChangeIncrease:
		header = "📈 *Position Increased*"
		emoji = "➕"
		action = fmt.Sprintf("Added %.1f shares", change.SizeDelta)
	case domain.ChangeDecrease:
		header = "📉 *Position Reduced*"
		emoji = "➖"
		action = fmt.Sprintf("Sold %.1f shares", -change.SizeDelta)
	default:
		return "", fmt.Errorf("unknown change kind %q", change.Kind)
	}

	title := pos.Title
	if title == "" {
		title = "Unknown Market"
	}
	outcome := pos.Outcome
	if outcome == "" {
		outcome = "Unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", emoji, header)
	fmt.Fprintf(&b, "👤 *Wallet:* %s...\n", walletPrefix(wallet))
	fmt.Fprintf(&b, "🎯 *Market:* %s\n", title)
	fmt.Fprintf(&b, "💰 *Outcome:* %s (%d¢)\n", outcome, int(pos.AvgPrice*100))
	fmt.Fprintf(&b, "📝 *Action:* %s\n", action)
	fmt.Fprintf(&b, "📊 *Total Size:* %.1f\n", pos.Size)
	fmt.Fprintf(&b, "💵 *Current Value:* $%.2f\n", pos.CurrentValue)
	fmt.Fprintf(&b, "📈 *P/L:* %+.1f%%\n\n", pos.PercentPnl*100)
	fmt.Fprintf(&b, "[View on Polymarket](https://polymarket.com/profile/%s)", wallet)

	return b.String(), nil
}

// RenderTradeSuccess builds the alert sent after a mirrored order was placed.
func RenderTradeSuccess(decision domain.TradeDecision, pos domain.Position) string {
	title := pos.Title
	if title == "" {
		title = pos.AssetID
	}
	return fmt.Sprintf(
		"✅ *Copy Trade Executed*\n\n🎯 *Market:* %s\n📝 *Order:* %s %.2f shares @ %.2f (~$%.2f)",
		title, decision.Side, decision.Size, decision.Price, decision.Size*decision.Price,
	)
}

// RenderTradeFailure builds the alert sent when a mirrored trade could not be
// placed.
func RenderTradeFailure(pos domain.Position, detail string) string {
	title := pos.Title
	if title == "" {
		title = pos.AssetID
	}
	return fmt.Sprintf("⚠️ *Copy Trade Failed*\n\n🎯 *Market:* %s\n❗ %s", title, detail)
}

func walletPrefix(wallet string) string {
	if len(wallet) <= 6 {
		return wallet
	}
	return wallet[:6]
}
