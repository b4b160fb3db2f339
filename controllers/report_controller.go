package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"parts-ledger/config"
	"parts-ledger/repositories"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(DB *gorm.DB) *ReportController {
	return &ReportController{DB: DB}
}

// DailySummary aggregates movement activity for one day. Defaults to today;
// ?date=2026-08-28 picks another day.
func (c *ReportController) DailySummary(ctx *fiber.Ctx) error {
	day := time.Now()
	if v := ctx.Query("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid date, expected YYYY-MM-DD",
			})
		}
		day = parsed
	}

	repo := repositories.NewMoveRepository(c.DB)
	summary, err := repo.DailySummaryFor(day)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}

// SendDailySummary emails the daily summary to the configured recipients.
func (c *ReportController) SendDailySummary(ctx *fiber.Ctx) error {
	day := time.Now()
	if v := ctx.Query("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid date, expected YYYY-MM-DD",
			})
		}
		day = parsed
	}

	if len(config.ReportRecipients) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "No report recipients configured",
		})
	}

	repo := repositories.NewMoveRepository(c.DB)
	summary, err := repo.DailySummaryFor(day)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := sendSummaryEmail(config.ReportRecipients, summary); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to send email",
			"error":   err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Summary for %s sent to %d recipients", summary.Date, len(config.ReportRecipients)),
	})
}

func sendSummaryEmail(toEmails []string, summary *repositories.DailySummary) error {
	subject := "Inventory activity " + summary.Date

	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString(fmt.Sprintf("<h3>Inventory activity for %s</h3>", summary.Date))
	sb.WriteString(fmt.Sprintf("<p>Total moves: <strong>%d</strong>, active users: <strong>%d</strong></p>", summary.TotalMoves, summary.Actors))
	sb.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Reason</th><th>Moves</th><th>In</th><th>Out</th><th>Net</th></tr>")
	for _, row := range summary.ByReason {
		sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td></tr>",
			row.Reason, row.Moves, row.QtyIn, row.QtyOut, row.NetDelta))
	}
	sb.WriteString("</table>")
	sb.WriteString("<p>This is an auto-generated email. Please do not reply.</p>")
	sb.WriteString("</body></html>")

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPSender)
	msg.SetHeader("To", toEmails...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", sb.String())

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPSender, config.SMTPPassword)
	return dialer.DialAndSend(msg)
}
