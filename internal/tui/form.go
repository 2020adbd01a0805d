// Package tui collects missing cost basis for orphan sells through an
// interactive terminal form.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"lotview/internal/domain"
)

const buyDateLayout = "2006-01-02"

var (
	special = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	subtle  = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}

	headerStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(subtle).
			Padding(0, 1)
)

// Submission is one completed missing-buy form.
type Submission struct {
	Orphan   domain.OrphanSell
	BuyPrice decimal.Decimal
	BuyDate  time.Time
}

// CollectResolutions walks the user through one form per orphan sell.
// Every orphan may be submitted or skipped; skipped orphans stay unresolved.
func CollectResolutions(orphans []domain.OrphanSell) ([]Submission, error) {
	submissions := make([]Submission, 0, len(orphans))
	for i, orphan := range orphans {
		fmt.Println(headerStyle.Render(fmt.Sprintf("MISSING BUY DATA (%d/%d)", i+1, len(orphans))))
		fmt.Println(panelStyle.Render(fmt.Sprintf(
			"Base: %s\nSell Price: %s\nAmount: %s\nSell Date: %s",
			orphan.Base,
			orphan.Price.StringFixed(4),
			orphan.Amount.StringFixed(4),
			orphan.Time.Format("2006-01-02 15:04:05"),
		)))

		submission, submitted, err := askOne(orphan)
		if err != nil {
			return nil, err
		}
		if submitted {
			submissions = append(submissions, submission)
		}
	}
	return submissions, nil
}

func askOne(orphan domain.OrphanSell) (Submission, bool, error) {
	var (
		priceStr string
		dateStr  = orphan.Time.Format(buyDateLayout)
		submit   = true
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Missing BUY price").
				Description("Price in the quote currency").
				Value(&priceStr).
				Validate(validatePrice),
			huh.NewInput().
				Title("Missing BUY date").
				Description("Format: YYYY-MM-DD").
				Value(&dateStr).
				Validate(func(s string) error {
					date, err := time.ParseInLocation(buyDateLayout, s, time.UTC)
					if err != nil {
						return fmt.Errorf("invalid date, expected YYYY-MM-DD")
					}
					if date.After(orphan.Time) {
						return fmt.Errorf("buy date is after the sell date")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Submit missing BUY data?").
				Affirmative("Submit").
				Negative("Skip").
				Value(&submit),
		),
	)
	if err := form.Run(); err != nil {
		return Submission{}, false, err
	}
	if !submit {
		return Submission{}, false, nil
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return Submission{}, false, err
	}
	date, err := time.ParseInLocation(buyDateLayout, dateStr, time.UTC)
	if err != nil {
		return Submission{}, false, err
	}

	return Submission{Orphan: orphan, BuyPrice: price, BuyDate: date}, true, nil
}

func validatePrice(s string) error {
	price, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid price, expected a decimal number")
	}
	if price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}
