package main

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dori/naehbuch/internal/model"
)

var (
	// 12.50€, €12.50, 12,50€
	moneyPattern = regexp.MustCompile(`^(?:€(\d+(?:[.,]\d+)?)|(\d+(?:[.,]\d+)?)€)$`)

	// 1.5m, 0,75m (a decimal separator is required, 45m is time)
	fabricPattern = regexp.MustCompile(`^(\d+[.,]\d+)m$`)

	// 2h30m, 3h, 45m
	durationPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?$`)
)

// parseQuickAdd turns a one-line description into a project. Tokens that
// don't parse are kept as part of the name.
func parseQuickAdd(text string, now time.Time) model.Project {
	project := model.Project{Fabrics: []string{}}

	words := strings.Fields(text)
	var nameParts []string

	for _, word := range words {
		lower := strings.ToLower(word)

		switch {
		// Fabrics (#cotton, #baumwoll_jersey)
		case strings.HasPrefix(word, "#") && len(word) > 1:
			project.Fabrics = append(project.Fabrics, spaced(word[1:]))

		case moneyPattern.MatchString(word):
			m := moneyPattern.FindStringSubmatch(word)
			project.MoneySpent = amount(m[1] + m[2])

		case fabricPattern.MatchString(lower):
			project.FabricUsed = amount(fabricPattern.FindStringSubmatch(lower)[1])

		case lower != "" && durationPattern.MatchString(lower):
			m := durationPattern.FindStringSubmatch(lower)
			hours, _ := strconv.Atoi(m[1])
			minutes, _ := strconv.Atoi(m[2])
			project.TimeSpent = model.JoinHours(hours, minutes)

		case strings.HasPrefix(lower, "status:"):
			project.Status = model.MatchStatus(spaced(word[len("status:"):]))

		case strings.HasPrefix(lower, "date:"):
			if d := parseQuickDate(lower[len("date:"):], now); d != nil {
				project.ProjectDate = d
			} else {
				nameParts = append(nameParts, word)
			}

		case strings.HasPrefix(lower, "link:"):
			project.InstagramLink = word[len("link:"):]

		case strings.HasPrefix(lower, "pattern:"):
			project.PatternBrand = spaced(word[len("pattern:"):])

		case strings.HasPrefix(lower, "from:"):
			project.PurchasedFrom = spaced(word[len("from:"):])

		default:
			nameParts = append(nameParts, word)
		}
	}

	project.Name = strings.Join(nameParts, " ")
	return project
}

func parseQuickDate(s string, now time.Time) *time.Time {
	today := model.DateOf(now)

	switch s {
	case "today", "heute":
		return &today
	case "yesterday", "gestern":
		t := today.AddDate(0, 0, -1)
		return &t
	}

	d, err := model.ParseDate(s)
	if err != nil {
		return nil
	}
	return d
}

func amount(s string) float64 {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return v
}

func spaced(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}
