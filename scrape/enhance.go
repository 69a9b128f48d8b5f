package scrape

import (
	"fmt"
	"strings"
)

// businessIndicators maps a detection label to the keyword list that
// triggers it. Keywords are matched case-insensitively against the full
// content.
var businessIndicators = []struct {
	label    string
	keywords []string
}{
	{"About/Company information detected", []string{"about", "company", "business", "organization"}},
	{"Contact information detected", []string{"contact", "email", "phone", "address"}},
	{"Products/Services information detected", []string{"product", "service", "solution", "offering"}},
	{"Team/Staff information detected", []string{"team", "staff", "employee", "people"}},
	{"Pricing information detected", []string{"price", "cost", "fee", "plan", "subscription"}},
	{"Location information detected", []string{"location", "office", "headquarters", "address"}},
}

// Enhance wraps extracted content with an analysis header and footer so the
// downstream model sees provenance and coarse structure signals alongside
// the page text.
func Enhance(content, url, method string) string {
	var b strings.Builder

	b.WriteString("# COMPREHENSIVE WEBSITE ANALYSIS\n")
	fmt.Fprintf(&b, "**URL:** %s\n", url)
	fmt.Fprintf(&b, "**Extraction Method:** %s\n", method)
	fmt.Fprintf(&b, "**Content Length:** %d characters\n", len(content))
	b.WriteString("\n---\n\n")

	b.WriteString("## EXTRACTED CONTENT:\n\n")
	b.WriteString(content)
	b.WriteString("\n\n---\n\n")

	b.WriteString("## CONTENT ANALYSIS:\n")
	fmt.Fprintf(&b, "- **Total Characters:** %d\n", len(content))
	fmt.Fprintf(&b, "- **Word Count:** %d\n", len(strings.Fields(content)))
	fmt.Fprintf(&b, "- **Line Count:** %d\n", len(strings.Split(content, "\n")))

	if detected := DetectBusinessElements(content); len(detected) > 0 {
		b.WriteString("- **Business Elements Detected:**\n")
		for _, label := range detected {
			fmt.Fprintf(&b, "  - %s\n", label)
		}
	}

	b.WriteString("\n---\n\n")
	b.WriteString("*This content has been extracted in comprehensive mode to ensure maximum text capture from the webpage.*")

	return b.String()
}

// DetectBusinessElements scans content for the fixed keyword lists and
// returns the labels of the categories that matched, in a stable order.
func DetectBusinessElements(content string) []string {
	lower := strings.ToLower(content)

	var detected []string
	for _, indicator := range businessIndicators {
		for _, kw := range indicator.keywords {
			if strings.Contains(lower, kw) {
				detected = append(detected, indicator.label)
				break
			}
		}
	}
	return detected
}
