package summarizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/ryosukesatoh/arxiv-daily/internal/fetcher"
)

// SystemPrompt is the fixed system instruction for every summarization call.
const SystemPrompt = "You write accurate technical summaries for condensed matter physics readers."

// paperSeparator sits between paper blocks in the batch prompt.
const paperSeparator = "\n\n---\n\n"

// BuildBatchPrompt renders one batch of papers into the user prompt: the run
// timestamp, the instruction block with the closed tag vocabulary, then one
// block per paper.
func BuildBatchPrompt(papers []fetcher.Paper, runTime time.Time) string {
	blocks := make([]string, 0, len(papers))
	for _, p := range papers {
		blocks = append(blocks, strings.Join([]string{
			fmt.Sprintf("ID: %s", p.ID),
			fmt.Sprintf("Title: %s", p.Title),
			fmt.Sprintf("Published UTC: %s", p.Published.UTC().Format(time.RFC3339)),
			fmt.Sprintf("URL: %s", p.URL),
			fmt.Sprintf("Summary: %s", p.Abstract),
		}, "\n"))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run time (UTC): %s\n", runTime.UTC().Format(time.RFC3339)))
	sb.WriteString("You are given newly detected arXiv papers (title and abstract only).\n\n")
	sb.WriteString("For EACH paper:\n")
	sb.WriteString("1) Provide a 1-2 sentence objective summary.\n")
	sb.WriteString("2) Assign topic tags from the following list (only if clearly supported by the abstract):\n")
	sb.WriteString("   - topology\n")
	sb.WriteString("   - quantum_geometry\n")
	sb.WriteString("   - machine_learning\n")
	sb.WriteString("   - quantum_computing\n")
	sb.WriteString("   - superconducting_impurity\n")
	sb.WriteString("   - pi_junction\n")
	sb.WriteString("   - vortex\n")
	sb.WriteString("3) For each assigned tag, briefly justify in one short phrase.\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Use ONLY information from the title and abstract.\n")
	sb.WriteString("- Do NOT speculate.\n")
	sb.WriteString("- If evidence is weak, do not assign the tag.\n\n")
	sb.WriteString("Then:\n")
	sb.WriteString("4) Provide a short thematic overview summarizing recurring topics.\n")
	sb.WriteString("5) Provide suggested reading priority (High/Medium/Low) with one-line reason.\n\n")
	sb.WriteString("Papers:\n\n")
	sb.WriteString(strings.Join(blocks, paperSeparator))

	return sb.String()
}
