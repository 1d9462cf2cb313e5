package generation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
)

// buildThreadsPrompt assembles the thread-synthesis prompt for an era
func buildThreadsPrompt(gc output.GenerationContext) string {
	var sb strings.Builder

	sb.WriteString("You are synthesizing the narrative threads of a historical era.\n\n")
	writeEraHeader(&sb, gc)
	writeWorldContext(&sb, gc)
	writePrepBriefs(&sb, gc)

	sb.WriteString("\nProduce a thread synthesis as a single JSON object with fields: ")
	sb.WriteString("thesis, threads (id, name, description, register, culturalActors, material), ")
	sb.WriteString("movements (index, yearStart, yearEnd, threadFocus, beats, worldState), ")
	sb.WriteString("counterweight, strategicDynamics, quotes, motifs.\n")
	sb.WriteString("Respond with JSON only, no commentary.\n")

	return sb.String()
}

// buildGeneratePrompt assembles the full-draft prompt
func buildGeneratePrompt(gc output.GenerationContext) string {
	var sb strings.Builder

	sb.WriteString("You are writing the full prose narrative of a historical era.\n\n")
	writeEraHeader(&sb, gc)
	writeWorldContext(&sb, gc)
	writeSynthesis(&sb, gc)
	writePrepBriefs(&sb, gc)

	sb.WriteString("\nWrite the complete era narrative following the movements in order. ")
	sb.WriteString("Keep the requested tone throughout. Respond with prose only.\n")

	return sb.String()
}

// buildEditPrompt assembles the copy-edit prompt over the edit input
func buildEditPrompt(gc output.GenerationContext) string {
	var sb strings.Builder

	sb.WriteString("You are copy editing an era narrative.\n\n")
	writeEraHeader(&sb, gc)
	writeSynthesis(&sb, gc)

	sb.WriteString("\n## Draft to edit\n\n")
	sb.WriteString(gc.EditInput)
	sb.WriteString("\n\nTighten the prose, fix continuity against the synthesis, and keep the tone. ")
	sb.WriteString("Respond with the full edited text only.\n")

	return sb.String()
}

func writeEraHeader(sb *strings.Builder, gc output.GenerationContext) {
	fmt.Fprintf(sb, "## Era\n\nName: %s\nTone: %s\n", gc.EraName, gc.Tone)
	if gc.ArcDirectionOverride != "" {
		fmt.Fprintf(sb, "Arc direction: %s\n", gc.ArcDirectionOverride)
	}
}

func writeWorldContext(sb *strings.Builder, gc output.GenerationContext) {
	w := gc.World
	sb.WriteString("\n## World context\n\n")
	if w.FocalEraSummary != "" {
		fmt.Fprintf(sb, "Focal era: %s\n", w.FocalEraSummary)
	}
	if w.PreviousEraSummary != "" {
		fmt.Fprintf(sb, "Previous era: %s\n", w.PreviousEraSummary)
	}
	if w.NextEraSummary != "" {
		fmt.Fprintf(sb, "Next era: %s\n", w.NextEraSummary)
	}
	if w.PreviousThesis != "" {
		fmt.Fprintf(sb, "Previous era thesis: %s\n", w.PreviousThesis)
	}
	for _, d := range w.WorldDynamics {
		fmt.Fprintf(sb, "- Dynamic: %s\n", d)
	}
	if len(w.CulturalIdentities) > 0 {
		names := make([]string, 0, len(w.CulturalIdentities))
		for name := range w.CulturalIdentities {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString("Cultures:\n")
		for _, name := range names {
			fmt.Fprintf(sb, "- %s: %s\n", name, w.CulturalIdentities[name])
		}
	}
}

func writeSynthesis(sb *strings.Builder, gc output.GenerationContext) {
	ts := gc.Synthesis
	if ts == nil {
		return
	}

	sb.WriteString("\n## Thread synthesis\n\n")
	fmt.Fprintf(sb, "Thesis: %s\n", ts.Thesis)
	if ts.Counterweight != "" {
		fmt.Fprintf(sb, "Counterweight: %s\n", ts.Counterweight)
	}
	for _, th := range ts.Threads {
		fmt.Fprintf(sb, "- Thread %s (%s): %s\n", th.ID, th.Name, th.Description)
	}
	for _, m := range ts.Movements {
		fmt.Fprintf(sb, "- Movement %d (%d-%d), focus %s: %s\n",
			m.Index, m.YearStart, m.YearEnd,
			strings.Join(m.ThreadFocus, ", "), strings.Join(m.Beats, "; "))
	}
	for _, motif := range ts.Motifs {
		fmt.Fprintf(sb, "- Motif: %s\n", motif)
	}
}

func writePrepBriefs(sb *strings.Builder, gc output.GenerationContext) {
	if len(gc.PrepBriefs) == 0 {
		return
	}

	// Heavier briefs first so the most important chronicles lead
	briefs := make([]narrative.PrepBrief, len(gc.PrepBriefs))
	copy(briefs, gc.PrepBriefs)
	sort.SliceStable(briefs, func(i, j int) bool {
		return briefs[i].NarrativeWeight > briefs[j].NarrativeWeight
	})

	sb.WriteString("\n## Chronicle briefs\n")
	for _, b := range briefs {
		fmt.Fprintf(sb, "\n### %s (year %d, weight %.2f)\n\n%s\n", b.Title, b.EraYear, b.NarrativeWeight, b.PrepText)
	}
}
