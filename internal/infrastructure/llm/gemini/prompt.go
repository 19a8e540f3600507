package gemini

import "strings"

const defaultMaxPromptChars = 12000

// buildGlossaryPrompt wraps lecture material in the tutoring instruction
// block. The material is cut to maxChars characters up front; the cut
// ignores word and sentence boundaries.
func buildGlossaryPrompt(material string, maxChars int) string {
	var b strings.Builder

	b.WriteString("You are a tutor for university lectures. Read the course material below, pick out the important technical terms, and write an explanation for each that a student can follow.\n")
	b.WriteString("Respond with ONLY a valid JSON array. Each element must have the form {\"term\": \"the term\", \"definition\": \"the explanation\", \"context\": \"how the material uses it\"}.\n")
	b.WriteString("No preamble, no markdown, no backticks.\n\n")
	b.WriteString("---MATERIAL START---\n")
	b.WriteString(headRunes(material, maxChars))
	b.WriteString("\n---MATERIAL END---\n")

	return b.String()
}

// headRunes returns at most n runes of s.
func headRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
