package explain

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write short educational material about futures trading for complete beginners in mainland China. Always answer in Simplified Chinese. Be accurate, concrete and friendly; avoid jargon that is not explained.`

func buildUserMessage(conceptName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Concept: %q\n", conceptName)
	b.WriteString(`
Create a simple, educational explanation of this futures trading concept.
Return a JSON object with:
1. definition: A clear, formal definition (max 2 sentences).
2. analogy: A real-world metaphor (e.g. buying a house, booking a hotel) that explains it simply.
3. keyPoint: One crucial thing to remember.
4. example: A very short numerical or scenario example.`)

	return b.String()
}
