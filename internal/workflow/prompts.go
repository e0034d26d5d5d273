package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/chateval/internal/evaluation"
	"github.com/JaimeStill/chateval/internal/prompts"
	"github.com/JaimeStill/chateval/pkg/formatting"
)

const noDocument = "No document provided."

const answerInstructions = `**Important Instructions:**
- Structure your response using markdown formatting
- Use bullet points or numbered lists for key insights
- Keep paragraphs concise (2-3 sentences max)
- Bold important terms and concepts
- If applicable, use headers (##) to organize different sections
- Be clear and direct, avoiding unnecessary verbosity`

const improveInstructions = `**Important Instructions:**
- Use markdown formatting for clarity
- Structure key points with bullet points or numbered lists
- Bold important terms from the document
- Keep paragraphs concise and focused
- Cite specific information from the document when possible
- Be more precise and direct than the previous response`

const genericEvaluation = `Evaluate this AI response based on %s criteria.

User Question:
%s

AI Response:
%s

Evaluate and provide:
1. A label indicating the quality (e.g., "Good", "Fair", "Poor")
2. A brief explanation (2-3 sentences) of your evaluation

Format your response as:
Label: [your label]
Explanation: [your explanation]`

// AnswerPrompt builds the chat prompt. document is the session's full
// extracted text; when empty the question is asked on its own.
func AnswerPrompt(question, document string) string {
	if document == "" {
		return "Please answer the following question. Use markdown formatting for clarity:\n" +
			"- Use bullet points for lists\n" +
			"- Bold important terms\n" +
			"- Keep responses concise and well-structured\n\n" +
			"Question: " + question
	}

	var sb strings.Builder
	sb.WriteString("You are a helpful AI assistant. Please answer the following question based on the provided document context.\n\n")
	sb.WriteString(answerInstructions)
	sb.WriteString("\n\nDocument context:\n")
	sb.WriteString(document)
	sb.WriteString("\n\nUser question: ")
	sb.WriteString(question)
	return sb.String()
}

// ImprovePrompt builds the improvement prompt from prior feedback. A combined
// payload lists every criterion's evaluation; a single payload quotes its text.
// document should already be truncated to the context limit.
func ImprovePrompt(question, document string, feedback evaluation.Payload) string {
	var sb strings.Builder

	if feedback.Kind() == evaluation.KindCombined {
		sb.WriteString("Previous evaluations:\n")
		for _, e := range feedback.Entries() {
			fmt.Fprintf(&sb, "\n%s: %s\n", strings.ToUpper(string(e.Criterion)), e.Raw)
		}
		sb.WriteString("\n\nBased on ALL the above feedback, please improve your response to better address the question.")
	} else {
		sb.WriteString("Previous evaluation: ")
		sb.WriteString(feedback.Raw())
		sb.WriteString("\n\nPlease improve your response to better address the question while being more grounded in the document.")
	}

	sb.WriteString("\n\n")
	sb.WriteString(improveInstructions)
	sb.WriteString("\n\nDocument context:\n")
	sb.WriteString(document)
	sb.WriteString("\n\nOriginal question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nPlease provide an improved, well-formatted response:")
	return sb.String()
}

// Vars are the values substituted into evaluation prompt templates.
type Vars struct {
	Document  string
	Question  string
	Response  string
	Timestamp time.Time
}

// Render substitutes {document_content}, {question}, {response}, and
// {timestamp} in template. {context} is accepted as an alias for
// {document_content}. An empty document renders as "No document provided.".
func Render(template string, v Vars) string {
	doc := v.Document
	if doc == "" {
		doc = noDocument
	}

	r := strings.NewReplacer(
		"{document_content}", doc,
		"{context}", doc,
		"{question}", v.Question,
		"{response}", v.Response,
		"{timestamp}", v.Timestamp.Format(time.DateTime),
	)
	return r.Replace(template)
}

// ComposePrompt builds the evaluation template for a criterion by combining
// its tunable instructions with its immutable output specification. A nil
// prompt system yields the built-in text.
func ComposePrompt(ctx context.Context, ps prompts.System, c evaluation.Criterion) (string, error) {
	if ps == nil {
		return prompts.Default(c)
	}

	instructions, err := ps.Instructions(ctx, c)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", c, err)
	}

	spec, err := ps.Spec(ctx, c)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", c, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	return sb.String(), nil
}

// evaluationTemplate resolves the template for one criterion: the caller's
// prompt first, then a generic quality prompt when no document is in
// context, then the composed prompt.
func (rt *Runtime) evaluationTemplate(ctx context.Context, req CriterionRequest, hasDocument bool) (string, error) {
	if strings.TrimSpace(req.Prompt) != "" {
		return req.Prompt, nil
	}

	c := req.criterion()
	if !hasDocument {
		return fmt.Sprintf(genericEvaluation, c, "{question}", "{response}"), nil
	}

	return ComposePrompt(ctx, rt.Prompts, c)
}

func (rt *Runtime) context(document string) string {
	return formatting.Truncate(document, rt.Options.ContextLimit)
}
