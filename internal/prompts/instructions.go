package prompts

import "github.com/JaimeStill/chateval/internal/evaluation"

const groundednessInstructions = `You are evaluating whether an AI response is grounded in the provided document context.

Document Context:
{document_content}

User Question:
{question}

AI Response:
{response}

Evaluate whether the response is well-grounded in the provided document. Consider:
1. Does the response accurately reflect information from the document?
2. Are there any claims made that cannot be verified from the document?
3. Is the response complete with respect to the available information?`

const factualAccuracyInstructions = `You are an evaluation assistant focused on factual accuracy.

Given the following:
- Document content: {document_content}
- Question: {question}
- AI Response: {response}

Assess the factual accuracy of the response. Consider:
1. Are all facts stated correctly according to the document?
2. Are there any misrepresentations or errors?
3. Is the information presented without distortion?`

const completenessInstructions = `You are an evaluation assistant assessing response completeness.

Given the following:
- Document content: {document_content}
- Question: {question}
- AI Response: {response}

Evaluate the completeness of the response. Consider:
1. Does the response address all aspects of the question?
2. Is any relevant information from the document omitted?
3. Would additional context improve the response?`

const relevanceInstructions = `You are an evaluation assistant measuring response relevance.

Given the following:
- Document content: {document_content}
- Question: {question}
- AI Response: {response}

Assess how relevant the response is to the question. Consider:
1. Does the response directly address the question asked?
2. Is there unnecessary or off-topic information?
3. How well does the response focus on the user's needs?`

var instructions = map[evaluation.Criterion]string{
	evaluation.Groundedness:    groundednessInstructions,
	evaluation.FactualAccuracy: factualAccuracyInstructions,
	evaluation.Completeness:    completenessInstructions,
	evaluation.Relevance:       relevanceInstructions,
}

// Instructions returns the built-in evaluation instructions for a criterion.
// The text carries {document_content}, {question}, {response}, and {timestamp}
// placeholders. Returns evaluation.ErrInvalidCriterion if the criterion is not recognized.
func Instructions(c evaluation.Criterion) (string, error) {
	text, ok := instructions[c]
	if !ok {
		return "", evaluation.ErrInvalidCriterion
	}
	return text, nil
}
