package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// A source citation is shown only when the top retrieved chunk's
	// relevance strictly exceeds this. Precision over recall: weakly
	// relevant material is never cited.
	CitationScoreThreshold = 0.3

	// How many chunks are retrieved per question.
	RetrievalTopK = 5

	// How many transcript turns are sent back to the model as context.
	TranscriptWindow = 20

	GreetingTemplate = "I am your personal teaching assistant for the %s course. " +
		"I can answer questions about the course material, exams, outlines, and other course details. Ask me anything!"

	DefaultSystemPrompt = `You are an AI teaching assistant, able to answer questions about course material, exams, outlines, and other course details.
Here are the relevant documents for the context:
%s
Instruction: Based on the above documents, provide a detailed answer for the student question below. If there is no relevant information in the documents, inform the student that no related information was found in the course database and refuse to answer the question.`
)
