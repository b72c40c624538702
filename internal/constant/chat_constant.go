package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"
)

const (
	// DefaultNotebookName marks a notebook whose title has not been
	// AI-suggested yet. The first ingestion batch on such a notebook
	// triggers the naming call.
	DefaultNotebookName = "Untitled notebook"

	// NamingTextCap bounds the grounding text submitted to the naming call.
	NamingTextCap = 8000

	// GroundingTextCap bounds the per-source grounding text embedded into
	// chat and studio prompts.
	GroundingTextCap = 30000
)

const NotebookNamingPrompt = `Suggest a short, descriptive title (maximum 5 words) for a notebook containing the following material. Reply with the title only, no quotes, no punctuation around it.

Material:
%s`

const WelcomeMessageFormat = `Your notebook "%s" is ready. Ask me anything about your sources and I will answer with citations.`

const ChatSystemPrompt = `You are a helpful research assistant. Answer the user's question using ONLY the numbered sources provided. When a statement comes from a source, append a citation marker like [1] or [2] referring to that source's number. If the sources do not contain the answer, say so.`

// ChatErrorReply is shown as the model turn when generation fails.
const ChatErrorReply = `I ran into a problem answering that. Please try again in a moment.`
