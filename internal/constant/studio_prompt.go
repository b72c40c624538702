package constant

// Prompts for studio artifact generation. Each receives the concatenated
// grounding text of the notebook's eligible sources.

const MindmapPrompt = `Create a hierarchical mind map of the key concepts in the following material. Return JSON with a root node: {"label": string, "children": [...]}. Keep labels under 8 words. Go at most 3 levels deep.

Material:
%s`

const ReportPrompt = `Write a well-structured briefing report about the following material. Return a single self-contained HTML fragment (headings, paragraphs, lists; no <html> or <body> wrapper, no scripts, no external resources).

Material:
%s`

const FlashcardsPrompt = `Create study flashcards from the following material. Return JSON: an object {"cards": [{"front": string, "back": string}]}. Produce between 8 and 16 cards.

Material:
%s`

const QuizPrompt = `Create a multiple-choice quiz from the following material. Return JSON: an object {"questions": [{"question": string, "options": [4 strings], "answer_index": number, "explanation": string}]}. Produce between 5 and 10 questions.

Material:
%s`

const AudioScriptPrompt = `Write a conversational spoken summary of the following material, as if one narrator is explaining it to a curious listener. Plain text only, around 300 words.

Material:
%s`

const VideoTopicPrompt = `Summarize the following material in 2 sentences, as the subject of a short explainer video. Plain text only.

Material:
%s`

const VideoOverviewPrompt = `A short explanatory overview video about: %s`

// Display names for studio history entries.
var StudioTypeNames = map[string]string{
	"mindmap":    "Mind Map",
	"audio":      "Audio Overview",
	"report":     "Report",
	"flashcards": "Flashcards",
	"quiz":       "Quiz",
	"video":      "Video Overview",
}
