package extract

import (
	"context"
	"strings"

	"notebooklm-be/pkg/llm"
)

const (
	imageGroundPrompt = `Describe this image in detail: what it shows, any visible text, and anything notable. The description will be used to answer questions about the image.`
	audioGroundPrompt = `Transcribe this audio recording. If parts are inaudible, mark them [inaudible]. Output the transcript only.`
	videoGroundPrompt = `Describe this video: transcribe the speech and summarize what is shown on screen, in order. Output the transcript and description only.`
)

// extractMedia stores the original bytes and asks the model to produce the
// grounding text (description or transcript). Binary parts pin the request
// to the multimodal provider.
func (e *Extractor) extractMedia(ctx context.Context, in Input, mime string, kind Kind, report ProgressFunc) (*Result, error) {
	report(20)

	prompt := imageGroundPrompt
	switch kind {
	case KindAudio:
		prompt = audioGroundPrompt
	case KindVideo:
		prompt = videoGroundPrompt
	}

	content, err := e.gen.Generate(ctx, &llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Parts:    []llm.Part{{MimeType: mime, Data: in.Data}},
	})
	if err != nil {
		return nil, err
	}
	report(90)

	return &Result{
		Kind:      kind,
		MimeType:  in.MimeType,
		Data:      in.Data,
		Grounding: strings.TrimSpace(content),
	}, nil
}
