package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"notebooklm-be/pkg/llm"
)

var youtubePattern = regexp.MustCompile(`(?i)(youtube\.com/watch|youtu\.be/|youtube\.com/shorts)`)

// IsYoutubeURL reports whether the url points at a youtube video.
func IsYoutubeURL(url string) bool {
	return youtubePattern.MatchString(url)
}

const (
	websiteGroundPrompt = `Read the web page at %s and return its title and full readable text content.`
	youtubeGroundPrompt = `Watch the youtube video at %s and return its title and a full transcript-style account of its content.`
)

type urlExtraction struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

var urlSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"title":   {Type: llm.TypeString, Description: "page or video title"},
		"content": {Type: llm.TypeString, Description: "full readable content"},
	},
	Required: []string{"title", "content"},
}

// extractURL grounds a website or youtube url through the model, which
// fetches and reads the target itself.
func (e *Extractor) extractURL(ctx context.Context, in Input, report ProgressFunc) (*Result, error) {
	report(15)

	kind := KindWebsite
	prompt := fmt.Sprintf(websiteGroundPrompt, in.URL)
	if IsYoutubeURL(in.URL) {
		kind = KindYoutube
		prompt = fmt.Sprintf(youtubeGroundPrompt, in.URL)
	}

	var out urlExtraction
	err := e.gen.GenerateJSON(ctx, &llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:   urlSchema,
	}, &out)
	if err != nil {
		return nil, &UrlProcessingError{URL: in.URL, Err: err}
	}
	if strings.TrimSpace(out.Content) == "" {
		return nil, &UrlProcessingError{URL: in.URL, Err: fmt.Errorf("no readable content")}
	}
	report(90)

	title := strings.TrimSpace(out.Title)
	if title == "" {
		title = in.URL
	}

	return &Result{
		Kind:      kind,
		Text:      out.Content,
		Title:     title,
		URL:       in.URL,
		Grounding: out.Content,
	}, nil
}
