// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"bytes"
	"text/template"
)

// nonPaperMarker is the literal the model returns when the fetched text is
// not an academic paper. Matched case-insensitively against the response.
const nonPaperMarker = "not an academic paper"

// extractionPromptTmpl is the classification-and-extraction prompt sent to
// the model for each web result that lacks metadata.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`First, determine if the following text is from an academic paper. If it is, output the title, authors, publication date, abstract, and DOI. The authors should be a list of strings, with each string being the full name of an author. Return the information in a JSON object with the keys 'title', 'authors', 'publication_date', 'abstract', and 'doi'. If it is not an academic paper, return the string 'not an academic paper'.

Text:{{.Text}}`))

// renderPrompt executes the extraction prompt template with the page text.
func renderPrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, struct{ Text string }{Text: text}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
