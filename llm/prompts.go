package llm

import (
	"fmt"
)

func getSystemPrompt() string {
	return `You are an expert front-end web developer. You generate complete, self-contained HTML, CSS, and JavaScript for websites based on the requirements you are given.

Return only the requested code. Do NOT wrap your response in markdown code blocks and do NOT add prose before or after the code.`
}

func getMarkupPrompt(description string) string {
	return fmt.Sprintf(`Generate HTML code for a website based on this description: %s. Return only the HTML code, no explanations.`, description)
}

func getStylesheetPrompt(markup string) string {
	return fmt.Sprintf(`Generate CSS code to style the following HTML for a website: %s. Return only the CSS code, no explanations.`, markup)
}

func getScriptPrompt(markup string) string {
	return fmt.Sprintf(`Generate JavaScript code to add interactivity to the following HTML: %s. Return only the JS code, no explanations.`, markup)
}
